package ws

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades /ws?filter=&q= to a live board subscription. Omitted
// parameters follow the session view. An empty allowedOrigins accepts
// any origin.
func HandleWS(hub *Hub, allowedOrigins []string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}

	return func(c *gin.Context) {
		var filter domain.FilterMode
		if v := c.Query("filter"); v != "" {
			m, err := domain.ParseFilterMode(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			filter = m
		}

		var search *string
		if q, ok := c.GetQuery("q"); ok {
			search = &q
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("ws upgrade error", "error", err)
			return
		}

		client := NewClient(conn, hub, filter, search)
		go client.Run()
	}
}

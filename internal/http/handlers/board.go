package handlers

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Board returns the selected, sorted task cards plus quick stats.
// Missing filter/q fall back to the session view.
func (h *Handler) Board(c *gin.Context) {
	var q service.BoardQuery
	if v, ok := c.GetQuery("filter"); ok {
		m, err := domain.ParseFilterMode(v)
		if err != nil {
			respondError(c, err)
			return
		}
		q.Filter = m
	}
	if v, ok := c.GetQuery("q"); ok {
		q.Search = &v
	}
	today, ok := todayParam(c)
	if !ok {
		return
	}
	q.Today = today

	c.JSON(http.StatusOK, h.Tasks.Board(q))
}

func (h *Handler) Analytics(c *gin.Context) {
	today, ok := todayParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Tasks.Analytics(today))
}

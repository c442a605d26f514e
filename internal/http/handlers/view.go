package handlers

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/taskstore"

	"github.com/gin-gonic/gin"
)

type viewRequest struct {
	Filter *string `json:"filter"`
	Search *string `json:"search"`
	View   *string `json:"view"`
}

func (h *Handler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.Tasks.Session())
}

// PutView sets any of the session filter, search and page. Values are
// validated before anything is applied.
func (h *Handler) PutView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var cmds []taskstore.Command
	if req.Filter != nil {
		m, err := domain.ParseFilterMode(*req.Filter)
		if err != nil {
			respondError(c, err)
			return
		}
		cmds = append(cmds, taskstore.SetFilter{Mode: m})
	}
	if req.Search != nil {
		cmds = append(cmds, taskstore.SetSearch{Query: *req.Search})
	}
	if req.View != nil {
		v, err := domain.ParseView(*req.View)
		if err != nil {
			respondError(c, err)
			return
		}
		cmds = append(cmds, taskstore.SetView{View: v})
	}

	for _, cmd := range cmds {
		if _, _, ok := h.dispatch(c, cmd); !ok {
			return
		}
	}
	h.GetView(c)
}

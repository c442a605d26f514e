package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Activity lists recorded task commands, newest first.
// GET /api/v1/activity?limit=&task_id=
func (h *Handler) Activity(c *gin.Context) {
	audit := h.Tasks.Audit()
	if audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "activity log disabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	taskID, err := strconv.ParseInt(c.DefaultQuery("task_id", "0"), 10, 64)
	if err != nil || taskID < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
		return
	}

	events, err := audit.Recent(c.Request.Context(), taskID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

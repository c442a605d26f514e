package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/service"
	"taskboard/internal/taskstore"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Tasks *service.TaskService
}

func NewHandler(tasks *service.TaskService) *Handler {
	return &Handler{Tasks: tasks}
}

// PersistedHeader is set to "false" when a change was applied in memory
// but could not be written to storage.
const PersistedHeader = "X-Persisted"

// dispatch runs cmd for the request. A storage failure after the command
// applied is not a request failure: it is logged, flagged through
// PersistedHeader and reported as persisted=false. ok is false when an
// error response was already written.
func (h *Handler) dispatch(c *gin.Context, cmd taskstore.Command) (res taskstore.Result, persisted, ok bool) {
	res, err := h.Tasks.Dispatch(c.Request.Context(), cmd)
	if err == nil {
		return res, true, true
	}
	if !res.Applied {
		respondError(c, err)
		return res, false, false
	}
	logger.WithContext(c.Request.Context()).Warn("change kept in memory only", "command", res.Command, "error", err)
	c.Header(PersistedHeader, "false")
	return res, false, true
}

// taskID parses the :id path parameter.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}

// todayParam reads ?today=YYYY-MM-DD; a zero date means "use the clock".
func todayParam(c *gin.Context) (domain.Date, bool) {
	d, err := domain.ParseDate(c.Query("today"))
	if err != nil {
		respondError(c, err)
		return domain.Date{}, false
	}
	return d, true
}

// respondError maps domain errors to status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidView):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	default:
		logger.WithContext(c.Request.Context()).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindError reports a malformed body; domain parse errors keep their
// message.
func bindError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidDate) || errors.Is(err, domain.ErrInvalidPriority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
}

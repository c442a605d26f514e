package handlers

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/taskstore"

	"github.com/gin-gonic/gin"
)

// ListTasks returns every task in insertion order.
func (h *Handler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.Tasks.Tasks()})
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	t, err := h.Tasks.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// CreateTask adds a task from the form fields. A blank title is not an
// error, the command is just not applied.
func (h *Handler) CreateTask(c *gin.Context) {
	var d domain.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		bindError(c, err)
		return
	}
	p, err := domain.ParsePriority(string(d.Priority))
	if err != nil {
		respondError(c, err)
		return
	}
	d.Priority = p

	res, persisted, ok := h.dispatch(c, taskstore.AddTask{Draft: d})
	if !ok {
		return
	}
	if !res.Applied {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"applied": false, "error": "title is required"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"applied": true, "persisted": persisted, "task": res.Task})
}

// ReplaceTask (PUT) overwrites every form field.
func (h *Handler) ReplaceTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var d domain.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		bindError(c, err)
		return
	}
	p, err := domain.ParsePriority(string(d.Priority))
	if err != nil {
		respondError(c, err)
		return
	}
	d.Priority = p
	h.update(c, id, domain.PatchFromDraft(d.Normalize()))
}

// PatchTask (PATCH) merges the fields present in the body.
func (h *Handler) PatchTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var p domain.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		bindError(c, err)
		return
	}
	if p.Priority != nil {
		pr, err := domain.ParsePriority(string(*p.Priority))
		if err != nil {
			respondError(c, err)
			return
		}
		p.Priority = &pr
	}
	h.update(c, id, p)
}

func (h *Handler) update(c *gin.Context, id int64, p domain.Patch) {
	if _, err := h.Tasks.Get(id); err != nil {
		respondError(c, err)
		return
	}
	res, persisted, ok := h.dispatch(c, taskstore.UpdateTask{ID: id, Patch: p})
	if !ok {
		return
	}
	if !res.Applied {
		c.JSON(http.StatusOK, gin.H{"applied": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": true, "persisted": persisted, "task": res.Task})
}

// DeleteTask is tolerant: deleting an unknown id is still 204. A delete
// that was not persisted carries PersistedHeader.
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if _, _, ok := h.dispatch(c, taskstore.DeleteTask{ID: id}); !ok {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ToggleTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	res, persisted, ok := h.dispatch(c, taskstore.ToggleComplete{ID: id})
	if !ok {
		return
	}
	if !res.Applied {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": true, "persisted": persisted, "task": res.Task})
}

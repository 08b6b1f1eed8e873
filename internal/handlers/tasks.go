package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo-dapp/client/internal/engine"
	"todo-dapp/client/internal/models"
	"todo-dapp/client/internal/store"
)

type TaskHandler struct {
	engine *engine.Engine
}

func NewTaskHandler(eng *engine.Engine) *TaskHandler {
	return &TaskHandler{engine: eng}
}

// GetTasks returns the filtered, sorted view together with the aggregates.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.ViewModel())
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var taskInput struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Priority    int    `json:"priority" binding:"required"`
		DueDate     int64  `json:"due_date"`
		Category    string `json:"category"`
	}
	if err := c.ShouldBindJSON(&taskInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := models.TaskDraft{
		Title:       taskInput.Title,
		Description: taskInput.Description,
		Priority:    models.Priority(taskInput.Priority),
		DueDate:     taskInput.DueDate,
		Category:    taskInput.Category,
	}

	if err := h.engine.AddTask(c.Request.Context(), draft); err != nil {
		handleIntentError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, h.engine.ViewModel())
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.engine.CompleteTask(c.Request.Context(), id); err != nil {
		handleIntentError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, h.engine.ViewModel())
}

// DeleteTask consumes an already-confirmed delete intent; the destructive
// confirmation dialog lives at the presentation boundary.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.engine.DeleteTask(c.Request.Context(), id); err != nil {
		handleIntentError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, h.engine.ViewModel())
}

func (h *TaskHandler) UpdatePriority(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var priorityInput struct {
		Priority int `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&priorityInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.engine.Reprioritize(c.Request.Context(), id, models.Priority(priorityInput.Priority)); err != nil {
		handleIntentError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, h.engine.ViewModel())
}

// SetFilters updates any subset of the three filters in one intent.
func (h *TaskHandler) SetFilters(c *gin.Context) {
	var filterInput struct {
		Status   *string `json:"status"`
		Priority *int    `json:"priority"`
		Category *string `json:"category"`
	}
	if err := c.ShouldBindJSON(&filterInput); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if filterInput.Status != nil {
		if err := h.engine.SetStatusFilter(*filterInput.Status); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if filterInput.Priority != nil {
		if err := h.engine.SetPriorityFilter(*filterInput.Priority); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if filterInput.Category != nil {
		h.engine.SetCategoryFilter(*filterInput.Category)
	}

	c.JSON(http.StatusOK, h.engine.ViewModel())
}

func (h *TaskHandler) Refresh(c *gin.Context) {
	if err := h.engine.Refresh(c.Request.Context()); err != nil {
		handleIntentError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.ViewModel())
}

func (h *TaskHandler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.engine.Notifications()})
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}

func handleIntentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrNotConnected):
		c.JSON(http.StatusConflict, gin.H{"error": "no account connected"})
	case errors.Is(err, models.ErrEmptyTitle), errors.Is(err, models.ErrInvalidPriority):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrRemoteOperation):
		c.JSON(http.StatusBadGateway, gin.H{"error": "remote operation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process task request"})
	}
}

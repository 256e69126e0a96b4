package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-tasklist/backend/internal/models"
	"go-tasklist/backend/internal/repositories"
	"go-tasklist/backend/internal/services"
)

// TodoHandler serves the session-gated todo endpoints.
type TodoHandler struct {
	todoService *services.TodoService
	logger      *logrus.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService *services.TodoService, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{todoService: todoService, logger: logger}
}

// sessionUserID pulls the authenticated user's id out of the context set
// by the auth middleware. Returns false after writing the response.
func sessionUserID(c *gin.Context) (int, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return 0, false
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return 0, false
	}
	return userID, true
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}

// ListTodosHandler returns the caller's todos, newest-created first.
func (h *TodoHandler) ListTodosHandler(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	todos, err := h.todoService.List(userID)
	if err != nil {
		h.logger.Errorf("Failed to fetch todos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching todos"})
		return
	}
	c.JSON(http.StatusOK, todos)
}

// CreateTodoHandler creates a todo owned by the caller.
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req models.TodoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	createdTodo, err := h.todoService.Create(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
			return
		}
		h.logger.Errorf("Failed to create todo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating todo"})
		return
	}
	c.JSON(http.StatusCreated, createdTodo)
}

// GetTodoByIDHandler returns one todo. A todo owned by another user gets
// the same 404 as a missing one.
func (h *TodoHandler) GetTodoByIDHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	todo, err := h.todoService.Get(id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		h.logger.Errorf("Failed to fetch todo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching todo"})
		return
	}
	c.JSON(http.StatusOK, todo)
}

// UpdateTodoHandler merges a partial field set onto the stored todo.
// Unknown body fields are rejected so an owner field in the payload can
// never reach the merge.
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req models.TodoUpdateRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	updatedTodo, err := h.todoService.Update(id, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTodoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		case errors.Is(err, services.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		default:
			h.logger.Errorf("Failed to update todo: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating todo"})
		}
		return
	}
	c.JSON(http.StatusOK, updatedTodo)
}

// DeleteTodoHandler removes a todo. Not idempotent: a second delete of
// the same id reports 404.
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	if err := h.todoService.Delete(id, userID); err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		h.logger.Errorf("Failed to delete todo: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting todo"})
		return
	}
	c.Status(http.StatusNoContent)
}

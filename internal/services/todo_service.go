package services

import (
	"errors"
	"strings"

	"go-tasklist/backend/internal/models"
	"go-tasklist/backend/internal/repositories"
)

// ErrTitleRequired is returned when a create or update would leave a todo
// without a title.
var ErrTitleRequired = errors.New("title is required")

// TodoService holds the todo business rules. Every operation takes the
// session user's id and passes it into the repository's compound lookups,
// so a todo owned by someone else surfaces as ErrTodoNotFound.
type TodoService struct {
	todoRepo *repositories.TodoRepository
}

// NewTodoService creates a new TodoService.
func NewTodoService(todoRepo *repositories.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

// List returns the user's todos, newest-created first.
func (s *TodoService) List(userID int) ([]*models.Todo, error) {
	return s.todoRepo.FindByUser(userID)
}

// Create stores a new todo for the session user. The owner comes from the
// session and the todo always starts incomplete, regardless of the payload.
func (s *TodoService) Create(userID int, req models.TodoCreateRequest) (*models.Todo, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	todo := &models.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
	}
	return s.todoRepo.Create(todo)
}

// Get returns the todo if the session user owns it.
func (s *TodoService) Get(id, userID int) (*models.Todo, error) {
	return s.todoRepo.FindByID(id, userID)
}

// Update applies a shallow merge of the provided fields onto the stored
// record and returns the result.
func (s *TodoService) Update(id, userID int, req models.TodoUpdateRequest) (*models.Todo, error) {
	existing, err := s.todoRepo.FindByID(id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.Completed != nil {
		existing.Completed = *req.Completed
	}

	return s.todoRepo.Update(id, userID, existing)
}

// Delete removes the todo if the session user owns it. Deleting an
// already-deleted id reports not-found.
func (s *TodoService) Delete(id, userID int) error {
	return s.todoRepo.Delete(id, userID)
}

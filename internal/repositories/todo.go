package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"go-tasklist/backend/internal/models"
)

// ErrTodoNotFound covers both a missing row and a row owned by someone
// else: every query below is keyed by (id, user_id), so a non-owned todo
// is indistinguishable from an absent one.
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository performs todos table operations. All lookups are scoped
// to the owning user.
type TodoRepository struct {
	DB     *sql.DB
	logger *logrus.Logger
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(db *sql.DB, logger *logrus.Logger) *TodoRepository {
	return &TodoRepository{DB: db, logger: logger}
}

// Create inserts a new todo for its owner and returns the stored row.
func (r *TodoRepository) Create(t *models.Todo) (*models.Todo, error) {
	query := "INSERT INTO todos (user_id, title, description, completed) VALUES (?, ?, ?, ?)"
	result, err := r.DB.Exec(query, t.UserID, t.Title, t.Description, t.Completed)
	if err != nil {
		r.logger.Errorf("Failed to insert todo: %v", err)
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}

	// Re-read so the caller sees the DB-assigned timestamps.
	return r.FindByID(int(id), t.UserID)
}

// FindByUser returns all todos owned by userID, newest-created first.
// The id tie-break keeps creation order stable within one DATETIME tick.
func (r *TodoRepository) FindByUser(userID int) ([]*models.Todo, error) {
	query := `SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM todos WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.Query(query, userID)
	if err != nil {
		r.logger.Errorf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			r.logger.Errorf("Failed to scan todo: %v", err)
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// FindByID returns the todo with the given id if userID owns it.
func (r *TodoRepository) FindByID(id, userID int) (*models.Todo, error) {
	query := `SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM todos WHERE id = ? AND user_id = ?`

	t, err := scanTodo(r.DB.QueryRow(query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		r.logger.Errorf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}

	return t, nil
}

// Update writes the merged field set back and returns the stored row.
// The caller is expected to have loaded the row through FindByID first,
// so the owner scope has already been enforced once; the WHERE clause
// repeats it anyway.
func (r *TodoRepository) Update(id, userID int, t *models.Todo) (*models.Todo, error) {
	query := "UPDATE todos SET title = ?, description = ?, completed = ? WHERE id = ? AND user_id = ?"

	if _, err := r.DB.Exec(query, t.Title, t.Description, t.Completed, id, userID); err != nil {
		r.logger.Errorf("Failed to update todo: %v", err)
		return nil, fmt.Errorf("could not update todo: %w", err)
	}

	return r.FindByID(id, userID)
}

// Delete removes the todo with the given id if userID owns it.
func (r *TodoRepository) Delete(id, userID int) error {
	query := "DELETE FROM todos WHERE id = ? AND user_id = ?"

	result, err := r.DB.Exec(query, id, userID)
	if err != nil {
		r.logger.Errorf("Failed to delete todo: %v", err)
		return fmt.Errorf("could not delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTodoNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var t models.Todo
	var description sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	return &t, nil
}

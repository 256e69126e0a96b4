package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tasklist/backend/internal/models"
	"go-tasklist/backend/testutil"
)

func authedRequest(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTodo_Success(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	w := authedRequest(t, r, http.MethodPost, "/todos", token, `{"title":"Test Todo","description":"A description"}`)

	assert.Equal(t, http.StatusCreated, w.Code, "Expected HTTP Status Code 201 Created")
	var createdTodo models.Todo
	err = json.Unmarshal(w.Body.Bytes(), &createdTodo)
	assert.NoError(t, err, "Response should be a valid JSON todo object")

	assert.NotZero(t, createdTodo.ID, "Expected a non-zero Todo ID")
	assert.Equal(t, "Test Todo", createdTodo.Title)
	require.NotNil(t, createdTodo.Description)
	assert.Equal(t, "A description", *createdTodo.Description)
	assert.False(t, createdTodo.Completed, "New todos always start incomplete")
	assert.Equal(t, 1, createdTodo.UserID, "Owner should be the seeded session user")
	assert.WithinDuration(t, time.Now(), createdTodo.CreatedAt, 5*time.Second)
}

func TestCreateTodo_MissingTitle(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	for _, body := range []string{`{}`, `{"title":""}`, `{"title":"   "}`} {
		w := authedRequest(t, r, http.MethodPost, "/todos", token, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response map[string]string
		err = json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Contains(t, response["error"], "Title is required")
	}
}

func TestCreateTodo_OwnerComesFromSession(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	// A user_id in the payload must not override the session identity.
	w := authedRequest(t, r, http.MethodPost, "/todos", token, `{"title":"Spoofed","user_id":999,"completed":true}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var createdTodo models.Todo
	err = json.Unmarshal(w.Body.Bytes(), &createdTodo)
	require.NoError(t, err)
	assert.Equal(t, 1, createdTodo.UserID)
	assert.False(t, createdTodo.Completed)
}

func TestListTodos_NewestFirst(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	t1 := testutil.CreateTestTodo(t, r, token, "T1", nil)
	t2 := testutil.CreateTestTodo(t, r, token, "T2", nil)
	t3 := testutil.CreateTestTodo(t, r, token, "T3", nil)

	// Stagger creation times so the ordering is unambiguous.
	base := time.Now().Add(-time.Hour)
	testutil.SetTodoCreatedAt(t, db, t1.ID, base)
	testutil.SetTodoCreatedAt(t, db, t2.ID, base.Add(time.Minute))
	testutil.SetTodoCreatedAt(t, db, t3.ID, base.Add(2*time.Minute))

	w := authedRequest(t, r, http.MethodGet, "/todos", token, "")

	require.Equal(t, http.StatusOK, w.Code)
	var todos []*models.Todo
	err = json.Unmarshal(w.Body.Bytes(), &todos)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, "T3", todos[0].Title)
	assert.Equal(t, "T2", todos[1].Title)
	assert.Equal(t, "T1", todos[2].Title)
}

func TestListTodos_OnlyOwnTodos(t *testing.T) {
	db, r, _, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	tokenA, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	testutil.CreateTestUser(t, userRepo, "Other User", "other@example.com", "password123")
	tokenB, err := testutil.LoginAndGetToken(t, r, "other@example.com", "password123")
	require.NoError(t, err)

	testutil.CreateTestTodo(t, r, tokenA, "Mine", nil)
	testutil.CreateTestTodo(t, r, tokenB, "Theirs", nil)

	w := authedRequest(t, r, http.MethodGet, "/todos", tokenA, "")

	require.Equal(t, http.StatusOK, w.Code)
	var todos []*models.Todo
	err = json.Unmarshal(w.Body.Bytes(), &todos)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Mine", todos[0].Title)
}

func TestGetTodoByID_RoundTrip(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	desc := "Y"
	created := testutil.CreateTestTodo(t, r, token, "X", &desc)

	w := authedRequest(t, r, http.MethodGet, fmt.Sprintf("/todos/%d", created.ID), token, "")

	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Todo
	err = json.Unmarshal(w.Body.Bytes(), &fetched)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "X", fetched.Title)
	require.NotNil(t, fetched.Description)
	assert.Equal(t, "Y", *fetched.Description)
	assert.False(t, fetched.Completed)
}

func TestGetTodoByID_NotFound(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	w := authedRequest(t, r, http.MethodGet, "/todos/99999", token, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]string
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Contains(t, response["error"], "Todo not found")
}

func TestGetTodoByID_OtherUsersTodoIsNotFound(t *testing.T) {
	db, r, _, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	tokenA, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	testutil.CreateTestUser(t, userRepo, "Other User", "other@example.com", "password123")
	tokenB, err := testutil.LoginAndGetToken(t, r, "other@example.com", "password123")
	require.NoError(t, err)

	theirs := testutil.CreateTestTodo(t, r, tokenB, "Their Todo", nil)

	// Must be a 404, not a 403: a non-owned todo looks absent.
	w := authedRequest(t, r, http.MethodGet, fmt.Sprintf("/todos/%d", theirs.ID), tokenA, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTodo_PartialMerge(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	desc := "Keep me"
	created := testutil.CreateTestTodo(t, r, token, "Keep title", &desc)

	// Only completed in the payload: title and description must survive.
	w := authedRequest(t, r, http.MethodPut, fmt.Sprintf("/todos/%d", created.ID), token, `{"completed":true}`)

	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Todo
	err = json.Unmarshal(w.Body.Bytes(), &updated)
	require.NoError(t, err)
	assert.Equal(t, "Keep title", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Keep me", *updated.Description)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.UserID, updated.UserID)
}

func TestUpdateTodo_UnknownFieldRejected(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	created := testutil.CreateTestTodo(t, r, token, "Untouchable", nil)

	w := authedRequest(t, r, http.MethodPut, fmt.Sprintf("/todos/%d", created.ID), token, `{"completed":true,"user_id":999}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was merged.
	w = authedRequest(t, r, http.MethodGet, fmt.Sprintf("/todos/%d", created.ID), token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Todo
	err = json.Unmarshal(w.Body.Bytes(), &fetched)
	require.NoError(t, err)
	assert.False(t, fetched.Completed)
}

func TestUpdateTodo_EmptyTitleRejected(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	created := testutil.CreateTestTodo(t, r, token, "Has a title", nil)

	w := authedRequest(t, r, http.MethodPut, fmt.Sprintf("/todos/%d", created.ID), token, `{"title":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTodo_OtherUsersTodoIsNotFound(t *testing.T) {
	db, r, _, userRepo := testutil.SetupTestDB(t)
	defer db.Close()

	tokenA, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	testutil.CreateTestUser(t, userRepo, "Other User", "other@example.com", "password123")
	tokenB, err := testutil.LoginAndGetToken(t, r, "other@example.com", "password123")
	require.NoError(t, err)

	theirs := testutil.CreateTestTodo(t, r, tokenB, "Their Todo", nil)

	w := authedRequest(t, r, http.MethodPut, fmt.Sprintf("/todos/%d", theirs.ID), tokenA, `{"completed":true}`)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// Untouched for the real owner.
	w = authedRequest(t, r, http.MethodGet, fmt.Sprintf("/todos/%d", theirs.ID), tokenB, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Todo
	err = json.Unmarshal(w.Body.Bytes(), &fetched)
	require.NoError(t, err)
	assert.False(t, fetched.Completed)
}

func TestDeleteTodo_NotIdempotent(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	token, err := testutil.LoginAndGetToken(t, r, "test@example.com", "password123")
	require.NoError(t, err)

	created := testutil.CreateTestTodo(t, r, token, "Delete me", nil)

	w := authedRequest(t, r, http.MethodDelete, fmt.Sprintf("/todos/%d", created.ID), token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = authedRequest(t, r, http.MethodGet, fmt.Sprintf("/todos/%d", created.ID), token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Second delete of the same id reports not-found.
	w = authedRequest(t, r, http.MethodDelete, fmt.Sprintf("/todos/%d", created.ID), token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTodos_Unauthorized(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/todos"},
		{http.MethodGet, "/todos/1"},
		{http.MethodPut, "/todos/1"},
		{http.MethodDelete, "/todos/1"},
	}
	for _, p := range paths {
		w := authedRequest(t, r, p.method, p.path, "", `{"title":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should require a session", p.method, p.path)
	}
}

// Full journey: register, sign in, create, toggle, delete, then confirm
// the todo is gone.
func TestScenario_RegisterToDelete(t *testing.T) {
	db, r, _, _ := testutil.SetupTestDB(t)
	defer db.Close()

	body, _ := json.Marshal(map[string]string{
		"name":     "Journey User",
		"email":    "journey@example.com",
		"password": "password123",
	})
	req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	token, err := testutil.LoginAndGetToken(t, r, "journey@example.com", "password123")
	require.NoError(t, err)

	w = authedRequest(t, r, http.MethodPost, "/todos", token, `{"title":"New Todo"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.False(t, created.Completed)

	w = authedRequest(t, r, http.MethodPut, fmt.Sprintf("/todos/%d", created.ID), token, `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	var toggled models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
	require.True(t, toggled.Completed)

	w = authedRequest(t, r, http.MethodDelete, fmt.Sprintf("/todos/%d", created.ID), token, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = authedRequest(t, r, http.MethodGet, fmt.Sprintf("/todos/%d", created.ID), token, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

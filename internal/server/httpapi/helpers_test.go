package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/dbx"
	"github.com/dmitrijs2005/tasklist/internal/logging"
	"github.com/dmitrijs2005/tasklist/internal/server/config"
	"github.com/dmitrijs2005/tasklist/internal/server/models"
	listsrepo "github.com/dmitrijs2005/tasklist/internal/server/repositories/lists"
	tasksrepo "github.com/dmitrijs2005/tasklist/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/tasklist/internal/server/repositories/users"
	"github.com/dmitrijs2005/tasklist/internal/server/services"
)

// memStore is an in-memory repository set backing the handler tests, so they
// exercise the real services and the full mux without a database.
type memStore struct {
	users map[string]*models.User
	lists map[string]*models.List
	tasks map[string]*models.Task
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		lists: map[string]*models.List{},
		tasks: map[string]*models.Task{},
	}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(db dbx.DBTX) usersrepo.Repository       { return (*memUsers)(m) }
func (m *memStore) Lists(db dbx.DBTX) listsrepo.Repository       { return (*memLists)(m) }
func (m *memStore) Tasks(db dbx.DBTX) tasksrepo.Repository       { return (*memTasks)(m) }

type memUsers memStore

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.CreatedAt = time.Now()
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username.Valid && u.Username.String == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memLists memStore

func (m *memLists) Create(ctx context.Context, l *models.List) (*models.List, error) {
	l.CreatedAt = time.Now()
	m.lists[l.ID] = l
	return l, nil
}

func (m *memLists) Get(ctx context.Context, id string) (*models.List, error) {
	if l, ok := m.lists[id]; ok {
		return l, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memLists) ListByOwner(ctx context.Context, userID string) ([]*models.List, error) {
	var result []*models.List
	for _, l := range m.lists {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *memLists) Update(ctx context.Context, l *models.List) (*models.List, error) {
	if _, ok := m.lists[l.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	l.UpdatedAt = sql.NullTime{Time: time.Now(), Valid: true}
	m.lists[l.ID] = l
	return l, nil
}

func (m *memLists) Delete(ctx context.Context, id string) error {
	if _, ok := m.lists[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.lists, id)
	return nil
}

type memTasks memStore

func (m *memTasks) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.CreatedAt = time.Now()
	m.tasks[task.ID] = task
	return task, nil
}

func (m *memTasks) Get(ctx context.Context, id string) (*models.Task, error) {
	if task, ok := m.tasks[id]; ok {
		return task, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memTasks) ListByList(ctx context.Context, listID string) ([]*models.Task, error) {
	var result []*models.Task
	for _, task := range m.tasks {
		if task.ListID == listID {
			result = append(result, task)
		}
	}
	return result, nil
}

func (m *memTasks) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if _, ok := m.tasks[task.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	task.UpdatedAt = sql.NullTime{Time: time.Now(), Valid: true}
	m.tasks[task.ID] = task
	return task, nil
}

func (m *memTasks) Delete(ctx context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memTasks) DeleteByList(ctx context.Context, listID string) error {
	for id, task := range m.tasks {
		if task.ListID == listID {
			delete(m.tasks, id)
		}
	}
	return nil
}

// newTestServer wires the real services to an in-memory store and returns the
// full route table. The sqlmock handle only backs transaction begin/commit
// during list cascade deletes.
func newTestServer(t *testing.T) (http.Handler, sqlmock.Sqlmock, *memStore) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: 30 * time.Minute,
		BcryptCost:                  4, // keep hashing fast in tests
	}

	store := newMemStore()
	us := services.NewUserService(db, store, logger, cfg)
	ls := services.NewListService(db, store, logger)
	ts := services.NewTaskService(db, store, logger)

	srv := NewServer(":0", logger, us, ls, ts)
	return srv.Handler(), mock, store
}

// doJSON performs a request against the handler. body is JSON-encoded unless
// it is a raw string, which is sent as-is.
func doJSON(t *testing.T, h http.Handler, method, path string, body any, decorate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, d := range decorate {
		d(req)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withBasic(email, password string) func(*http.Request) {
	return func(r *http.Request) { r.SetBasicAuth(email, password) }
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

// registerAndLogin creates an account through the public endpoints and
// returns the user id and a bearer token.
func registerAndLogin(t *testing.T, h http.Handler, email, password string) (userID, token string) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	userID = decodeBody(t, rec)["userId"].(string)

	rec = doJSON(t, h, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token = decodeBody(t, rec)["token"].(string)
	return userID, token
}

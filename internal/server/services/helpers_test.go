package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/dbx"
	"github.com/dmitrijs2005/tasklist/internal/logging"
	"github.com/dmitrijs2005/tasklist/internal/server/auth"
	"github.com/dmitrijs2005/tasklist/internal/server/config"
	"github.com/dmitrijs2005/tasklist/internal/server/models"
	listsrepo "github.com/dmitrijs2005/tasklist/internal/server/repositories/lists"
	tasksrepo "github.com/dmitrijs2005/tasklist/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/tasklist/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: 30 * time.Minute,
		BcryptCost:                  4, // keep hashing fast in tests
	}
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	return h
}

// --- in-memory fakes ---

type fakeUsersRepo struct {
	users     map[string]*models.User // keyed by id
	createErr error
	created   []*models.User
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{users: map[string]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.CreatedAt = time.Now()
	f.users[u.ID] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username.Valid && u.Username.String == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeListsRepo struct {
	lists   map[string]*models.List
	deleted []string
}

func newFakeListsRepo(lists ...*models.List) *fakeListsRepo {
	f := &fakeListsRepo{lists: map[string]*models.List{}}
	for _, l := range lists {
		f.lists[l.ID] = l
	}
	return f
}

func (f *fakeListsRepo) Create(ctx context.Context, l *models.List) (*models.List, error) {
	l.CreatedAt = time.Now()
	f.lists[l.ID] = l
	return l, nil
}

func (f *fakeListsRepo) Get(ctx context.Context, id string) (*models.List, error) {
	if l, ok := f.lists[id]; ok {
		return l, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeListsRepo) ListByOwner(ctx context.Context, userID string) ([]*models.List, error) {
	var result []*models.List
	for _, l := range f.lists {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeListsRepo) Update(ctx context.Context, l *models.List) (*models.List, error) {
	if _, ok := f.lists[l.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	l.UpdatedAt = sql.NullTime{Time: time.Now(), Valid: true}
	f.lists[l.ID] = l
	return l, nil
}

func (f *fakeListsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.lists[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.lists, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTasksRepo struct {
	tasks          map[string]*models.Task
	deletedByList  []string
	deleted        []string
	deleteListErr  error
	deleteTaskErr  error
	createTaskErr  error
	updatedVersion int
}

func newFakeTasksRepo(tasks ...*models.Task) *fakeTasksRepo {
	f := &fakeTasksRepo{tasks: map[string]*models.Task{}}
	for _, task := range tasks {
		f.tasks[task.ID] = task
	}
	return f
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if f.createTaskErr != nil {
		return nil, f.createTaskErr
	}
	task.CreatedAt = time.Now()
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeTasksRepo) Get(ctx context.Context, id string) (*models.Task, error) {
	if task, ok := f.tasks[id]; ok {
		return task, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTasksRepo) ListByList(ctx context.Context, listID string) ([]*models.Task, error) {
	var result []*models.Task
	for _, task := range f.tasks {
		if task.ListID == listID {
			result = append(result, task)
		}
	}
	return result, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if _, ok := f.tasks[task.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	task.UpdatedAt = sql.NullTime{Time: time.Now(), Valid: true}
	f.tasks[task.ID] = task
	f.updatedVersion++
	return task, nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id string) error {
	if f.deleteTaskErr != nil {
		return f.deleteTaskErr
	}
	if _, ok := f.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.tasks, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTasksRepo) DeleteByList(ctx context.Context, listID string) error {
	if f.deleteListErr != nil {
		return f.deleteListErr
	}
	for id, task := range f.tasks {
		if task.ListID == listID {
			delete(f.tasks, id)
		}
	}
	f.deletedByList = append(f.deletedByList, listID)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	l *fakeListsRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Lists(db dbx.DBTX) listsrepo.Repository       { return m.l }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository       { return m.t }

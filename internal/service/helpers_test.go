package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/auth"
	"task-manager/internal/repository"
)

type testEnv struct {
	db         *gorm.DB
	now        time.Time
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	tasks      *repository.TaskRepository
	tokens     *repository.TokenRepository
	throttle   *repository.ThrottleRepository
	issuer     *auth.Manager
	auth       *AuthService
	catSvc     *CategoryService
	taskSvc    *TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(repository.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	env := &testEnv{
		db:         db,
		now:        time.Date(2026, 10, 15, 10, 30, 0, 0, time.Local),
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		tasks:      repository.NewTaskRepository(db),
		tokens:     repository.NewTokenRepository(db),
		throttle:   repository.NewThrottleRepository(db),
	}
	env.issuer, err = auth.NewManager(auth.Config{
		Secret:     []byte("test-secret"),
		Issuer:     "task-manager-test",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Now:        env.clock,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	env.auth = NewAuthService(env.users, env.tokens, env.issuer)
	env.auth.now = env.clock
	env.catSvc = NewCategoryService(env.categories)
	env.taskSvc = NewTaskService(env.tasks, env.categories, TaskOptions{Now: env.clock})
	return env
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) register(t *testing.T, username string) (*Registration, auth.Identity) {
	t.Helper()
	reg, err := e.auth.Register(context.Background(), RegisterInput{
		FirstName: "First",
		LastName:  "Last",
		Username:  username,
		Password:  "pass-" + username,
		Email:     username + "@example.com",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return reg, auth.Identity{UserID: reg.User.ID, Username: reg.User.Username}
}

func (e *testEnv) category(t *testing.T, id auth.Identity, title string) uint {
	t.Helper()
	c, err := e.catSvc.Create(context.Background(), id, title)
	if err != nil {
		t.Fatalf("create category %q: %v", title, err)
	}
	return c.ID
}

func strPtr(v string) *string { return &v }

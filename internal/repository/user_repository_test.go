package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"tarot_portal/internal/config"
	"tarot_portal/internal/db"
	"tarot_portal/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenDialector(sqlite.Open("file::memory:"), true)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // Every connection to :memory: is its own database
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &domain.User{Name: "Ann", Email: "a@x.com", Phone: "555", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "Ann", byEmail.Name)
	assert.Equal(t, "555", byEmail.Phone)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DuplicateEmailRollsBack(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.User{Name: "Ann", Email: "a@x.com", Password: "hash"}))

	dup := &domain.User{Name: "Imposter", Email: "a@x.com", Password: "other"}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Zero(t, dup.ID)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	stored, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.Name)
}

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	raceSameEmail(t, NewUserRepository(newTestDB(t)), 8)
}

// The file-backed store runs with a connection pool, so inserts really overlap
func TestUserRepository_ConcurrentCreateSameEmailFileDB(t *testing.T) {
	gdb, err := db.Open(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "users.db"),
		IsProd:   true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(16)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	raceSameEmail(t, NewUserRepository(gdb), 16)
}

func raceSameEmail(t *testing.T, repo UserRepository, workers int) {
	t.Helper()
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &domain.User{Name: "Racer", Email: "race@x.com", Password: "hash"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
			} else if assert.ErrorIs(t, err, ErrDuplicateEmail) {
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, workers-1, dups)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

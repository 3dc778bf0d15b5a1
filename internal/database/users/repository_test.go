package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ndreev/passport/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "users_test.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	return NewRepository(db)
}

func testUser(id, email string) *entities.User {
	return &entities.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

func TestRepository_Create(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	err := repo.Create(ctx, testUser("user-1", "test@example.com"))

	require.NoError(t, err)

	user, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotZero(t, user.CreatedAt)
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("user-1", "test@example.com")))

	err := repo.Create(ctx, testUser("user-2", "test@example.com"))

	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRepository_GetByEmail(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testUser("user-1", "test@example.com")))

	user, err := repo.GetByEmail(ctx, "test@example.com")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
}

func TestRepository_GetByEmail_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	user, err := repo.GetByID(context.Background(), "no-such-id")

	require.NoError(t, err)
	assert.Nil(t, user)
}

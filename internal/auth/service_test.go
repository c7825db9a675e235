package auth

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_auth_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.User{}))

	service := NewService(db, config.Auth{BcryptCost: bcrypt.MinCost})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, cleanup
}

func TestRegister(t *testing.T) {
	t.Run("creates a user with a hashed password", func(t *testing.T) {
		service, cleanup := setupTestService(t)
		defer cleanup()

		user, err := service.Register("alice@example.com", "Alice", "a-long-enough-password")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, "a-long-enough-password", user.PasswordHash)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		service, cleanup := setupTestService(t)
		defer cleanup()

		_, err := service.Register("alice@example.com", "Alice", "a-long-enough-password")
		require.NoError(t, err)

		_, err = service.Register("alice@example.com", "Imposter", "another-long-password")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("validates input", func(t *testing.T) {
		service, cleanup := setupTestService(t)
		defer cleanup()

		_, err := service.Register("", "Alice", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrEmailRequired)

		_, err = service.Register("alice@example.com", "Alice", "")
		assert.ErrorIs(t, err, ErrPasswordRequired)

		_, err = service.Register("not-an-email", "Alice", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrEmailInvalid)

		_, err = service.Register(strings.Repeat("a", 250)+"@example.com", "Alice", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrEmailInvalid)

		_, err = service.Register("alice@example.com", "Alice", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestAuthenticate(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("alice@example.com", "Alice", "a-long-enough-password")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := service.Authenticate("alice@example.com", "a-long-enough-password")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate("alice@example.com", "the-wrong-password")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.Authenticate("nobody@example.com", "a-long-enough-password")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestGetUserByID(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Register("alice@example.com", "Alice", "a-long-enough-password")
	require.NoError(t, err)

	user, err := service.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, user.Email)

	_, err = service.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestHasUsers(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	hasUsers, err := service.HasUsers()
	require.NoError(t, err)
	assert.False(t, hasUsers)

	_, err = service.Register("alice@example.com", "Alice", "a-long-enough-password")
	require.NoError(t, err)

	hasUsers, err = service.HasUsers()
	require.NoError(t, err)
	assert.True(t, hasUsers)
}

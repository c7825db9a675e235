package admin

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_admin_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Book{},
		&entities.Like{},
		&entities.Favorite{},
		&entities.Tag{},
		&entities.TagOnBook{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func TestRepository_Tables(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Create(&entities.User{Email: "a@example.com"}).Error)
	require.NoError(t, db.Create(&entities.Tag{Name: "fantasy"}).Error)
	require.NoError(t, db.Create(&entities.Tag{Name: "history"}).Error)

	infos, err := repo.Tables()
	require.NoError(t, err)
	require.Len(t, infos, 7)

	byName := map[string]TableInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, int64(1), byName["users"].Count)
	assert.Equal(t, int64(2), byName["tags"].Count)
	assert.Equal(t, int64(0), byName["books"].Count)
	assert.Equal(t, "tagOnBook", byName["tag_on_book"].ModelName)
}

func TestRepository_List(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 1; i <= 12; i++ {
		require.NoError(t, db.Create(&entities.Tag{Name: fmt.Sprintf("tag-%02d", i)}).Error)
	}

	t.Run("pages are ordered by id", func(t *testing.T) {
		rows, total, err := repo.List("tag", 2, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(12), total)

		tags, ok := rows.(*[]entities.Tag)
		require.True(t, ok)
		require.Len(t, *tags, 5)
		assert.Equal(t, "tag-06", (*tags)[0].Name)
		assert.Equal(t, "tag-10", (*tags)[4].Name)
	})

	t.Run("last page is short", func(t *testing.T) {
		rows, total, err := repo.List("tag", 3, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(12), total)
		tags := rows.(*[]entities.Tag)
		assert.Len(t, *tags, 2)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		rows, total, err := repo.List("tag", 10, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(12), total)
		tags := rows.(*[]entities.Tag)
		assert.Empty(t, *tags)
	})

	t.Run("page and pageSize are clamped", func(t *testing.T) {
		rows, _, err := repo.List("tag", 0, 0)
		require.NoError(t, err)
		tags := rows.(*[]entities.Tag)
		assert.Len(t, *tags, 1)
		assert.Equal(t, "tag-01", (*tags)[0].Name)
	})

	t.Run("unregistered model never reaches the store", func(t *testing.T) {
		_, _, err := repo.List("nonsense", 1, 10)
		assert.ErrorIs(t, err, ErrModelNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("creates a typed record", func(t *testing.T) {
		record, err := repo.Create("tag", map[string]any{"name": "horror"})
		require.NoError(t, err)

		tag, ok := record.(*entities.Tag)
		require.True(t, ok)
		assert.NotZero(t, tag.ID)
		assert.Equal(t, "horror", tag.Name)

		var count int64
		db.Model(&entities.Tag{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects fields outside the allow-list", func(t *testing.T) {
		_, err := repo.Create("tag", map[string]any{"name": "x", "id": 42})
		assert.ErrorIs(t, err, ErrValidation)

		_, err = repo.Create("user", map[string]any{"password_hash": "sneaky"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("constraint violations surface as validation errors", func(t *testing.T) {
		_, err := repo.Create("tag", map[string]any{"name": "horror"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unregistered model", func(t *testing.T) {
		_, err := repo.Create("nonsense", map[string]any{"name": "x"})
		assert.ErrorIs(t, err, ErrModelNotFound)
	})
}

func TestRepository_Update(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.User{Email: "before@example.com", Name: "Before"}
	require.NoError(t, db.Create(&user).Error)

	t.Run("merges allow-listed fields", func(t *testing.T) {
		record, err := repo.Update("user", user.ID, map[string]any{"name": "After"})
		require.NoError(t, err)

		updated := record.(*entities.User)
		assert.Equal(t, "After", updated.Name)
		assert.Equal(t, "before@example.com", updated.Email)
	})

	t.Run("rejects unknown fields before touching the row", func(t *testing.T) {
		_, err := repo.Update("user", user.ID, map[string]any{"name": "Evil", "role": "admin"})
		assert.ErrorIs(t, err, ErrValidation)

		var current entities.User
		require.NoError(t, db.First(&current, user.ID).Error)
		assert.Equal(t, "After", current.Name)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := repo.Update("user", 9999, map[string]any{"name": "Ghost"})
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	tag := entities.Tag{Name: "ephemeral"}
	require.NoError(t, db.Create(&tag).Error)

	t.Run("returns the deleted row", func(t *testing.T) {
		record, err := repo.Delete("tag", tag.ID)
		require.NoError(t, err)

		deleted := record.(*entities.Tag)
		assert.Equal(t, "ephemeral", deleted.Name)

		var count int64
		db.Model(&entities.Tag{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := repo.Delete("tag", tag.ID)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("unregistered model", func(t *testing.T) {
		_, err := repo.Delete("nonsense", 1)
		assert.ErrorIs(t, err, ErrModelNotFound)
	})
}

package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entities"
)

func newAdminRouter(db *gorm.DB, dbConfig config.Database) *gin.Engine {
	controller := NewAdminController(db, dbConfig)

	router := gin.New()
	controller.RegisterRoutes(router.Group("/api/db"))
	return router
}

func TestAdminController_ListTables(t *testing.T) {
	db, cleanup := setupHTTPTest(t)
	defer cleanup()

	seedUser(t, db, "a@example.com")
	seedCategory(t, db, "Fiction")

	router := newAdminRouter(db, config.Database{})

	w := doJSON(router, http.MethodGet, "/api/db/tables", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	tables := decodeBody(t, w)["tables"].([]any)
	require.Len(t, tables, 7)

	byName := map[string]map[string]any{}
	for _, entry := range tables {
		info := entry.(map[string]any)
		byName[info["name"].(string)] = info
	}
	assert.Equal(t, float64(1), byName["users"]["count"])
	assert.Equal(t, float64(1), byName["categories"]["count"])
	assert.Equal(t, "tagOnBook", byName["tag_on_book"]["modelName"])
}

func TestAdminController_ListRecords(t *testing.T) {
	db, cleanup := setupHTTPTest(t)
	defer cleanup()

	for i := 1; i <= 12; i++ {
		require.NoError(t, db.Create(&entities.Tag{Name: fmt.Sprintf("tag-%02d", i)}).Error)
	}

	router := newAdminRouter(db, config.Database{})

	t.Run("paged listing", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/db/table/tags?page=2&pageSize=5", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		data := body["data"].([]any)
		require.Len(t, data, 5)
		assert.Equal(t, "tag-06", data[0].(map[string]any)["name"])

		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(12), pagination["totalCount"])
		assert.Equal(t, float64(3), pagination["totalPages"])
	})

	t.Run("unknown table gives 404", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/db/table/nonsense", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("local target without a configured path gives 500", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/db/table/tags?dbType=local", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestAdminController_CreateRecord(t *testing.T) {
	db, cleanup := setupHTTPTest(t)
	defer cleanup()

	router := newAdminRouter(db, config.Database{})

	t.Run("creates a row", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/db/table/tags/create", gin.H{"name": "horror"})
		assert.Equal(t, http.StatusOK, w.Code)

		record := decodeBody(t, w)["record"].(map[string]any)
		assert.Equal(t, "horror", record["name"])
		assert.NotZero(t, record["id"])
	})

	t.Run("unknown field gives 400", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/db/table/tags/create", gin.H{"color": "red"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown table gives 404", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/db/table/nonsense/create", gin.H{"name": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminController_UpdateRecord(t *testing.T) {
	db, cleanup := setupHTTPTest(t)
	defer cleanup()

	tag := entities.Tag{Name: "before"}
	require.NoError(t, db.Create(&tag).Error)

	router := newAdminRouter(db, config.Database{})

	t.Run("updates a row by body id", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/db/table/tags/update", gin.H{
			"id":   tag.ID,
			"name": "after",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		record := decodeBody(t, w)["record"].(map[string]any)
		assert.Equal(t, "after", record["name"])
	})

	t.Run("string ids are accepted", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/db/table/tags/update", gin.H{
			"id":   itoa(tag.ID),
			"name": "again",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing id gives 400", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/db/table/tags/update", gin.H{"name": "orphan"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing row gives 404", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/api/db/table/tags/update", gin.H{
			"id":   9999,
			"name": "ghost",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAdminController_DeleteRecord(t *testing.T) {
	db, cleanup := setupHTTPTest(t)
	defer cleanup()

	tag := entities.Tag{Name: "doomed"}
	require.NoError(t, db.Create(&tag).Error)

	router := newAdminRouter(db, config.Database{})

	t.Run("missing id gives 400", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/api/db/table/tags/delete", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("deletes and returns the row", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/api/db/table/tags/delete?id="+itoa(tag.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		record := decodeBody(t, w)["record"].(map[string]any)
		assert.Equal(t, "doomed", record["name"])

		var count int64
		db.Model(&entities.Tag{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("second delete gives 404", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/api/db/table/tags/delete?id="+itoa(tag.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

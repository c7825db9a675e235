package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/entities"
)

func newCatalogRouter(db *gorm.DB, userID uint) *gin.Engine {
	controller := NewCatalogController(books.NewRepository(db))

	router := gin.New()
	router.GET("/api/catalog", asUser(userID), controller.List)
	return router
}

func TestCatalogController_List(t *testing.T) {
	db, cleanup := setupHTTPTest(t)
	defer cleanup()

	ownerID := seedUser(t, db, "owner@example.com")
	readerID := seedUser(t, db, "reader@example.com")
	categoryID := seedCategory(t, db, "Fiction")

	firstID := seedBook(t, db, ownerID, categoryID, "First", entities.VisibilityPublic)
	seedBook(t, db, ownerID, categoryID, "Second", entities.VisibilityPublic)
	seedBook(t, db, ownerID, categoryID, "Hidden", entities.VisibilityPrivate)

	require.NoError(t, db.Create(&entities.Like{UserID: readerID, BookID: firstID}).Error)

	t.Run("anonymous viewer sees public books only", func(t *testing.T) {
		router := newCatalogRouter(db, 0)
		w := doJSON(router, http.MethodGet, "/api/catalog", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		assert.Equal(t, "recent", body["sort"])

		booksList := body["books"].([]any)
		require.Len(t, booksList, 2)
		// newest first
		assert.Equal(t, "Second", booksList[0].(map[string]any)["title"])
		for _, entry := range booksList {
			assert.Equal(t, false, entry.(map[string]any)["liked_by_me"])
		}
	})

	t.Run("popular sort puts the liked book first", func(t *testing.T) {
		router := newCatalogRouter(db, 0)
		w := doJSON(router, http.MethodGet, "/api/catalog?sort=popular", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		assert.Equal(t, "popular", body["sort"])

		booksList := body["books"].([]any)
		require.Len(t, booksList, 2)
		first := booksList[0].(map[string]any)
		assert.Equal(t, "First", first["title"])
		assert.Equal(t, float64(1), first["likes_count"])
	})

	t.Run("unknown sort falls back to recent", func(t *testing.T) {
		router := newCatalogRouter(db, 0)
		w := doJSON(router, http.MethodGet, "/api/catalog?sort=sideways", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "recent", decodeBody(t, w)["sort"])
	})

	t.Run("authenticated viewer gets liked_by_me", func(t *testing.T) {
		router := newCatalogRouter(db, readerID)
		w := doJSON(router, http.MethodGet, "/api/catalog?sort=popular", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		booksList := decodeBody(t, w)["books"].([]any)
		require.Len(t, booksList, 2)
		assert.Equal(t, true, booksList[0].(map[string]any)["liked_by_me"])
		assert.Equal(t, false, booksList[1].(map[string]any)["liked_by_me"])
	})

	t.Run("search narrows the catalog", func(t *testing.T) {
		router := newCatalogRouter(db, 0)
		w := doJSON(router, http.MethodGet, "/api/catalog?search=first", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		booksList := decodeBody(t, w)["books"].([]any)
		require.Len(t, booksList, 1)
		assert.Equal(t, "First", booksList[0].(map[string]any)["title"])
	})
}

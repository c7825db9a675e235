package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/entities"
)

// CatalogStore defines the public catalog read path.
type CatalogStore interface {
	ListPublic(page, pageSize int, search, sortBy string, viewerID uint) ([]entities.Book, int64, error)
}

// CatalogController serves the public book catalog. No session is required;
// when one exists the viewer identity drives the liked_by_me field.
type CatalogController struct {
	store CatalogStore
}

func NewCatalogController(store CatalogStore) *CatalogController {
	return &CatalogController{store: store}
}

// List returns one page of public books.
// GET /api/catalog?page&pageSize&search&sort=recent|popular
func (cc *CatalogController) List(c *gin.Context) {
	page, pageSize := parsePagination(c, 20)
	search := c.Query("search")

	sortBy := books.SortRecent
	if c.Query("sort") == books.SortPopular {
		sortBy = books.SortPopular
	}

	booksList, total, err := cc.store.ListPublic(page, pageSize, search, sortBy, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list public books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":      booksList,
		"sort":       sortBy,
		"pagination": NewPagination(page, pageSize, total),
	})
}

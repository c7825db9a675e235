package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/entities"
)

// LookupStore provides the read-only reference data endpoints.
type LookupStore interface {
	GetAllCategories() ([]entities.Category, error)
	GetAllTags() ([]entities.Tag, error)
}

type LookupsController struct {
	store LookupStore
}

func NewLookupsController(store LookupStore) *LookupsController {
	return &LookupsController{store: store}
}

// GetCategories returns every category.
// GET /api/categories
func (lc *LookupsController) GetCategories(c *gin.Context) {
	categories, err := lc.store.GetAllCategories()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetTags returns every tag.
// GET /api/tags
func (lc *LookupsController) GetTags(c *gin.Context) {
	tags, err := lc.store.GetAllTags()
	if err != nil {
		respondInternalError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

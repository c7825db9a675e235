package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/database/favorites"
	"github.com/mrlokans/bookstore/internal/database/likes"
	"github.com/mrlokans/bookstore/internal/entities"
)

// BookStore defines the book query and mutation operations the controller
// needs.
type BookStore interface {
	ListOwned(ownerID uint, page, pageSize int, search string, visibility entities.Visibility) ([]entities.Book, int64, error)
	ListFavorites(userID uint, page, pageSize int, search string) ([]entities.Book, int64, error)
	GetByID(bookID, viewerID uint) (*entities.Book, error)
	Create(book *entities.Book) error
	Update(bookID, ownerID uint, changes books.BookChanges) (*entities.Book, error)
	Delete(bookID, ownerID uint) error
}

// LikeStore defines the engagement toggle.
type LikeStore interface {
	Toggle(userID, bookID uint) (liked bool, likesCount int64, err error)
}

// FavoriteStore defines the per-user favorite toggle.
type FavoriteStore interface {
	Toggle(userID, bookID uint) (favorited bool, err error)
}

type BooksController struct {
	store     BookStore
	likes     LikeStore
	favorites FavoriteStore
}

func NewBooksController(store BookStore, likes LikeStore, favorites FavoriteStore) *BooksController {
	return &BooksController{store: store, likes: likes, favorites: favorites}
}

type createBookRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	CategoryID  uint   `json:"categoryId"`
	Visibility  string `json:"visibility"`
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Description *string `json:"description"`
	CategoryID  *uint   `json:"categoryId"`
	Visibility  *string `json:"visibility"`
}

// ListOwned returns the authenticated user's books.
// GET /api/books?visibility=PUBLIC|PRIVATE&page&pageSize&search
func (bc *BooksController) ListOwned(c *gin.Context) {
	page, pageSize := parsePagination(c, 10)
	search := c.Query("search")
	visibility := entities.Visibility(c.Query("visibility"))

	booksList, total, err := bc.store.ListOwned(GetUserID(c), page, pageSize, search, visibility)
	if err != nil {
		respondInternalError(c, err, "list owned books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":      booksList,
		"pagination": NewPagination(page, pageSize, total),
	})
}

// ListFavorites returns the authenticated user's favorited books.
// GET /api/books/favorites?page&pageSize&search
func (bc *BooksController) ListFavorites(c *gin.Context) {
	page, pageSize := parsePagination(c, 10)
	search := c.Query("search")

	booksList, total, err := bc.store.ListFavorites(GetUserID(c), page, pageSize, search)
	if err != nil {
		respondInternalError(c, err, "list favorite books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":      booksList,
		"pagination": NewPagination(page, pageSize, total),
	})
}

// Create inserts a new book owned by the authenticated user.
// POST /api/books
func (bc *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book := &entities.Book{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Visibility:  entities.Visibility(req.Visibility),
		OwnerID:     GetUserID(c),
	}

	if err := bc.store.Create(book); err != nil {
		switch {
		case errors.Is(err, books.ErrValidation):
			respondBadRequest(c, "missing required fields: title, content, categoryId")
		case errors.Is(err, books.ErrCategoryNotFound):
			respondNotFound(c, "category")
		default:
			respondInternalError(c, err, "create book")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// Get returns a single book. Private books are only visible to their owner
// and report not-found to everyone else.
// GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, books.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Update modifies a book. Owner only.
// PUT /api/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	changes := books.BookChanges{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if req.Visibility != nil {
		visibility := entities.Visibility(*req.Visibility)
		changes.Visibility = &visibility
	}

	book, err := bc.store.Update(id, GetUserID(c), changes)
	if err != nil {
		switch {
		case errors.Is(err, books.ErrRecordNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrForbidden):
			respondForbidden(c, "only the owner can update the book")
		case errors.Is(err, books.ErrCategoryNotFound):
			respondNotFound(c, "category")
		case errors.Is(err, books.ErrValidation):
			respondBadRequest(c, "invalid visibility")
		default:
			respondInternalError(c, err, "update book")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Delete removes a book together with its likes, favorites and tag links.
// Owner only.
// DELETE /api/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.Delete(id, GetUserID(c)); err != nil {
		switch {
		case errors.Is(err, books.ErrRecordNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, books.ErrForbidden):
			respondForbidden(c, "only the owner can delete the book")
		default:
			respondInternalError(c, err, "delete book")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ToggleLike flips the like state of a public book for the authenticated
// user and returns the fresh aggregate count.
// POST /api/books/:id/like
func (bc *BooksController) ToggleLike(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, likesCount, err := bc.likes.Toggle(GetUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, likes.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, likes.ErrNotPublic):
			respondForbidden(c, "only public books can be liked")
		default:
			respondInternalError(c, err, "toggle like")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":      liked,
		"likesCount": likesCount,
	})
}

// ToggleFavorite flips the favorite state of a visible book for the
// authenticated user.
// POST /api/books/:id/favorite
func (bc *BooksController) ToggleFavorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	favorited, err := bc.favorites.Toggle(GetUserID(c), id)
	if err != nil {
		if errors.Is(err, favorites.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "toggle favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

// Package books provides the domain read and write paths for books:
// owned listings, the public catalog with recent/popular sorting,
// favorites and owner-guarded mutation.
package books

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

var (
	ErrRecordNotFound   = errors.New("book not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrForbidden        = errors.New("only the owner may modify the book")
	ErrValidation       = errors.New("validation failed")
)

// Sort orders for the public catalog.
const (
	SortRecent  = "recent"
	SortPopular = "popular"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// BookChanges carries the mutable fields of an update. Nil pointers mean
// "leave unchanged".
type BookChanges struct {
	Title       *string
	Content     *string
	Description *string
	Visibility  *entities.Visibility
	CategoryID  *uint
}

// searchScope applies the shared search predicate: case-insensitive
// substring match on title or content. An empty query matches everything.
func searchScope(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		pattern := "%" + search + "%"
		return db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", pattern, pattern)
	}
}

// ListOwned returns one page of the owner's books, newest update first.
// visibility may be empty to include both public and private books.
func (r *Repository) ListOwned(ownerID uint, page, pageSize int, search string, visibility entities.Visibility) ([]entities.Book, int64, error) {
	page, pageSize = clampPage(page, pageSize)

	filter := func() *gorm.DB {
		q := r.db.Model(&entities.Book{}).
			Where("owner_id = ?", ownerID).
			Scopes(searchScope(search))
		if visibility.IsValid() {
			q = q.Where("visibility = ?", visibility)
		}
		return q
	}

	var total int64
	if err := filter().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entities.Book
	err := filter().Preload("Category").
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachLikeData(books, ownerID); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// ListPublic returns one page of the public catalog. viewerID may be 0 for
// anonymous viewers, in which case LikedByMe stays false.
//
// The popular sort materializes every matching row, ranks the full set by
// like count with a recency tiebreak and slices the requested page. That is
// O(matching books) per request and intentional: like counts are derived,
// never stored, so the store cannot sort by them.
func (r *Repository) ListPublic(page, pageSize int, search, sortBy string, viewerID uint) ([]entities.Book, int64, error) {
	page, pageSize = clampPage(page, pageSize)

	filter := func() *gorm.DB {
		return r.db.Model(&entities.Book{}).
			Where("visibility = ?", entities.VisibilityPublic).
			Scopes(searchScope(search))
	}

	var total int64
	if err := filter().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if sortBy == SortPopular {
		var books []entities.Book
		err := filter().Preload("Category").Preload("Owner").
			Order("created_at DESC").
			Find(&books).Error
		if err != nil {
			return nil, 0, err
		}
		if err := r.attachLikeData(books, viewerID); err != nil {
			return nil, 0, err
		}

		sort.SliceStable(books, func(i, j int) bool {
			if books[i].LikesCount != books[j].LikesCount {
				return books[i].LikesCount > books[j].LikesCount
			}
			return books[i].CreatedAt.After(books[j].CreatedAt)
		})

		start := (page - 1) * pageSize
		if start > len(books) {
			start = len(books)
		}
		end := start + pageSize
		if end > len(books) {
			end = len(books)
		}
		return books[start:end], total, nil
	}

	var books []entities.Book
	err := filter().Preload("Category").Preload("Owner").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachLikeData(books, viewerID); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// ListFavorites returns one page of the viewer's favorited books, newest
// update first.
func (r *Repository) ListFavorites(userID uint, page, pageSize int, search string) ([]entities.Book, int64, error) {
	page, pageSize = clampPage(page, pageSize)

	filter := func() *gorm.DB {
		return r.db.Model(&entities.Book{}).
			Joins("JOIN favorites ON favorites.book_id = books.id AND favorites.user_id = ?", userID).
			Scopes(searchScope(search))
	}

	var total int64
	if err := filter().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entities.Book
	err := filter().Preload("Category").Preload("Owner").
		Order("books.updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachLikeData(books, userID); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// GetByID returns a book with derived like fields attached. Private books
// are only visible to their owner; for anyone else the result is ErrRecordNotFound,
// indistinguishable from a missing book so private ids do not leak.
func (r *Repository) GetByID(bookID, viewerID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Category").Preload("Owner").Preload("Tags").First(&book, bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if !book.IsPublic() && book.OwnerID != viewerID {
		return nil, ErrRecordNotFound
	}

	books := []entities.Book{book}
	if err := r.attachLikeData(books, viewerID); err != nil {
		return nil, err
	}
	return &books[0], nil
}

// Create validates the required fields and the category reference, then
// inserts the book. Visibility defaults to PRIVATE.
func (r *Repository) Create(book *entities.Book) error {
	if book.Title == "" || book.Content == "" || book.CategoryID == 0 {
		return fmt.Errorf("%w: title, content and categoryId are required", ErrValidation)
	}
	if book.Visibility == "" {
		book.Visibility = entities.VisibilityPrivate
	}
	if !book.Visibility.IsValid() {
		return fmt.Errorf("%w: invalid visibility %q", ErrValidation, book.Visibility)
	}

	var category entities.Category
	if err := r.db.First(&category, book.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	if err := r.db.Create(book).Error; err != nil {
		return err
	}
	return r.db.Preload("Category").First(book, book.ID).Error
}

// Update applies changes to a book. Only the owner may update.
func (r *Repository) Update(bookID, ownerID uint, changes BookChanges) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if book.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	columns := map[string]any{}
	if changes.Title != nil {
		columns["title"] = *changes.Title
	}
	if changes.Content != nil {
		columns["content"] = *changes.Content
	}
	if changes.Description != nil {
		columns["description"] = *changes.Description
	}
	if changes.Visibility != nil {
		if !changes.Visibility.IsValid() {
			return nil, fmt.Errorf("%w: invalid visibility %q", ErrValidation, *changes.Visibility)
		}
		columns["visibility"] = *changes.Visibility
	}
	if changes.CategoryID != nil {
		var category entities.Category
		if err := r.db.First(&category, *changes.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		columns["category_id"] = *changes.CategoryID
	}

	if len(columns) > 0 {
		if err := r.db.Model(&book).Updates(columns).Error; err != nil {
			return nil, err
		}
	}

	if err := r.db.Preload("Category").First(&book, bookID).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Delete removes a book along with its likes, favorites and tag links.
// Only the owner may delete.
func (r *Repository) Delete(bookID, ownerID uint) error {
	var book entities.Book
	if err := r.db.First(&book, bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	if book.OwnerID != ownerID {
		return ErrForbidden
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", bookID).Delete(&entities.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", bookID).Delete(&entities.TagOnBook{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
}

// attachLikeData fills the derived LikesCount and LikedByMe fields for a
// slice of books using one grouped count query and, when a viewer is
// present, one membership query.
func (r *Repository) attachLikeData(books []entities.Book, viewerID uint) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(books))
	for i := range books {
		ids = append(ids, books[i].ID)
	}

	type likeCount struct {
		BookID uint
		Count  int64
	}
	var counts []likeCount
	err := r.db.Model(&entities.Like{}).
		Select("book_id, COUNT(*) as count").
		Where("book_id IN ?", ids).
		Group("book_id").
		Find(&counts).Error
	if err != nil {
		return err
	}
	countByBook := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countByBook[c.BookID] = c.Count
	}

	likedByViewer := make(map[uint]bool)
	if viewerID != 0 {
		var likedIDs []uint
		err := r.db.Model(&entities.Like{}).
			Where("user_id = ? AND book_id IN ?", viewerID, ids).
			Pluck("book_id", &likedIDs).Error
		if err != nil {
			return err
		}
		for _, id := range likedIDs {
			likedByViewer[id] = true
		}
	}

	for i := range books {
		books[i].LikesCount = countByBook[books[i].ID]
		books[i].LikedByMe = likedByViewer[books[i].ID]
	}
	return nil
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}

// Package favorites provides per-user favorite marking for books.
package favorites

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

var ErrBookNotFound = errors.New("book not found")

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Toggle flips the favorite state of (userID, bookID) and returns the new
// state. A book can be favorited only if the user can see it: public books,
// or private books the user owns. Invisible books report not-found.
func (r *Repository) Toggle(userID, bookID uint) (favorited bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if !book.IsPublic() && book.OwnerID != userID {
			return ErrBookNotFound
		}

		var existing entities.Favorite
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			favorited = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			favorite := entities.Favorite{UserID: userID, BookID: bookID}
			if err := tx.Create(&favorite).Error; err != nil {
				return err
			}
			favorited = true
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}

// IsFavorite reports whether the user has favorited the book.
func (r *Repository) IsFavorite(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

// Package likes implements the engagement service: toggling a like relation
// between a user and a public book and recomputing the derived count.
package likes

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrNotPublic    = errors.New("only public books can be liked")
)

// Repository handles all like database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Toggle flips the like state of (userID, bookID) and returns the new state
// plus a fresh count of the book's likes. The existence check, the
// delete-or-insert and the recount run in a single transaction so two
// concurrent toggles cannot both observe "no existing like". The count is
// recomputed rather than incremented, so it cannot drift.
func (r *Repository) Toggle(userID, bookID uint) (liked bool, likesCount int64, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if !book.IsPublic() {
			return ErrNotPublic
		}

		var existing entities.Like
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := entities.Like{UserID: userID, BookID: bookID}
			if err := tx.Create(&like).Error; err != nil {
				// A unique-index violation means another request won the
				// insert race; the desired state holds either way.
				if !isConstraintViolation(err) {
					return err
				}
			}
			liked = true
		default:
			return err
		}

		return tx.Model(&entities.Like{}).
			Where("book_id = ?", bookID).
			Count(&likesCount).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likesCount, nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// Count returns the number of likes for a book.
func (r *Repository) Count(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Like{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}

// LikedBy reports whether the user has a like row for the book.
func (r *Repository) LikedBy(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Like{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}

package entities

import (
	"time"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// IsValid reports whether v is one of the two known visibility values.
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	Name         string    `gorm:"size:255" json:"name,omitempty"`
	Image        string    `gorm:"size:2048" json:"image,omitempty"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"uniqueIndex;size:255" json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:512" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Visibility  Visibility `gorm:"size:10;default:'PRIVATE';index" json:"visibility"`
	OwnerID     uint       `gorm:"index" json:"owner_id"`
	CategoryID  uint       `gorm:"index" json:"category_id"`
	Owner       User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Category    Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags        []Tag      `gorm:"many2many:tag_on_book;" json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Derived aggregates, computed per request and never persisted.
	LikesCount int64 `gorm:"-" json:"likes_count"`
	LikedByMe  bool  `gorm:"-" json:"liked_by_me"`
}

// IsPublic is the boolean alias some surfaces use for Visibility.
func (b *Book) IsPublic() bool {
	return b.Visibility == VisibilityPublic
}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	Books     []Book    `gorm:"many2many:tag_on_book;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TagOnBook is the explicit join table between books and tags so that the
// table-admin surface can address it by a stable primary key.
type TagOnBook struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	BookID uint `gorm:"index" json:"book_id"`
	TagID  uint `gorm:"index" json:"tag_id"`
}

// Like marks that a user liked a public book. At most one row may exist per
// (user, book) pair; the like count for a book is always derived by counting
// these rows.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_like_user_book" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_like_user_book;index" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite marks a book as a favorite of a specific user, mirroring the
// Like relation.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorite_user_book" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_favorite_user_book;index" json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Category) TableName() string {
	return "categories"
}

func (Book) TableName() string {
	return "books"
}

func (Tag) TableName() string {
	return "tags"
}

func (TagOnBook) TableName() string {
	return "tag_on_book"
}

func (Like) TableName() string {
	return "likes"
}

func (Favorite) TableName() string {
	return "favorites"
}

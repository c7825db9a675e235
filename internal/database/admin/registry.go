// Package admin implements the generic table viewer: a registry mapping
// external table names to entity models, and a record service exposing
// uniform list/create/update/delete operations over every registered model.
package admin

import (
	"github.com/mrlokans/bookstore/internal/entities"
)

// Model describes one admin-addressable entity.
type Model struct {
	Table string // external table name, e.g. "tag_on_book"
	Name  string // internal model name, e.g. "tagOnBook"

	// New returns a pointer to a fresh entity struct; NewSlice returns a
	// pointer to an empty slice of that entity.
	New      func() any
	NewSlice func() any

	// Fields is the allow-list of mutable fields: JSON field name to
	// database column. Keys outside this map are rejected rather than
	// forwarded to the store.
	Fields map[string]string
}

var models = []*Model{
	{
		Table:    "users",
		Name:     "user",
		New:      func() any { return &entities.User{} },
		NewSlice: func() any { return &[]entities.User{} },
		Fields: map[string]string{
			"email": "email",
			"name":  "name",
			"image": "image",
		},
	},
	{
		Table:    "categories",
		Name:     "category",
		New:      func() any { return &entities.Category{} },
		NewSlice: func() any { return &[]entities.Category{} },
		Fields: map[string]string{
			"category": "category",
		},
	},
	{
		Table:    "books",
		Name:     "book",
		New:      func() any { return &entities.Book{} },
		NewSlice: func() any { return &[]entities.Book{} },
		Fields: map[string]string{
			"title":       "title",
			"content":     "content",
			"description": "description",
			"visibility":  "visibility",
			"owner_id":    "owner_id",
			"category_id": "category_id",
		},
	},
	{
		Table:    "likes",
		Name:     "like",
		New:      func() any { return &entities.Like{} },
		NewSlice: func() any { return &[]entities.Like{} },
		Fields: map[string]string{
			"user_id": "user_id",
			"book_id": "book_id",
		},
	},
	{
		Table:    "favorites",
		Name:     "favorite",
		New:      func() any { return &entities.Favorite{} },
		NewSlice: func() any { return &[]entities.Favorite{} },
		Fields: map[string]string{
			"user_id": "user_id",
			"book_id": "book_id",
		},
	},
	{
		Table:    "tags",
		Name:     "tag",
		New:      func() any { return &entities.Tag{} },
		NewSlice: func() any { return &[]entities.Tag{} },
		Fields: map[string]string{
			"name": "name",
		},
	},
	{
		Table:    "tag_on_book",
		Name:     "tagOnBook",
		New:      func() any { return &entities.TagOnBook{} },
		NewSlice: func() any { return &[]entities.TagOnBook{} },
		Fields: map[string]string{
			"book_id": "book_id",
			"tag_id":  "tag_id",
		},
	},
}

var modelsByName = func() map[string]*Model {
	byName := make(map[string]*Model, len(models))
	for _, m := range models {
		byName[m.Name] = m
	}
	return byName
}()

// TableNames returns the external table names in registration order.
func TableNames() []string {
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Table)
	}
	return names
}

// ResolveModel maps an external table name to its internal model name.
// Unknown identifiers pass through unchanged; callers must treat an
// unresolved name as potentially addressing no entity at all.
func ResolveModel(tableName string) string {
	for _, m := range models {
		if m.Table == tableName {
			return m.Name
		}
	}
	return tableName
}

// Lookup returns the model descriptor for an internal model name.
func Lookup(modelName string) (*Model, bool) {
	m, ok := modelsByName[modelName]
	return m, ok
}

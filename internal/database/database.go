package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookstore/internal/entities"
)

var defaultCategories = []entities.Category{
	{Category: "Fiction"},
	{Category: "Non-fiction"},
	{Category: "Science"},
	{Category: "Technology"},
	{Category: "History"},
	{Category: "Poetry"},
	{Category: "Other"},
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the application database at dbPath, runs
// migrations and seeds the default categories.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Book{},
		&entities.Tag{},
		&entities.Like{},
		&entities.Favorite{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedCategories(); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

// Open opens a GORM handle without migrating or seeding. The table-admin
// surface uses it to attach to the non-default target as-is: a viewer must
// never alter the schema of the database it inspects.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// The join table carries its own primary key so the admin surface can
	// address its rows by id.
	if err := db.SetupJoinTable(&entities.Book{}, "Tags", &entities.TagOnBook{}); err != nil {
		return nil, fmt.Errorf("failed to set up tag join table: %w", err)
	}

	return db, nil
}

// Release closes the underlying connection of a handle opened with Open.
func Release(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) Close() error {
	return Release(d.DB)
}

func (d *Database) seedCategories() error {
	for _, category := range defaultCategories {
		var existing entities.Category
		result := d.DB.Where("category = ?", category.Category).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", category.Category, err)
			}
			log.Printf("Created category: %s", category.Category)
		}
	}
	return nil
}

func (d *Database) GetAllCategories() ([]entities.Category, error) {
	var categories []entities.Category
	err := d.DB.Order("category ASC").Find(&categories).Error
	return categories, err
}

func (d *Database) GetAllTags() ([]entities.Tag, error) {
	var tags []entities.Tag
	err := d.DB.Order("name ASC").Find(&tags).Error
	return tags, err
}

package admin

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrModelNotFound means the requested model name corresponds to no
	// registered entity. The store is never touched in that case.
	ErrModelNotFound = errors.New("model not found")

	// ErrRecordNotFound means no row exists for the requested id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrValidation covers rejected field maps and store-level constraint
	// violations.
	ErrValidation = errors.New("validation failed")
)

// TableInfo is one entry of the tables index.
type TableInfo struct {
	Name      string `json:"name"`
	ModelName string `json:"modelName"`
	Count     int64  `json:"count"`
}

// Repository provides uniform record operations over every registered model.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Tables returns every registered table with its record count.
func (r *Repository) Tables() ([]TableInfo, error) {
	infos := make([]TableInfo, 0, len(models))
	for _, m := range models {
		count, err := r.Count(m.Name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, TableInfo{Name: m.Table, ModelName: m.Name, Count: count})
	}
	return infos, nil
}

// Count returns the unfiltered row count for a model.
func (r *Repository) Count(modelName string) (int64, error) {
	m, ok := Lookup(modelName)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrModelNotFound, modelName)
	}

	var count int64
	err := r.db.Model(m.New()).Count(&count).Error
	return count, err
}

// List returns one page of rows ordered by primary key ascending, plus the
// unfiltered total count. page and pageSize are 1-based and clamped to 1.
func (r *Repository) List(modelName string, page, pageSize int) (any, int64, error) {
	m, ok := Lookup(modelName)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrModelNotFound, modelName)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	var total int64
	if err := r.db.Model(m.New()).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := m.NewSlice()
	err := r.db.Model(m.New()).
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// Create inserts a new row from a JSON field map. Unknown keys are rejected;
// required-field and foreign-key enforcement is left to the store and
// surfaced as a validation error.
func (r *Repository) Create(modelName string, fields map[string]any) (any, error) {
	m, ok := Lookup(modelName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelName)
	}

	if err := checkFields(m, fields); err != nil {
		return nil, err
	}

	record := m.New()
	if err := decodeFields(fields, record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := r.db.Create(record).Error; err != nil {
		return nil, translateStoreError(err)
	}

	return record, nil
}

// Update merges allow-listed fields onto the row identified by id and
// returns the reloaded row.
func (r *Repository) Update(modelName string, id uint, fields map[string]any) (any, error) {
	m, ok := Lookup(modelName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelName)
	}

	if err := checkFields(m, fields); err != nil {
		return nil, err
	}

	record := m.New()
	if err := r.db.First(record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s id=%d", ErrRecordNotFound, modelName, id)
		}
		return nil, err
	}

	columns := make(map[string]any, len(fields))
	for key, value := range fields {
		columns[m.Fields[key]] = value
	}
	if len(columns) > 0 {
		if err := r.db.Model(record).Updates(columns).Error; err != nil {
			return nil, translateStoreError(err)
		}
	}

	if err := r.db.First(record, id).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the row identified by id and returns it.
func (r *Repository) Delete(modelName string, id uint) (any, error) {
	m, ok := Lookup(modelName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelName)
	}

	record := m.New()
	if err := r.db.First(record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s id=%d", ErrRecordNotFound, modelName, id)
		}
		return nil, err
	}

	if err := r.db.Delete(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// checkFields rejects any key outside the model's mutable allow-list.
func checkFields(m *Model, fields map[string]any) error {
	for key := range fields {
		if _, ok := m.Fields[key]; !ok {
			return fmt.Errorf("%w: unknown field %q for model %s", ErrValidation, key, m.Name)
		}
	}
	return nil
}

// decodeFields populates the typed entity from a JSON field map, so values
// get the same type checking a real API payload would.
func decodeFields(fields map[string]any, record any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, record)
}

// translateStoreError maps sqlite constraint violations onto the validation
// error; anything else is a store failure and passes through.
func translateStoreError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return err
}

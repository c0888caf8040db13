package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stateKey identifies the single ledger-state row. The engine is
// single-tenant, so there is exactly one blob.
const stateKey = "default"

// StateRecord is the database row holding the serialized engine state.
type StateRecord struct {
	Name      string    `gorm:"primaryKey"`
	Data      []byte    `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName overrides the GORM table name.
func (StateRecord) TableName() string { return "ledger_states" }

// GormStore implements Store on top of a GORM-managed database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load returns the saved state blob, or (nil, nil) if none exists.
func (s *GormStore) Load() ([]byte, error) {
	var rec StateRecord
	if err := s.db.First(&rec, "name = ?", stateKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec.Data, nil
}

// Save upserts the state row, replacing the whole blob in one statement.
func (s *GormStore) Save(blob []byte) error {
	rec := StateRecord{Name: stateKey, Data: blob, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
}

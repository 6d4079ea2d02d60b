package preference

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is a PostgreSQL-backed implementation of the Store interface.
// The primary key on user_id plus an ON CONFLICT DO NOTHING insert gives
// GetOrCreate its no-duplicate guarantee under concurrent first access.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GORM-backed preference store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the preferences table.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Preferences{})
}

func (s *GormStore) GetOrCreate(ctx context.Context, userID string) (*Preferences, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	var p Preferences
	err := s.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	def := Default(userID)
	// A concurrent creator may win the race; DoNothing keeps the insert
	// idempotent and the re-read below returns whichever row landed first.
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&def).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) Save(ctx context.Context, p Preferences) error {
	if p.UserID == "" {
		return ErrMissingUserID
	}
	return s.db.WithContext(ctx).Save(&p).Error
}

func (s *GormStore) ListByEmailFrequency(ctx context.Context, f Frequency) ([]Preferences, error) {
	var out []Preferences
	err := s.db.WithContext(ctx).
		Where("email ->> 'enabled' = 'true'").
		Where("email ->> 'frequency' = ?", string(f)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

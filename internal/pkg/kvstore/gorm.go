package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kvRecord is the gorm mapping of the kv_store table
type kvRecord struct {
	Key       string         `gorm:"primaryKey;column:key;size:512"`
	Value     datatypes.JSON `gorm:"column:value;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (kvRecord) TableName() string { return "kv_store" }

// GormStore keeps the namespace in kv_store through gorm. It runs on the
// postgres dialector and on sqlite.
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

// NewGormStore migrates kv_store and returns the store
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, fmt.Errorf("kvstore: migrate kv_store: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Get implements Store
func (s *GormStore) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	q := s.db.WithContext(ctx)
	// sqlite has no row locks; its transactions already hold the database lock
	if s.inTx && s.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rec kvRecord
	if err := q.Where("key = ?", key).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("kvstore: get %q: %w", key, err)
	}
	return true, decode(key, rec.Value, dst)
}

// Set implements Store
func (s *GormStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := encode(key, value)
	if err != nil {
		return err
	}

	rec := kvRecord{Key: key, Value: datatypes.JSON(data)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("kvstore: set %q: %w", key, err)
	}
	return nil
}

// Delete implements Store
func (s *GormStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("key IN ?", keys).Delete(&kvRecord{}).Error; err != nil {
		return fmt.Errorf("kvstore: delete %d keys: %w", len(keys), err)
	}
	return nil
}

// Scan implements Store. The prefix is compared with substr so that the
// match stays case sensitive on sqlite, where LIKE is not. substr counts
// characters on both dialects.
func (s *GormStore) Scan(ctx context.Context, prefix string) ([]Entry, error) {
	var recs []kvRecord
	err := s.db.WithContext(ctx).
		Where("substr(key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix).
		Order("key").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("kvstore: scan %q: %w", prefix, err)
	}

	out := make([]Entry, len(recs))
	for i, r := range recs {
		out[i] = Entry{Key: r.Key, Value: r.Value}
	}
	return out, nil
}

// Tx implements Store
func (s *GormStore) Tx(ctx context.Context, fn TxFunc) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return retryTx(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, &GormStore{db: tx, inTx: true})
		})
	})
}

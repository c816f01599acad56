package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cargo-broker/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRepository is a store backend over a single postgres table.
type KVRepository struct {
	db *DB
}

func NewKVRepository(db *DB) *KVRepository {
	return &KVRepository{db: db}
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntryModel
	err := r.db.DB.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return entry.Value, true, nil
}

func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	entry := models.KVEntryModel{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to put key %s: %w", key, err)
	}

	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.DB.WithContext(ctx).Where("key = ?", key).Delete(&models.KVEntryModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (r *KVRepository) Close() error {
	return r.db.Close()
}

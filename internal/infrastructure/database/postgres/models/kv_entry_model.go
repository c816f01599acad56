package models

import "time"

// KVEntryModel stores one serialized collection per key
type KVEntryModel struct {
	Key       string    `gorm:"type:varchar(128);primaryKey"`
	Value     []byte    `gorm:"type:bytea;not null"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (KVEntryModel) TableName() string {
	return "kv_entries"
}

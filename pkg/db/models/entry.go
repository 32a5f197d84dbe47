package models

import "time"

// Entry is a row of a related catalog collection (product types, vendors,
// collections). Cart enrichment resolves relation ids against these rows.
type Entry struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Collection string    `gorm:"column:collection;index;not null"`
	Slug       string    `gorm:"column:slug;index;not null"`
	Title      string    `gorm:"column:title;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name.
func (Entry) TableName() string { return "entries" }

package models

import (
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/types"
)

// Customer is the directory record for a registered shopper. The slug is the
// customer's email and is the lookup key used by the cart engine.
type Customer struct {
	ID        string          `gorm:"column:id;primaryKey"`
	Slug      string          `gorm:"column:slug;uniqueIndex;not null"`
	Email     string          `gorm:"column:email;not null"`
	Addresses types.Addresses `gorm:"column:addresses;type:json"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name.
func (Customer) TableName() string { return "customers" }

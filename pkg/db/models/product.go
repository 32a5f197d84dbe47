package models

import (
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is the catalog listing row. The cart engine reads it through the
// catalog adapter and never writes it.
type Product struct {
	ID             string             `gorm:"column:id;primaryKey"`
	Slug           string             `gorm:"column:slug;uniqueIndex;not null"`
	Title          string             `gorm:"column:title;not null"`
	Class          enums.ProductClass `gorm:"column:class;not null"`
	Price          *decimal.Decimal   `gorm:"column:price;type:numeric(12,2)"`
	Weight         *float64           `gorm:"column:weight"`
	TrackInventory bool               `gorm:"column:track_inventory;not null;default:false"`
	Inventory      int                `gorm:"column:inventory;not null;default:0"`
	Variants       types.Variants     `gorm:"column:variants;type:json"`

	// Relation columns hold ids of entries in related collections.
	TypeRef        string           `gorm:"column:type_ref"`
	VendorRef      string           `gorm:"column:vendor_ref"`
	CollectionRefs types.StringList `gorm:"column:collection_refs;type:json"`

	// Listing fields used by the storefront admin, stripped before any
	// cart view leaves the engine.
	ListingImage     *string `gorm:"column:listing_image"`
	ListingType      *string `gorm:"column:listing_type"`
	ListingVendor    *string `gorm:"column:listing_vendor"`
	ListingInventory *string `gorm:"column:listing_inventory"`
	EditURL          *string `gorm:"column:edit_url"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name.
func (Product) TableName() string { return "products" }

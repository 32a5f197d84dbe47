package catalog

import (
	"context"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	"gorm.io/gorm"
)

// Repository is the GORM-backed implementation of ProductCatalog and
// CustomerDirectory.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires the repository to the shared connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindProduct loads a product row by id.
func (r *Repository) FindProduct(ctx context.Context, id string) (*types.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return toProduct(&row), nil
}

// FindEntry loads a related catalog entry by id.
func (r *Repository) FindEntry(ctx context.Context, id string) (*types.Entry, error) {
	var row models.Entry
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &types.Entry{ID: row.ID, Slug: row.Slug, Title: row.Title}, nil
}

// FindCustomer loads a customer by slug or id. The slug is the customer's
// email address.
func (r *Repository) FindCustomer(ctx context.Context, key string) (*types.Customer, error) {
	var row models.Customer
	if err := r.db.WithContext(ctx).First(&row, "slug = ? OR id = ?", key, key).Error; err != nil {
		return nil, err
	}
	return &types.Customer{
		Key:       row.Slug,
		Email:     row.Email,
		Addresses: row.Addresses,
	}, nil
}

func toProduct(row *models.Product) *types.Product {
	product := &types.Product{
		ID:             row.ID,
		Slug:           row.Slug,
		Title:          row.Title,
		Class:          row.Class,
		Price:          row.Price,
		Weight:         row.Weight,
		TrackInventory: row.TrackInventory,
		Inventory:      row.Inventory,
		Variants:       row.Variants,
		TypeRef:        row.TypeRef,
		VendorRef:      row.VendorRef,
		CollectionRefs: row.CollectionRefs,
	}
	if row.ListingImage != nil {
		product.ListingImage = *row.ListingImage
	}
	if row.ListingType != nil {
		product.ListingType = *row.ListingType
	}
	if row.ListingVendor != nil {
		product.ListingVendor = *row.ListingVendor
	}
	if row.ListingInventory != nil {
		product.ListingInventory = *row.ListingInventory
	}
	if row.EditURL != nil {
		product.EditURL = *row.EditURL
	}
	return product
}

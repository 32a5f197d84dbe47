package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Entry{}, &models.Customer{}))
	return db
}

func strPtr(s string) *string { return &s }

func TestRepositoryFindProduct(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	price := decimal.NewFromFloat(19.99)
	inv := 3
	require.NoError(t, db.Create(&models.Product{
		ID:             "p1",
		Slug:           "blue-shirt",
		Title:          "Blue Shirt",
		Class:          enums.ProductClassComplex,
		TrackInventory: true,
		Variants: types.Variants{
			{ID: "v1", Name: "Small", Price: price, Inventory: &inv},
		},
		TypeRef:        "t1",
		VendorRef:      "vnd1",
		CollectionRefs: types.StringList{"col1"},
		ListingImage:   strPtr("/img/blue.jpg"),
		EditURL:        strPtr("/cp/products/p1"),
	}).Error)

	product, err := repo.FindProduct(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "blue-shirt", product.Slug)
	assert.Equal(t, enums.ProductClassComplex, product.Class)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "v1", product.Variants[0].ID)
	require.NotNil(t, product.Variants[0].Inventory)
	assert.Equal(t, 3, *product.Variants[0].Inventory)
	assert.Equal(t, "t1", product.TypeRef)
	assert.Equal(t, []string{"col1"}, product.CollectionRefs)
	assert.Equal(t, "/img/blue.jpg", product.ListingImage)

	_, err = repo.FindProduct(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindEntry(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Entry{
		ID:         "t1",
		Collection: "product_types",
		Slug:       "shirts",
		Title:      "Shirts",
	}).Error)

	entry, err := repo.FindEntry(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "shirts", entry.Slug)
	assert.Equal(t, "Shirts", entry.Title)

	_, err = repo.FindEntry(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindCustomerBySlugOrID(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Customer{
		ID:    "cust-1",
		Slug:  "jane@example.com",
		Email: "jane@example.com",
		Addresses: types.Addresses{
			{Label: "default", Country: "US|CA", Default: true},
		},
	}).Error)

	bySlug, err := repo.FindCustomer(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", bySlug.Key)
	require.Len(t, bySlug.Addresses, 1)
	assert.Equal(t, "US|CA", bySlug.Addresses[0].Country)

	byID, err := repo.FindCustomer(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, bySlug.Email, byID.Email)

	_, err = repo.FindCustomer(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

type failingCatalog struct{}

func (failingCatalog) FindProduct(context.Context, string) (*types.Product, error) {
	return nil, assert.AnError
}

func (failingCatalog) FindEntry(context.Context, string) (*types.Entry, error) {
	return nil, assert.AnError
}

type failingCustomers struct{}

func (failingCustomers) FindCustomer(context.Context, string) (*types.Customer, error) {
	return nil, assert.AnError
}

func TestServiceTreatsMissAsNil(t *testing.T) {
	t.Parallel()

	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo, repo)
	require.NoError(t, err)

	product, err := svc.FindProduct(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, product)

	entry, err := svc.FindEntry(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)

	addresses, err := svc.FindCustomerAddresses(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, addresses)
}

func TestServiceWrapsBackendFailures(t *testing.T) {
	t.Parallel()

	svc, err := NewService(failingCatalog{}, failingCustomers{})
	require.NoError(t, err)

	_, err = svc.FindProduct(context.Background(), "p1")
	require.Error(t, err)

	_, err = svc.FindCustomerAddresses(context.Background(), "jane@example.com")
	require.Error(t, err)
}

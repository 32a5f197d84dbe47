package catalog

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	"gorm.io/gorm"
)

// ProductCatalog is the consumed lookup surface for products and related
// catalog entries. Implementations signal a miss with gorm.ErrRecordNotFound.
type ProductCatalog interface {
	FindProduct(ctx context.Context, id string) (*types.Product, error)
	FindEntry(ctx context.Context, id string) (*types.Entry, error)
}

// CustomerDirectory is the consumed lookup surface for customers.
type CustomerDirectory interface {
	FindCustomer(ctx context.Context, key string) (*types.Customer, error)
}

// Service wraps the external catalog lookups with miss-tolerant semantics:
// a vanished record is (nil, nil), not an error. No caching happens here;
// repeated lookups within one recompute hit the backing store again.
type Service struct {
	products  ProductCatalog
	customers CustomerDirectory
}

// NewService builds the catalog adapter.
func NewService(products ProductCatalog, customers CustomerDirectory) (*Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product catalog is required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer directory is required")
	}
	return &Service{products: products, customers: customers}, nil
}

// FindProduct resolves a product by id. Returns (nil, nil) when the product
// no longer exists.
func (s *Service) FindProduct(ctx context.Context, id string) (*types.Product, error) {
	product, err := s.products.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// FindEntry resolves a related catalog entry by id. Returns (nil, nil) when
// the entry no longer exists.
func (s *Service) FindEntry(ctx context.Context, id string) (*types.Entry, error) {
	entry, err := s.products.FindEntry(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load entry")
	}
	return entry, nil
}

// FindCustomerAddresses returns the saved addresses for the customer key, or
// nil when the customer is unknown.
func (s *Service) FindCustomerAddresses(ctx context.Context, key string) ([]types.Address, error) {
	customer, err := s.customers.FindCustomer(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if customer == nil {
		return nil, nil
	}
	return customer.Addresses, nil
}

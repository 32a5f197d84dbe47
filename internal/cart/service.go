package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront-cart/internal/catalog"
	"github.com/angelmondragon/storefront-cart/internal/inventory"
	"github.com/angelmondragon/storefront-cart/internal/pricing"
	"github.com/angelmondragon/storefront-cart/internal/session"
	"github.com/angelmondragon/storefront-cart/internal/shipping"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	"github.com/google/uuid"
)

// PrimaryInstance is the instance name of the checkout cart. Alternate
// instances (a wishlist, a saved-for-later list) share the same document
// shape but never carry a shipping method.
const PrimaryInstance = "cart"

type productResolver interface {
	FindProduct(ctx context.Context, id string) (*types.Product, error)
}

// Service exposes the cart operations presented to callers.
type Service interface {
	Get(ctx context.Context, scope session.Scope, instance string) (*types.CartView, error)
	Raw(ctx context.Context, scope session.Scope, instance string) (*types.CartDocument, error)
	Add(ctx context.Context, scope session.Scope, instance string, input AddItemInput) (*types.CartView, error)
	Update(ctx context.Context, scope session.Scope, instance string, input UpdateItemInput) (*types.CartView, error)
	Clear(ctx context.Context, scope session.Scope, instance string) error
	SetShippingCountry(ctx context.Context, scope session.Scope, country string) (*types.ShippingSelection, error)
}

// AddItemInput is the payload for adding a line item.
type AddItemInput struct {
	Product  string
	Variant  string
	Quantity int
	Custom   json.RawMessage
}

// UpdateItemInput patches an existing line item's quantity. Quantity 0
// removes the item.
type UpdateItemInput struct {
	ItemID   string
	Quantity int
}

type service struct {
	sessions *session.Store
	catalog  productResolver
	engine   *pricing.Engine
	shipping *shipping.Resolver
	metrics  *metrics.CartMetrics
	logg     *logger.Logger
	locks    sessionLocks
}

// NewService builds the cart service backed by the provided stack.
func NewService(sessions *session.Store, catalogSvc *catalog.Service, engine *pricing.Engine, resolver *shipping.Resolver, cartMetrics *metrics.CartMetrics, logg *logger.Logger) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("shipping resolver required")
	}
	return &service{
		sessions: sessions,
		catalog:  catalogSvc,
		engine:   engine,
		shipping: resolver,
		metrics:  cartMetrics,
		logg:     logg,
	}, nil
}

// Get returns the fully recomputed cart for the instance, creating an empty
// cart lazily on first access.
func (s *service) Get(ctx context.Context, scope session.Scope, instance string) (view *types.CartView, err error) {
	defer func() { s.metrics.IncOperation("get", err) }()
	if err = validateScope(scope, instance); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(scope.SessionID)
	defer unlock()

	doc, err := s.loadOrInit(ctx, scope, instance)
	if err != nil {
		return nil, err
	}
	return s.engine.Recalculate(ctx, scope, instance, doc)
}

// Raw returns the stored document without recomputation or enrichment.
func (s *service) Raw(ctx context.Context, scope session.Scope, instance string) (doc *types.CartDocument, err error) {
	defer func() { s.metrics.IncOperation("raw", err) }()
	if err = validateScope(scope, instance); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(scope.SessionID)
	defer unlock()

	return s.loadOrInit(ctx, scope, instance)
}

// Add puts a line item in the cart, merging quantities when the same
// (product, variant) pair is already present.
func (s *service) Add(ctx context.Context, scope session.Scope, instance string, input AddItemInput) (view *types.CartView, err error) {
	defer func() { s.metrics.IncOperation("add", err) }()
	if err = validateScope(scope, instance); err != nil {
		return nil, err
	}
	if input.Product == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	unlock := s.locks.lock(scope.SessionID)
	defer unlock()

	doc, err := s.loadOrInit(ctx, scope, instance)
	if err != nil {
		return nil, err
	}

	if idx := doc.IndexOfRef(input.Product, input.Variant); idx >= 0 {
		// Same (product, variant) identity: fold the quantity into the
		// existing item instead of creating a second line.
		existing := doc.Items[idx]
		return s.update(ctx, scope, instance, doc, UpdateItemInput{
			ItemID:   existing.ItemID,
			Quantity: existing.Quantity + input.Quantity,
		})
	}

	product, err := s.catalog.FindProduct(ctx, input.Product)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
			WithDetails(map[string]string{"product_id": input.Product})
	}

	if product.Class == enums.ProductClassComplex {
		if input.Variant == "" {
			return nil, pkgerrors.New(pkgerrors.CodeVariantRequired, "product requires a variant selection").
				WithDetails(map[string]string{"product_id": product.ID})
		}
		if product.FindVariant(input.Variant) == nil {
			return nil, pkgerrors.New(pkgerrors.CodeVariantNotFound, "variant not found").
				WithDetails(map[string]string{"product_id": product.ID, "variant_id": input.Variant})
		}
	}

	if err = inventory.Validate(product, input.Variant, input.Quantity, 0); err != nil {
		return nil, err
	}

	doc.Items = append(doc.Items, types.LineItem{
		ItemID:   uuid.NewString(),
		Product:  input.Product,
		Variant:  input.Variant,
		Quantity: input.Quantity,
		Custom:   input.Custom,
	})

	if err = s.sessions.SaveCart(ctx, scope.SessionID, instance, doc); err != nil {
		return nil, err
	}
	return s.engine.Recalculate(ctx, scope, instance, doc)
}

// Update patches a line item's quantity. Updating a vanished item is a no-op
// returning the current recomputed cart.
func (s *service) Update(ctx context.Context, scope session.Scope, instance string, input UpdateItemInput) (view *types.CartView, err error) {
	defer func() { s.metrics.IncOperation("update", err) }()
	if err = validateScope(scope, instance); err != nil {
		return nil, err
	}
	if input.ItemID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	unlock := s.locks.lock(scope.SessionID)
	defer unlock()

	doc, err := s.loadOrInit(ctx, scope, instance)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, scope, instance, doc, input)
}

func (s *service) update(ctx context.Context, scope session.Scope, instance string, doc *types.CartDocument, input UpdateItemInput) (*types.CartView, error) {
	idx := doc.IndexOfItem(input.ItemID)
	if idx < 0 {
		return s.engine.Recalculate(ctx, scope, instance, doc)
	}

	if input.Quantity == 0 {
		doc.RemoveItemAt(idx)
		if len(doc.Items) == 0 {
			// An emptied cart has nothing to ship.
			doc.Shipping = nil
			if err := s.sessions.ClearShippingMethod(ctx, scope.SessionID); err != nil {
				return nil, err
			}
		}
		if err := s.sessions.SaveCart(ctx, scope.SessionID, instance, doc); err != nil {
			return nil, err
		}
		return s.engine.Recalculate(ctx, scope, instance, doc)
	}

	item := doc.Items[idx]
	product, err := s.catalog.FindProduct(ctx, item.Product)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
			WithDetails(map[string]string{"product_id": item.Product})
	}

	// Validate the new absolute quantity: the delta on top of what this
	// item already holds.
	if err := inventory.Validate(product, item.Variant, input.Quantity-item.Quantity, item.Quantity); err != nil {
		return nil, err
	}

	doc.Items[idx].Quantity = input.Quantity
	if err := s.sessions.SaveCart(ctx, scope.SessionID, instance, doc); err != nil {
		return nil, err
	}
	return s.engine.Recalculate(ctx, scope, instance, doc)
}

// Clear deletes the cart document entirely. Clearing the primary cart also
// forgets the selected shipping method; alternate instances never carry one.
func (s *service) Clear(ctx context.Context, scope session.Scope, instance string) (err error) {
	defer func() { s.metrics.IncOperation("clear", err) }()
	if err = validateScope(scope, instance); err != nil {
		return err
	}

	unlock := s.locks.lock(scope.SessionID)
	defer unlock()

	if err = s.sessions.DeleteCart(ctx, scope.SessionID, instance); err != nil {
		return err
	}
	if instance == PrimaryInstance {
		return s.sessions.ClearShippingMethod(ctx, scope.SessionID)
	}
	return nil
}

// SetShippingCountry persists the shipping-country fact and re-derives the
// zone for the primary cart. Any previously selected method is forgotten
// since eligibility is zone-dependent.
func (s *service) SetShippingCountry(ctx context.Context, scope session.Scope, country string) (selection *types.ShippingSelection, err error) {
	defer func() { s.metrics.IncOperation("set_shipping_country", err) }()
	if err = validateScope(scope, PrimaryInstance); err != nil {
		return nil, err
	}
	country, _ = types.SplitCountry(strings.TrimSpace(country))
	if country == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "country is required")
	}

	unlock := s.locks.lock(scope.SessionID)
	defer unlock()

	doc, err := s.loadOrInit(ctx, scope, PrimaryInstance)
	if err != nil {
		return nil, err
	}
	if err = s.sessions.SetShippingCountry(ctx, scope.SessionID, country); err != nil {
		return nil, err
	}
	return s.shipping.SetShipping(ctx, scope, PrimaryInstance, doc)
}

// loadOrInit returns the stored document or a fresh empty cart. The fresh
// cart is not persisted until a mutation lands.
func (s *service) loadOrInit(ctx context.Context, scope session.Scope, instance string) (*types.CartDocument, error) {
	doc, err := s.sessions.Cart(ctx, scope.SessionID, instance)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = types.NewCartDocument(uuid.NewString())
	}
	return doc, nil
}

func validateScope(scope session.Scope, instance string) error {
	if !scope.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if strings.TrimSpace(instance) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart instance is required")
	}
	return nil
}

// sessionLocks serializes read-modify-write access per session key so
// concurrent requests for the same session cannot lose updates.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *sessionLocks) lock(sessionID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[string]*sync.Mutex{}
	}
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sync.Mutex{}
		l.locks[sessionID] = entry
	}
	l.mu.Unlock()

	entry.Lock()
	return entry.Unlock
}

package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/session"
	"github.com/angelmondragon/storefront-cart/internal/shipping"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	"github.com/shopspring/decimal"
)

type catalogAdapter interface {
	FindProduct(ctx context.Context, id string) (*types.Product, error)
	FindEntry(ctx context.Context, id string) (*types.Entry, error)
	FindCustomerAddresses(ctx context.Context, key string) ([]types.Address, error)
}

// Engine rebuilds the enriched cart view and its totals on every read. It is
// a pure function of the stored document, live catalog state, and the session
// facts; the only writes are the ones delegated to the shipping resolver.
type Engine struct {
	catalog  catalogAdapter
	sessions *session.Store
	shipping *shipping.Resolver
	metrics  *metrics.CartMetrics
	logg     *logger.Logger
}

// NewEngine wires the recalculation engine.
func NewEngine(catalog catalogAdapter, sessions *session.Store, resolver *shipping.Resolver, cartMetrics *metrics.CartMetrics, logg *logger.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog adapter is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("shipping resolver is required")
	}
	return &Engine{
		catalog:  catalog,
		sessions: sessions,
		shipping: resolver,
		metrics:  cartMetrics,
		logg:     logg,
	}, nil
}

// Recalculate derives the externally visible cart. Totals are rebuilt from
// scratch; discount and tax are carried through from the stored document.
func (e *Engine) Recalculate(ctx context.Context, scope session.Scope, instance string, doc *types.CartDocument) (*types.CartView, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveRecompute(time.Since(start))
	}()

	view := &types.CartView{
		ID:      doc.ID,
		Items:   make([]types.CartItemView, 0, len(doc.Items)),
		Coupons: doc.Coupons,
	}
	totals := types.Totals{
		Discount: doc.Totals.Discount,
		Tax:      doc.Totals.Tax,
	}

	for _, item := range doc.Items {
		itemView := types.CartItemView{
			ItemID:    item.ItemID,
			ProductID: item.Product,
			VariantID: item.Variant,
			Quantity:  item.Quantity,
			Custom:    item.Custom,
		}

		product, err := e.catalog.FindProduct(ctx, item.Product)
		if err != nil {
			return nil, err
		}
		if product == nil {
			// Vanished product: the item stays listed raw and contributes
			// nothing to totals. Its stored record is untouched.
			view.Items = append(view.Items, itemView)
			continue
		}

		productView, err := buildProductView(ctx, e.catalog, product)
		if err != nil {
			return nil, err
		}
		itemView.Product = productView

		unitPrice := decimal.Zero
		if item.Variant != "" {
			if variant := product.FindVariant(item.Variant); variant != nil {
				itemView.Variant = variant
				unitPrice = variant.Price
			}
		} else if product.Price != nil {
			unitPrice = *product.Price
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		totals.Sub = totals.Sub.Add(unitPrice.Mul(qty))
		if product.Weight != nil {
			totals.Weight += *product.Weight * float64(item.Quantity)
		}

		view.Items = append(view.Items, itemView)
	}

	// Default-address resolution runs once per session: only when the fact
	// has not been established yet.
	cached, err := e.sessions.DefaultAddress(ctx, scope.SessionID)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		if err := e.resolveDefaultAddress(ctx, scope, instance, doc); err != nil {
			return nil, err
		}
	}

	// A previously set country with an empty selection means something
	// cleared shipping as a side effect; re-derive it from the fact.
	if doc.Shipping == nil {
		country, err := e.sessions.ShippingCountry(ctx, scope.SessionID)
		if err != nil {
			return nil, err
		}
		if country != "" {
			if _, err := e.shipping.SetShipping(ctx, scope, instance, doc); err != nil {
				return nil, err
			}
		}
	}

	if doc.Shipping != nil {
		selection := &types.ShippingSelection{Zone: doc.Shipping.Zone}
		zone := e.shipping.Zone(doc.Shipping.Zone)
		if zone == nil {
			if e.logg != nil {
				e.logg.Warn(e.logg.WithField(ctx, "zone", doc.Shipping.Zone), "cart references unknown shipping zone")
			}
		} else {
			methods := e.shipping.EligibleMethods(zone, totals)
			if methods.Len() > 0 {
				selected, err := e.shipping.SelectMethod(ctx, scope, methods)
				if err != nil {
					return nil, err
				}
				methods.SetActive(selected)
				selection.Methods = methods
				if method, ok := methods.Get(selected); ok {
					totals.Shipping = method.Rate
				}
			}
		}
		view.Shipping = selection
	}

	totals.Grand = totals.GrandFromParts()
	view.Totals = totals
	return view, nil
}

// resolveDefaultAddress looks up the customer's saved addresses, caches the
// default one, seeds the shipping-country fact, and derives the shipping
// selection from it. Anonymous sessions and unknown customers resolve to
// nothing and are retried on the next read.
func (e *Engine) resolveDefaultAddress(ctx context.Context, scope session.Scope, instance string, doc *types.CartDocument) error {
	if scope.CustomerKey == "" {
		return nil
	}

	addresses, err := e.catalog.FindCustomerAddresses(ctx, scope.CustomerKey)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return nil
	}

	key, address := pickAddress(addresses, "default")
	if address == nil {
		return nil
	}

	resolved := *address
	resolved.Country, resolved.Region = types.SplitCountry(resolved.Country)

	if err := e.sessions.SetDefaultAddress(ctx, scope.SessionID, types.DefaultAddress{
		Key:     key,
		Address: resolved,
	}); err != nil {
		return err
	}
	if err := e.sessions.SetShippingCountry(ctx, scope.SessionID, resolved.Country); err != nil {
		return err
	}

	_, err = e.shipping.SetShipping(ctx, scope, instance, doc)
	return err
}

// pickAddress returns the address labelled key, falling back to the entry
// flagged as default.
func pickAddress(addresses []types.Address, key string) (string, *types.Address) {
	for i := range addresses {
		if addresses[i].Label == key {
			return key, &addresses[i]
		}
	}
	for i := range addresses {
		if addresses[i].Default {
			return addresses[i].Label, &addresses[i]
		}
	}
	return "", nil
}

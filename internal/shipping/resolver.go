package shipping

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-cart/internal/session"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	"github.com/shopspring/decimal"
)

// Resolver maps countries to zones and computes eligible shipping methods
// from the zone rate tables against current cart totals.
type Resolver struct {
	zones    []types.ShippingZone
	sessions *session.Store
	logg     *logger.Logger
}

// NewResolver builds a resolver over the ordered zone table.
func NewResolver(zones []types.ShippingZone, sessions *session.Store, logg *logger.Logger) (*Resolver, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Resolver{zones: zones, sessions: sessions, logg: logg}, nil
}

// Zone returns the configured zone with the given id, or nil.
func (r *Resolver) Zone(id string) *types.ShippingZone {
	for i := range r.zones {
		if r.zones[i].ID == id {
			return &r.zones[i]
		}
	}
	return nil
}

// ZoneFor resolves the zone for a country: the first zone whose country list
// contains it wins; otherwise the catch-all rest zone; otherwise nil
// (unshippable).
func (r *Resolver) ZoneFor(country string) *types.ShippingZone {
	var rest *types.ShippingZone
	for i := range r.zones {
		zone := &r.zones[i]
		if zone.Type == enums.ZoneTypeRest && rest == nil {
			rest = zone
			continue
		}
		if zone.HasCountry(country) {
			return zone
		}
	}
	return rest
}

// SetShipping derives the shipping selection for the cart document from the
// session's shipping-country fact, persists the document, and forgets any
// previously selected method since eligibility is zone-dependent.
func (r *Resolver) SetShipping(ctx context.Context, scope session.Scope, instance string, doc *types.CartDocument) (*types.ShippingSelection, error) {
	country, err := r.sessions.ShippingCountry(ctx, scope.SessionID)
	if err != nil {
		return nil, err
	}

	doc.Shipping = nil
	if country != "" {
		if zone := r.ZoneFor(country); zone != nil {
			doc.Shipping = &types.ShippingSelection{Zone: zone.ID}
		} else if r.logg != nil {
			r.logg.Warn(r.logg.WithField(ctx, "country", country), "no shipping zone matches country")
		}
	}

	if err := r.sessions.ClearShippingMethod(ctx, scope.SessionID); err != nil {
		return nil, err
	}
	if err := r.sessions.SaveCart(ctx, scope.SessionID, instance, doc); err != nil {
		return nil, err
	}
	return doc.Shipping, nil
}

// EligibleMethods evaluates both rate tables of the zone independently: the
// price table against the subtotal and the weight table against the cart
// weight. Results are keyed by name slug in an ordered map; a later entry
// with a colliding slug overwrites the earlier one, including across tables.
func (r *Resolver) EligibleMethods(zone *types.ShippingZone, totals types.Totals) *types.MethodSet {
	methods := types.NewMethodSet()
	if zone == nil {
		return methods
	}
	collect(methods, zone.PriceRates, totals.Sub)
	collect(methods, zone.WeightRates, decimal.NewFromFloat(totals.Weight))
	return methods
}

func collect(into *types.MethodSet, rates []types.ShippingMethod, total decimal.Decimal) {
	for _, method := range rates {
		if method.Matches(total) {
			into.Put(Slugify(method.Name), method)
		}
	}
}

// SelectMethod keeps the previously selected method if it is still eligible,
// otherwise picks the first eligible method in table order and persists that
// as the new selection. An empty set yields no active method.
func (r *Resolver) SelectMethod(ctx context.Context, scope session.Scope, methods *types.MethodSet) (string, error) {
	if methods.Len() == 0 {
		return "", nil
	}

	selected, err := r.sessions.ShippingMethod(ctx, scope.SessionID)
	if err != nil {
		return "", err
	}

	if selected == "" || !methods.Has(selected) {
		first, _ := methods.First()
		selected = first
		if err := r.sessions.SetShippingMethod(ctx, scope.SessionID, selected); err != nil {
			return "", err
		}
	}
	return selected, nil
}

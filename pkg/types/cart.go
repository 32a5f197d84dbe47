package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Totals is the derived money/weight block of a cart. Every field except
// Discount and Tax is recomputed from scratch on each read; Discount and Tax
// are carried through from the stored document as-is.
type Totals struct {
	Sub      decimal.Decimal `json:"sub"`
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Grand    decimal.Decimal `json:"grand"`
	Weight   float64         `json:"weight"`
}

// GrandFromParts sums the component totals. The invariant
// grand = sub + discount + shipping + tax must hold after every read.
func (t Totals) GrandFromParts() decimal.Decimal {
	return t.Sub.Add(t.Discount).Add(t.Shipping).Add(t.Tax)
}

// LineItem is a stored cart line referencing an external catalog product.
type LineItem struct {
	ItemID   string          `json:"item_id"`
	Product  string          `json:"product"`
	Variant  string          `json:"variant,omitempty"`
	Quantity int             `json:"quantity"`
	Custom   json.RawMessage `json:"custom,omitempty"`
}

// CartDocument is the thin persisted cart, keyed by session and instance name.
// Item order is insertion order and survives recompute.
type CartDocument struct {
	ID       string             `json:"cart_id"`
	Items    []LineItem         `json:"items"`
	Coupons  []string           `json:"coupons"`
	Shipping *ShippingSelection `json:"shipping,omitempty"`
	Totals   Totals             `json:"total"`
}

// NewCartDocument builds an empty cart with zeroed totals.
func NewCartDocument(id string) *CartDocument {
	return &CartDocument{
		ID:      id,
		Items:   []LineItem{},
		Coupons: []string{},
	}
}

// IndexOfItem returns the position of the item with the given item id, or -1.
func (d *CartDocument) IndexOfItem(itemID string) int {
	for i, item := range d.Items {
		if item.ItemID == itemID {
			return i
		}
	}
	return -1
}

// IndexOfRef returns the position of the item matching the
// (product, variant) identity, or -1. At most one item per pair exists.
func (d *CartDocument) IndexOfRef(productRef, variantRef string) int {
	for i, item := range d.Items {
		if variantRef != "" {
			if item.Product == productRef && item.Variant == variantRef {
				return i
			}
		} else if item.Product == productRef && item.Variant == "" {
			return i
		}
	}
	return -1
}

// RemoveItemAt drops the item at position i, preserving the order of the
// remaining items.
func (d *CartDocument) RemoveItemAt(i int) {
	if i < 0 || i >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
}

// CartItemView is a line item enriched for display. Product is nil when the
// referenced product no longer resolves in the catalog; such items contribute
// nothing to totals but their stored record is kept intact.
type CartItemView struct {
	ItemID    string          `json:"item_id"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Custom    json.RawMessage `json:"custom,omitempty"`
	Product   *ProductView    `json:"product,omitempty"`
	Variant   *Variant        `json:"variant,omitempty"`
}

// CartView is the fully recomputed cart returned to callers. It is derived on
// every read and never written back to the store.
type CartView struct {
	ID       string             `json:"cart_id"`
	Items    []CartItemView     `json:"items"`
	Coupons  []string           `json:"coupons"`
	Shipping *ShippingSelection `json:"shipping,omitempty"`
	Totals   Totals             `json:"total"`
}

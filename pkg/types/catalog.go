package types

import (
	"strings"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/shopspring/decimal"
)

// Variant is a sellable variation of a complex product.
type Variant struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Inventory *int            `json:"inventory,omitempty"`
}

// Product is the catalog value object consumed by the cart engine. The engine
// never writes products.
type Product struct {
	ID             string             `json:"id"`
	Slug           string             `json:"slug"`
	Title          string             `json:"title"`
	Class          enums.ProductClass `json:"class"`
	Price          *decimal.Decimal   `json:"price,omitempty"`
	Weight         *float64           `json:"weight,omitempty"`
	TrackInventory bool               `json:"track_inventory"`
	Inventory      int                `json:"inventory"`
	Variants       []Variant          `json:"variants,omitempty"`

	// Relation fields carry ids of other catalog entries. The enrichment
	// pass replaces them with resolved entry payloads in the view.
	TypeRef        string   `json:"type,omitempty"`
	VendorRef      string   `json:"vendor,omitempty"`
	CollectionRefs []string `json:"collections,omitempty"`

	// Listing/administrative fields. These never reach the consumer-facing
	// view.
	ListingImage     string `json:"listing_image,omitempty"`
	ListingType      string `json:"listing_type,omitempty"`
	ListingVendor    string `json:"listing_vendor,omitempty"`
	ListingInventory string `json:"listing_inventory,omitempty"`
	EditURL          string `json:"edit_url,omitempty"`
}

// FindVariant locates a variant by id within the product's variant list.
func (p *Product) FindVariant(variantID string) *Variant {
	if p == nil || variantID == "" {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// Entry is a resolved related catalog record (product type, vendor,
// collection) attached to enriched views in place of its id.
type Entry struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// ProductView is the consumer-facing product payload attached to enriched
// cart items. Relation refs are replaced by resolved entries and
// listing/administrative fields are stripped.
type ProductView struct {
	ID             string             `json:"id"`
	Slug           string             `json:"slug"`
	Title          string             `json:"title"`
	Class          enums.ProductClass `json:"class"`
	Price          *decimal.Decimal   `json:"price,omitempty"`
	Weight         *float64           `json:"weight,omitempty"`
	TrackInventory bool               `json:"track_inventory"`
	Inventory      int                `json:"inventory"`
	Variants       []Variant          `json:"variants,omitempty"`
	Type           *Entry             `json:"type,omitempty"`
	Vendor         *Entry             `json:"vendor,omitempty"`
	Collections    []Entry            `json:"collections,omitempty"`
}

// Address is a customer address owned by the customer directory. Country may
// arrive as a composite "country|region" value and is split before use.
type Address struct {
	Label   string `json:"label,omitempty"`
	Name    string `json:"name,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	Postal  string `json:"postal,omitempty"`
	Country string `json:"country"`
	Region  string `json:"region,omitempty"`
	Default bool   `json:"default"`
}

// SplitCountry splits a composite "country|region" value into its parts.
// A value without a separator is a bare country.
func SplitCountry(value string) (country, region string) {
	country, region, _ = strings.Cut(value, "|")
	return country, region
}

// Customer is the directory record for a logged-in shopper.
type Customer struct {
	Key       string    `json:"key"`
	Email     string    `json:"email"`
	Addresses []Address `json:"addresses,omitempty"`
}

// DefaultAddress is the session-scoped cache of the resolved default address.
// It is resolved once per session and reused by subsequent recomputes.
type DefaultAddress struct {
	Key     string  `json:"default_key"`
	Address Address `json:"default"`
}

package pricing

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-cart/pkg/types"
)

type relationCardinality string

const (
	cardinalitySingle relationCardinality = "single"
	cardinalityMany   relationCardinality = "many"
)

// relationField declares one relation-typed product field for the enrichment
// pass: its name and whether it carries one id or a list of ids.
type relationField struct {
	name        string
	cardinality relationCardinality
}

// productRelations is the declarative field-kind table driving enrichment.
// Resolution goes one level deep: each id is replaced by its resolved entry.
var productRelations = []relationField{
	{name: "type", cardinality: cardinalitySingle},
	{name: "vendor", cardinality: cardinalitySingle},
	{name: "collections", cardinality: cardinalityMany},
}

type entrySource interface {
	FindEntry(ctx context.Context, id string) (*types.Entry, error)
}

// buildProductView assembles the consumer-facing product payload: listing and
// administrative fields are stripped (never copied) and relation ids are
// replaced by resolved entries. Entries that no longer resolve are dropped
// from the view.
func buildProductView(ctx context.Context, entries entrySource, product *types.Product) (*types.ProductView, error) {
	view := &types.ProductView{
		ID:             product.ID,
		Slug:           product.Slug,
		Title:          product.Title,
		Class:          product.Class,
		Price:          product.Price,
		Weight:         product.Weight,
		TrackInventory: product.TrackInventory,
		Inventory:      product.Inventory,
		Variants:       product.Variants,
	}

	for _, field := range productRelations {
		switch field.cardinality {
		case cardinalitySingle:
			ref := singleRef(product, field.name)
			if ref == "" {
				continue
			}
			entry, err := entries.FindEntry(ctx, ref)
			if err != nil {
				return nil, err
			}
			setSingle(view, field.name, entry)
		case cardinalityMany:
			for _, ref := range manyRefs(product, field.name) {
				entry, err := entries.FindEntry(ctx, ref)
				if err != nil {
					return nil, err
				}
				if entry != nil {
					appendMany(view, field.name, *entry)
				}
			}
		}
	}

	return view, nil
}

func singleRef(product *types.Product, name string) string {
	switch name {
	case "type":
		return product.TypeRef
	case "vendor":
		return product.VendorRef
	}
	panic(fmt.Sprintf("unknown single relation field %q", name))
}

func manyRefs(product *types.Product, name string) []string {
	switch name {
	case "collections":
		return product.CollectionRefs
	}
	panic(fmt.Sprintf("unknown many relation field %q", name))
}

func setSingle(view *types.ProductView, name string, entry *types.Entry) {
	switch name {
	case "type":
		view.Type = entry
	case "vendor":
		view.Vendor = entry
	}
}

func appendMany(view *types.ProductView, name string, entry types.Entry) {
	switch name {
	case "collections":
		view.Collections = append(view.Collections, entry)
	}
}

package inventory

import (
	"fmt"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/types"
)

// Validate checks a proposed quantity against tracked stock. alreadyInCart is
// the quantity already committed for this exact (product, variant) pair, so
// the check covers the total post-mutation quantity rather than the delta.
func Validate(product *types.Product, variantRef string, requested, alreadyInCart int) error {
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found")
	}
	if !product.TrackInventory {
		return nil
	}

	total := requested + alreadyInCart

	switch product.Class {
	case enums.ProductClassSimple:
		if product.Inventory < total {
			return stockError(product.ID, "", total, product.Inventory)
		}
	case enums.ProductClassComplex:
		variant := product.FindVariant(variantRef)
		if variant == nil {
			return pkgerrors.New(pkgerrors.CodeVariantNotFound, "variant not found").
				WithDetails(map[string]string{"product_id": product.ID, "variant_id": variantRef})
		}
		if variant.Inventory == nil {
			return stockError(product.ID, variantRef, total, 0)
		}
		if *variant.Inventory < total {
			return stockError(product.ID, variantRef, total, *variant.Inventory)
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown product class %q", product.Class))
	}

	return nil
}

func stockError(productID, variantID string, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds available stock").
		WithDetails(pkgerrors.StockDetails{
			ProductID: productID,
			VariantID: variantID,
			Requested: requested,
			Available: available,
		})
}

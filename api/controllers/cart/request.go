package cart

import "encoding/json"

// AddItemRequest is the payload for POST /cart/items.
type AddItemRequest struct {
	Product  string          `json:"product" validate:"required"`
	Variant  string          `json:"variant,omitempty"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	Custom   json.RawMessage `json:"custom,omitempty"`
}

// UpdateItemRequest is the payload for PATCH /cart/items. Quantity 0 removes
// the item.
type UpdateItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

// SetShippingCountryRequest is the payload for PUT /cart/shipping-country.
type SetShippingCountryRequest struct {
	Country string `json:"country" validate:"required"`
}

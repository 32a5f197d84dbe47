package cart

import (
	"net/http"
	"strconv"

	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

// Fetch returns the cart for the requested instance. The recalculated query
// flag defaults to true; recalculated=false returns the raw stored document.
func Fetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := scopeOrFail(w, r, svc, logg)
		if !ok {
			return
		}
		instance := instanceParam(r)

		if recalc := recalculatedParam(r); !recalc {
			doc, err := svc.Raw(r.Context(), scope, instance)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, doc)
			return
		}

		view, err := svc.Get(r.Context(), scope, instance)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AddItem puts a line item in the cart.
func AddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := scopeOrFail(w, r, svc, logg)
		if !ok {
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Add(r.Context(), scope, instanceParam(r), cartsvc.AddItemInput{
			Product:  payload.Product,
			Variant:  payload.Variant,
			Quantity: payload.Quantity,
			Custom:   payload.Custom,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateItem patches a line item's quantity.
func UpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := scopeOrFail(w, r, svc, logg)
		if !ok {
			return
		}

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), scope, instanceParam(r), cartsvc.UpdateItemInput{
			ItemID:   payload.ItemID,
			Quantity: payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ClearCart deletes the cart document for the instance.
func ClearCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := scopeOrFail(w, r, svc, logg)
		if !ok {
			return
		}

		if err := svc.Clear(r.Context(), scope, instanceParam(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}

// SetShippingCountry stores the session's shipping country and returns the
// re-resolved shipping selection.
func SetShippingCountry(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := scopeOrFail(w, r, svc, logg)
		if !ok {
			return
		}

		var payload SetShippingCountryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selection, err := svc.SetShippingCountry(r.Context(), scope, payload.Country)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, selection)
	}
}

func scopeOrFail(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) (session.Scope, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
		return session.Scope{}, false
	}
	scope, ok := middleware.ScopeFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session scope missing"))
		return session.Scope{}, false
	}
	return scope, true
}

func instanceParam(r *http.Request) string {
	if instance := r.URL.Query().Get("instance"); instance != "" {
		return instance
	}
	return cartsvc.PrimaryInstance
}

func recalculatedParam(r *http.Request) bool {
	raw := r.URL.Query().Get("recalculated")
	if raw == "" {
		return true
	}
	recalc, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return recalc
}

package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-cart/api/middleware"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/types"
)

type stubService struct {
	lastScope    session.Scope
	lastInstance string
	lastAdd      cartsvc.AddItemInput
	lastUpdate   cartsvc.UpdateItemInput
	lastCountry  string
	rawCalled    bool
	getCalled    bool
	clearCalled  bool

	view      *types.CartView
	doc       *types.CartDocument
	selection *types.ShippingSelection
	err       error
}

func (s *stubService) Get(_ context.Context, scope session.Scope, instance string) (*types.CartView, error) {
	s.getCalled = true
	s.lastScope = scope
	s.lastInstance = instance
	return s.view, s.err
}

func (s *stubService) Raw(_ context.Context, scope session.Scope, instance string) (*types.CartDocument, error) {
	s.rawCalled = true
	s.lastScope = scope
	s.lastInstance = instance
	return s.doc, s.err
}

func (s *stubService) Add(_ context.Context, scope session.Scope, instance string, input cartsvc.AddItemInput) (*types.CartView, error) {
	s.lastScope = scope
	s.lastInstance = instance
	s.lastAdd = input
	return s.view, s.err
}

func (s *stubService) Update(_ context.Context, scope session.Scope, instance string, input cartsvc.UpdateItemInput) (*types.CartView, error) {
	s.lastScope = scope
	s.lastInstance = instance
	s.lastUpdate = input
	return s.view, s.err
}

func (s *stubService) Clear(_ context.Context, scope session.Scope, instance string) error {
	s.clearCalled = true
	s.lastScope = scope
	s.lastInstance = instance
	return s.err
}

func (s *stubService) SetShippingCountry(_ context.Context, scope session.Scope, country string) (*types.ShippingSelection, error) {
	s.lastScope = scope
	s.lastCountry = country
	return s.selection, s.err
}

func newCartRouter(svc cartsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Session(nil))
		r.Get("/", Fetch(svc, nil))
		r.Delete("/", ClearCart(svc, nil))
		r.Post("/items", AddItem(svc, nil))
		r.Patch("/items", UpdateItem(svc, nil))
		r.Put("/shipping-country", SetShippingCountry(svc, nil))
	})
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("X-Session-Id", "s1")
	req.Header.Set("X-Customer-Key", "jane@example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestFetchDefaultsToRecalculatedPrimary(t *testing.T) {
	t.Parallel()

	svc := &stubService{view: &types.CartView{ID: "c1"}}
	rec := doRequest(t, newCartRouter(svc), http.MethodGet, "/api/v1/cart", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.getCalled || svc.rawCalled {
		t.Fatal("expected recalculated read")
	}
	if svc.lastInstance != cartsvc.PrimaryInstance {
		t.Fatalf("expected primary instance, got %q", svc.lastInstance)
	}
	if svc.lastScope.SessionID != "s1" || svc.lastScope.CustomerKey != "jane@example.com" {
		t.Fatalf("unexpected scope %+v", svc.lastScope)
	}
}

func TestFetchRawAndInstance(t *testing.T) {
	t.Parallel()

	svc := &stubService{doc: types.NewCartDocument("c1")}
	rec := doRequest(t, newCartRouter(svc), http.MethodGet, "/api/v1/cart?instance=wishlist&recalculated=false", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.rawCalled || svc.getCalled {
		t.Fatal("expected raw read")
	}
	if svc.lastInstance != "wishlist" {
		t.Fatalf("expected wishlist instance, got %q", svc.lastInstance)
	}
}

func TestAddItemValidatesBody(t *testing.T) {
	t.Parallel()

	svc := &stubService{view: &types.CartView{ID: "c1"}}
	router := newCartRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product":  "p1",
		"variant":  "v1",
		"quantity": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastAdd.Product != "p1" || svc.lastAdd.Variant != "v1" || svc.lastAdd.Quantity != 2 {
		t.Fatalf("unexpected input %+v", svc.lastAdd)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"quantity": 2,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product":  "p1",
		"quantity": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
	}
}

func TestUpdateItemAllowsZeroQuantity(t *testing.T) {
	t.Parallel()

	svc := &stubService{view: &types.CartView{ID: "c1"}}
	rec := doRequest(t, newCartRouter(svc), http.MethodPatch, "/api/v1/cart/items", map[string]any{
		"item_id":  "i1",
		"quantity": 0,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastUpdate.ItemID != "i1" || svc.lastUpdate.Quantity != 0 {
		t.Fatalf("unexpected input %+v", svc.lastUpdate)
	}
}

func TestClearCart(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	rec := doRequest(t, newCartRouter(svc), http.MethodDelete, "/api/v1/cart?instance=wishlist", nil)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !svc.clearCalled || svc.lastInstance != "wishlist" {
		t.Fatalf("expected clear on wishlist, got %+v", svc)
	}
}

func TestSetShippingCountry(t *testing.T) {
	t.Parallel()

	svc := &stubService{selection: &types.ShippingSelection{Zone: "domestic"}}
	rec := doRequest(t, newCartRouter(svc), http.MethodPut, "/api/v1/cart/shipping-country", map[string]any{
		"country": "US",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastCountry != "US" {
		t.Fatalf("expected country US, got %q", svc.lastCountry)
	}
}

func TestMissingSessionHeaderRejected(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	newCartRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session header, got %d", rec.Code)
	}
	if svc.getCalled {
		t.Fatal("handler must not run without a session scope")
	}
}

func TestDomainErrorMapping(t *testing.T) {
	t.Parallel()

	svc := &stubService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds available stock").
		WithDetails(pkgerrors.StockDetails{ProductID: "p1", Requested: 6, Available: 5})}
	rec := doRequest(t, newCartRouter(svc), http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product":  "p1",
		"quantity": 6,
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected stock details in payload")
	}
}

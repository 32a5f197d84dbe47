package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/types"
	redislib "github.com/redis/go-redis/v9"
)

type memoryKV struct {
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func (m *memoryKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

type testKeys struct{}

func (testKeys) CartKey(sessionID, instance string) string {
	return "cart:" + sessionID + ":" + instance
}
func (testKeys) ShippingCountryKey(sessionID string) string { return "country:" + sessionID }
func (testKeys) ShippingMethodKey(sessionID string) string  { return "method:" + sessionID }
func (testKeys) DefaultAddressKey(sessionID string) string  { return "address:" + sessionID }

func newTestStore(t *testing.T) (*Store, *memoryKV) {
	t.Helper()
	kv := newMemoryKV()
	store, err := NewStoreWith(kv, testKeys{}, time.Hour)
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	return store, kv
}

func TestScopeValid(t *testing.T) {
	t.Parallel()

	if (Scope{}).Valid() {
		t.Fatal("empty scope should be invalid")
	}
	if (Scope{SessionID: "  "}).Valid() {
		t.Fatal("blank session id should be invalid")
	}
	if !(Scope{SessionID: "s1"}).Valid() {
		t.Fatal("scope with session id should be valid")
	}
}

func TestCartRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	doc, err := store.Cart(ctx, "s1", "cart")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != nil {
		t.Fatal("expected nil for missing cart")
	}

	saved := types.NewCartDocument("c1")
	saved.Items = append(saved.Items, types.LineItem{ItemID: "i1", Product: "p1", Quantity: 2})
	if err := store.SaveCart(ctx, "s1", "cart", saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Cart(ctx, "s1", "cart")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil || loaded.ID != "c1" || len(loaded.Items) != 1 {
		t.Fatalf("unexpected document %+v", loaded)
	}

	if err := store.DeleteCart(ctx, "s1", "cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if doc, _ := store.Cart(ctx, "s1", "cart"); doc != nil {
		t.Fatal("expected cart gone after delete")
	}
}

func TestCartInstancesAreIndependent(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveCart(ctx, "s1", "cart", types.NewCartDocument("c1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveCart(ctx, "s1", "wishlist", types.NewCartDocument("w1")); err != nil {
		t.Fatalf("save: %v", err)
	}

	wishlist, err := store.Cart(ctx, "s1", "wishlist")
	if err != nil || wishlist == nil || wishlist.ID != "w1" {
		t.Fatalf("unexpected wishlist %+v err %v", wishlist, err)
	}

	if err := store.DeleteCart(ctx, "s1", "cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if doc, _ := store.Cart(ctx, "s1", "wishlist"); doc == nil {
		t.Fatal("deleting one instance must not touch the other")
	}
}

func TestShippingFacts(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	country, err := store.ShippingCountry(ctx, "s1")
	if err != nil || country != "" {
		t.Fatalf("expected empty fact, got %q err %v", country, err)
	}

	if err := store.SetShippingCountry(ctx, "s1", "US"); err != nil {
		t.Fatalf("set country: %v", err)
	}
	if country, _ = store.ShippingCountry(ctx, "s1"); country != "US" {
		t.Fatalf("expected US, got %q", country)
	}

	if err := store.SetShippingCountry(ctx, "s1", " "); err == nil {
		t.Fatal("expected error for blank country")
	}

	if err := store.SetShippingMethod(ctx, "s1", "standard"); err != nil {
		t.Fatalf("set method: %v", err)
	}
	if slug, _ := store.ShippingMethod(ctx, "s1"); slug != "standard" {
		t.Fatalf("expected standard, got %q", slug)
	}

	if err := store.ClearShippingMethod(ctx, "s1"); err != nil {
		t.Fatalf("clear method: %v", err)
	}
	if slug, _ := store.ShippingMethod(ctx, "s1"); slug != "" {
		t.Fatalf("expected cleared method, got %q", slug)
	}
}

func TestDefaultAddressCache(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	cached, err := store.DefaultAddress(ctx, "s1")
	if err != nil || cached != nil {
		t.Fatalf("expected unresolved cache, got %+v err %v", cached, err)
	}

	address := types.DefaultAddress{
		Key: "default",
		Address: types.Address{
			Label:   "default",
			Country: "US",
			Region:  "CA",
		},
	}
	if err := store.SetDefaultAddress(ctx, "s1", address); err != nil {
		t.Fatalf("set address: %v", err)
	}

	cached, err = store.DefaultAddress(ctx, "s1")
	if err != nil {
		t.Fatalf("load address: %v", err)
	}
	if cached == nil || cached.Address.Country != "US" || cached.Address.Region != "CA" {
		t.Fatalf("unexpected cached address %+v", cached)
	}
}

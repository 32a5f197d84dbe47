package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	redisclient "github.com/angelmondragon/storefront-cart/pkg/redis"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	redislib "github.com/redis/go-redis/v9"
)

// Scope identifies the shopper session all engine calls operate within.
// CustomerKey is empty for anonymous sessions.
type Scope struct {
	SessionID   string
	CustomerKey string
}

// Valid reports whether the scope carries a usable session id.
func (s Scope) Valid() bool {
	return strings.TrimSpace(s.SessionID) != ""
}

type keyValue interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type keyBuilder interface {
	CartKey(sessionID, instance string) string
	ShippingCountryKey(sessionID string) string
	ShippingMethodKey(sessionID string) string
	DefaultAddressKey(sessionID string) string
}

// Store persists cart documents and the three session-scoped facts (shipping
// country, selected shipping method, default-address cache) as keyed JSON
// documents. Missing keys are not errors.
type Store struct {
	kv   keyValue
	keys keyBuilder
	ttl  time.Duration
}

// NewStore builds a session store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.SessionConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Store{
		kv:   client,
		keys: client,
		ttl:  cfg.TTL(),
	}, nil
}

// NewStoreWith wires explicit backends; used by tests and alternative stores.
func NewStoreWith(kv keyValue, keys keyBuilder, ttl time.Duration) (*Store, error) {
	if kv == nil || keys == nil {
		return nil, fmt.Errorf("key-value store and key builder are required")
	}
	return &Store{kv: kv, keys: keys, ttl: ttl}, nil
}

// Cart loads the stored cart document for the instance, or nil when none
// exists yet.
func (s *Store) Cart(ctx context.Context, sessionID, instance string) (*types.CartDocument, error) {
	raw, err := s.kv.Get(ctx, s.keys.CartKey(sessionID, instance))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart document: %w", err)
	}
	var doc types.CartDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decoding cart document: %w", err)
	}
	return &doc, nil
}

// SaveCart persists the cart document for the instance.
func (s *Store) SaveCart(ctx context.Context, sessionID, instance string, doc *types.CartDocument) error {
	if doc == nil {
		return fmt.Errorf("cart document is required")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding cart document: %w", err)
	}
	return s.kv.Set(ctx, s.keys.CartKey(sessionID, instance), string(raw), s.ttl)
}

// DeleteCart removes the cart document for the instance.
func (s *Store) DeleteCart(ctx context.Context, sessionID, instance string) error {
	return s.kv.Del(ctx, s.keys.CartKey(sessionID, instance))
}

// ShippingCountry returns the shipping-country fact, or "" when unset.
func (s *Store) ShippingCountry(ctx context.Context, sessionID string) (string, error) {
	country, err := s.kv.Get(ctx, s.keys.ShippingCountryKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("loading shipping country: %w", err)
	}
	return country, nil
}

// SetShippingCountry stores the shipping-country fact.
func (s *Store) SetShippingCountry(ctx context.Context, sessionID, country string) error {
	if strings.TrimSpace(country) == "" {
		return fmt.Errorf("country is required")
	}
	return s.kv.Set(ctx, s.keys.ShippingCountryKey(sessionID), country, s.ttl)
}

// ShippingMethod returns the selected-method fact, or "" when unset.
func (s *Store) ShippingMethod(ctx context.Context, sessionID string) (string, error) {
	slug, err := s.kv.Get(ctx, s.keys.ShippingMethodKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("loading shipping method: %w", err)
	}
	return slug, nil
}

// SetShippingMethod stores the selected-method fact.
func (s *Store) SetShippingMethod(ctx context.Context, sessionID, slug string) error {
	if strings.TrimSpace(slug) == "" {
		return fmt.Errorf("method slug is required")
	}
	return s.kv.Set(ctx, s.keys.ShippingMethodKey(sessionID), slug, s.ttl)
}

// ClearShippingMethod forgets the selected-method fact.
func (s *Store) ClearShippingMethod(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, s.keys.ShippingMethodKey(sessionID))
}

// DefaultAddress returns the cached default address, or nil when unresolved.
func (s *Store) DefaultAddress(ctx context.Context, sessionID string) (*types.DefaultAddress, error) {
	raw, err := s.kv.Get(ctx, s.keys.DefaultAddressKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading default address: %w", err)
	}
	var address types.DefaultAddress
	if err := json.Unmarshal([]byte(raw), &address); err != nil {
		return nil, fmt.Errorf("decoding default address: %w", err)
	}
	return &address, nil
}

// SetDefaultAddress caches the resolved default address for the session.
func (s *Store) SetDefaultAddress(ctx context.Context, sessionID string, address types.DefaultAddress) error {
	raw, err := json.Marshal(address)
	if err != nil {
		return fmt.Errorf("encoding default address: %w", err)
	}
	return s.kv.Set(ctx, s.keys.DefaultAddressKey(sessionID), string(raw), s.ttl)
}

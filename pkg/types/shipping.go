package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/shopspring/decimal"
)

// ShippingMethod is a single rate entry in a zone's price or weight table.
// Identity for selection is the normalized slug of Name.
type ShippingMethod struct {
	Name   string           `json:"name"`
	Min    *decimal.Decimal `json:"min,omitempty"`
	Max    *decimal.Decimal `json:"max,omitempty"`
	Rate   decimal.Decimal  `json:"rate"`
	Active bool             `json:"active,omitempty"`
}

// Matches reports whether total satisfies the method's optional min/max
// bounds. Bounds are inclusive.
func (m ShippingMethod) Matches(total decimal.Decimal) bool {
	if m.Min != nil && total.LessThan(*m.Min) {
		return false
	}
	if m.Max != nil && total.GreaterThan(*m.Max) {
		return false
	}
	return true
}

// ShippingZone is one ordered entry of the configured zone table.
type ShippingZone struct {
	ID          string           `json:"id"`
	Type        enums.ZoneType   `json:"type"`
	Countries   []string         `json:"countries,omitempty"`
	PriceRates  []ShippingMethod `json:"price_rates,omitempty"`
	WeightRates []ShippingMethod `json:"weight_rates,omitempty"`
}

// HasCountry reports whether the zone's country list contains code.
func (z ShippingZone) HasCountry(code string) bool {
	for _, c := range z.Countries {
		if c == code {
			return true
		}
	}
	return false
}

// ShippingSelection is the derived shipping state on a cart. Only Zone is
// persisted; Methods are recomputed on every read.
type ShippingSelection struct {
	Zone    string     `json:"zone"`
	Methods *MethodSet `json:"methods,omitempty"`
}

// MethodSet is an insertion-ordered map of eligible shipping methods keyed by
// name slug. Inserting an existing key overwrites the value but keeps the
// original position, so a later table entry with a colliding slug replaces an
// earlier one.
type MethodSet struct {
	order []string
	byKey map[string]ShippingMethod
}

// NewMethodSet returns an empty ordered method set.
func NewMethodSet() *MethodSet {
	return &MethodSet{byKey: map[string]ShippingMethod{}}
}

// Put inserts or overwrites the method stored under key.
func (s *MethodSet) Put(key string, method ShippingMethod) {
	if s.byKey == nil {
		s.byKey = map[string]ShippingMethod{}
	}
	if _, exists := s.byKey[key]; !exists {
		s.order = append(s.order, key)
	}
	s.byKey[key] = method
}

// Get returns the method stored under key.
func (s *MethodSet) Get(key string) (ShippingMethod, bool) {
	if s == nil || s.byKey == nil {
		return ShippingMethod{}, false
	}
	m, ok := s.byKey[key]
	return m, ok
}

// Has reports whether key is present.
func (s *MethodSet) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Len returns the number of stored methods.
func (s *MethodSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Keys returns the keys in insertion order.
func (s *MethodSet) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// First returns the first key in insertion order.
func (s *MethodSet) First() (string, bool) {
	if s == nil || len(s.order) == 0 {
		return "", false
	}
	return s.order[0], true
}

// SetActive marks the method under key active and all others inactive.
func (s *MethodSet) SetActive(key string) {
	if s == nil {
		return
	}
	for _, k := range s.order {
		m := s.byKey[k]
		m.Active = k == key
		s.byKey[k] = m
	}
}

// MarshalJSON writes the set as a JSON object in insertion order.
func (s *MethodSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.byKey[key])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving key order.
func (s *MethodSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("method set: expected object, got %v", tok)
	}

	s.order = nil
	s.byKey = map[string]ShippingMethod{}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("method set: expected string key, got %v", keyTok)
		}
		var method ShippingMethod
		if err := dec.Decode(&method); err != nil {
			return err
		}
		s.Put(key, method)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

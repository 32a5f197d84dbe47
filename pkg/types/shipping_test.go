package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func TestShippingMethodMatchesBounds(t *testing.T) {
	t.Parallel()

	method := ShippingMethod{Min: decPtr("10"), Max: decPtr("50")}

	if !method.Matches(dec("10")) {
		t.Fatal("expected inclusive lower bound to match")
	}
	if !method.Matches(dec("50")) {
		t.Fatal("expected inclusive upper bound to match")
	}
	if method.Matches(dec("9.99")) {
		t.Fatal("expected total below min to miss")
	}
	if method.Matches(dec("50.01")) {
		t.Fatal("expected total above max to miss")
	}

	open := ShippingMethod{}
	if !open.Matches(dec("0")) || !open.Matches(dec("99999")) {
		t.Fatal("expected unbounded method to match any total")
	}
}

func TestMethodSetInsertionOrder(t *testing.T) {
	t.Parallel()

	set := NewMethodSet()
	set.Put("standard", ShippingMethod{Name: "Standard", Rate: dec("5")})
	set.Put("express", ShippingMethod{Name: "Express", Rate: dec("15")})
	set.Put("freight", ShippingMethod{Name: "Freight", Rate: dec("30")})

	keys := set.Keys()
	want := []string{"standard", "express", "freight"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("expected key %q at %d, got %q", key, i, keys[i])
		}
	}

	first, ok := set.First()
	if !ok || first != "standard" {
		t.Fatalf("expected first key standard, got %q", first)
	}
}

func TestMethodSetOverwriteKeepsPosition(t *testing.T) {
	t.Parallel()

	set := NewMethodSet()
	set.Put("standard", ShippingMethod{Name: "Standard", Rate: dec("5")})
	set.Put("express", ShippingMethod{Name: "Express", Rate: dec("15")})
	set.Put("standard", ShippingMethod{Name: "Standard", Rate: dec("7")})

	if set.Len() != 2 {
		t.Fatalf("expected 2 methods, got %d", set.Len())
	}
	if first, _ := set.First(); first != "standard" {
		t.Fatalf("expected overwrite to keep position, first is %q", first)
	}
	got, ok := set.Get("standard")
	if !ok || !got.Rate.Equal(dec("7")) {
		t.Fatalf("expected overwritten rate 7, got %s", got.Rate)
	}
}

func TestMethodSetSetActive(t *testing.T) {
	t.Parallel()

	set := NewMethodSet()
	set.Put("standard", ShippingMethod{Name: "Standard"})
	set.Put("express", ShippingMethod{Name: "Express"})

	set.SetActive("express")

	if m, _ := set.Get("express"); !m.Active {
		t.Fatal("expected express to be active")
	}
	if m, _ := set.Get("standard"); m.Active {
		t.Fatal("expected standard to be inactive")
	}

	set.SetActive("standard")
	if m, _ := set.Get("express"); m.Active {
		t.Fatal("expected express to be deactivated")
	}
}

func TestMethodSetJSONRoundTrip(t *testing.T) {
	t.Parallel()

	set := NewMethodSet()
	set.Put("zeta", ShippingMethod{Name: "Zeta", Rate: dec("1")})
	set.Put("alpha", ShippingMethod{Name: "Alpha", Rate: dec("2")})
	set.Put("mid", ShippingMethod{Name: "Mid", Rate: dec("3")})

	raw, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded MethodSet
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	keys := decoded.Keys()
	want := []string{"zeta", "alpha", "mid"}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("expected key order preserved through JSON, got %v", keys)
		}
	}
}

func TestMethodSetUnmarshalRejectsNonObject(t *testing.T) {
	t.Parallel()

	var set MethodSet
	if err := json.Unmarshal([]byte(`["standard"]`), &set); err == nil {
		t.Fatal("expected error for non-object payload")
	}
}

package shipping

import (
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/shopspring/decimal"
)

const validZones = `
zones:
  - id: domestic
    type: countries
    countries: [us, " GB "]
    price_rates:
      - name: Standard
        min: 0
        max: 50
        rate: 5.00
      - name: Free Shipping
        min: 50
        rate: 0
    weight_rates:
      - name: Freight
        min: 20
        rate: 25.00
  - id: worldwide
    type: rest
    price_rates:
      - name: International
        rate: 20.00
`

func TestParseZones(t *testing.T) {
	t.Parallel()

	zones, err := ParseZones([]byte(validZones))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}

	domestic := zones[0]
	if domestic.ID != "domestic" || domestic.Type != enums.ZoneTypeCountries {
		t.Fatalf("unexpected zone %+v", domestic)
	}
	if len(domestic.Countries) != 2 || domestic.Countries[0] != "US" || domestic.Countries[1] != "GB" {
		t.Fatalf("expected normalized country codes, got %v", domestic.Countries)
	}
	if len(domestic.PriceRates) != 2 || len(domestic.WeightRates) != 1 {
		t.Fatalf("unexpected rate tables %+v", domestic)
	}

	standard := domestic.PriceRates[0]
	if !standard.Rate.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected rate 5, got %s", standard.Rate)
	}
	if standard.Min == nil || standard.Max == nil {
		t.Fatal("expected bounded standard rate")
	}

	free := domestic.PriceRates[1]
	if free.Max != nil {
		t.Fatal("expected open upper bound for free shipping")
	}

	if zones[1].Type != enums.ZoneTypeRest {
		t.Fatalf("expected rest zone, got %s", zones[1].Type)
	}
}

func TestParseZonesValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing id",
			yaml:    "zones:\n  - type: rest\n",
			wantErr: "id is required",
		},
		{
			name:    "duplicate id",
			yaml:    "zones:\n  - id: a\n    type: rest\n  - id: a\n    type: rest\n",
			wantErr: "duplicate id",
		},
		{
			name:    "unknown type",
			yaml:    "zones:\n  - id: a\n    type: galaxy\n",
			wantErr: "unknown type",
		},
		{
			name:    "two rest zones",
			yaml:    "zones:\n  - id: a\n    type: rest\n  - id: b\n    type: rest\n",
			wantErr: "only one rest zone",
		},
		{
			name:    "country zone without countries",
			yaml:    "zones:\n  - id: a\n    type: countries\n",
			wantErr: "countries are required",
		},
		{
			name:    "rate without name",
			yaml:    "zones:\n  - id: a\n    type: rest\n    price_rates:\n      - rate: 5\n",
			wantErr: "name is required",
		},
		{
			name:    "invalid yaml",
			yaml:    "zones: [",
			wantErr: "parsing shipping zones",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseZones([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadZonesMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadZones("testdata/does-not-exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

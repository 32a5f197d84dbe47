package shipping

import (
	"fmt"
	"os"
	"strings"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/angelmondragon/storefront-cart/pkg/types"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type zoneFile struct {
	Zones []zoneEntry `yaml:"zones"`
}

type zoneEntry struct {
	ID          string      `yaml:"id"`
	Type        string      `yaml:"type"`
	Countries   []string    `yaml:"countries"`
	PriceRates  []rateEntry `yaml:"price_rates"`
	WeightRates []rateEntry `yaml:"weight_rates"`
}

type rateEntry struct {
	Name string   `yaml:"name"`
	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
	Rate float64  `yaml:"rate"`
}

// LoadZones reads the ordered shipping zone table from a YAML file. Zone
// order in the file is the matching order.
func LoadZones(path string) ([]types.ShippingZone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading shipping zones: %w", err)
	}
	return ParseZones(raw)
}

// ParseZones decodes and validates a zone table.
func ParseZones(raw []byte) ([]types.ShippingZone, error) {
	var file zoneFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing shipping zones: %w", err)
	}

	zones := make([]types.ShippingZone, 0, len(file.Zones))
	seen := map[string]struct{}{}
	restSeen := false

	for i, entry := range file.Zones {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("shipping zone %d: id is required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("shipping zone %q: duplicate id", id)
		}
		seen[id] = struct{}{}

		zoneType := enums.ZoneType(entry.Type)
		if !zoneType.Valid() {
			return nil, fmt.Errorf("shipping zone %q: unknown type %q", id, entry.Type)
		}
		if zoneType == enums.ZoneTypeRest {
			if restSeen {
				return nil, fmt.Errorf("shipping zone %q: only one rest zone is allowed", id)
			}
			restSeen = true
		}
		if zoneType == enums.ZoneTypeCountries && len(entry.Countries) == 0 {
			return nil, fmt.Errorf("shipping zone %q: countries are required", id)
		}

		zone := types.ShippingZone{
			ID:        id,
			Type:      zoneType,
			Countries: normalizeCountries(entry.Countries),
		}
		priceRates, err := toMethods(id, "price_rates", entry.PriceRates)
		if err != nil {
			return nil, err
		}
		weightRates, err := toMethods(id, "weight_rates", entry.WeightRates)
		if err != nil {
			return nil, err
		}
		zone.PriceRates = priceRates
		zone.WeightRates = weightRates
		zones = append(zones, zone)
	}

	return zones, nil
}

func toMethods(zoneID, table string, rates []rateEntry) ([]types.ShippingMethod, error) {
	methods := make([]types.ShippingMethod, 0, len(rates))
	for i, rate := range rates {
		name := strings.TrimSpace(rate.Name)
		if name == "" {
			return nil, fmt.Errorf("shipping zone %q: %s[%d]: name is required", zoneID, table, i)
		}
		method := types.ShippingMethod{
			Name: name,
			Rate: decimal.NewFromFloat(rate.Rate),
		}
		if rate.Min != nil {
			min := decimal.NewFromFloat(*rate.Min)
			method.Min = &min
		}
		if rate.Max != nil {
			max := decimal.NewFromFloat(*rate.Max)
			method.Max = &max
		}
		methods = append(methods, method)
	}
	return methods, nil
}

func normalizeCountries(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}

package enums

// ZoneType declares how a shipping zone matches countries.
type ZoneType string

const (
	// ZoneTypeCountries matches an explicit country list.
	ZoneTypeCountries ZoneType = "countries"
	// ZoneTypeRest is the catch-all zone used when no country list matches.
	ZoneTypeRest ZoneType = "rest"
)

// Valid reports whether the zone type is one of the known values.
func (z ZoneType) Valid() bool {
	switch z {
	case ZoneTypeCountries, ZoneTypeRest:
		return true
	}
	return false
}

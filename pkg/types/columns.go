package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Variants stores a product's variant list as a JSON column.
type Variants []Variant

// Value implements driver.Valuer.
func (v Variants) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner.
func (v *Variants) Scan(value any) error {
	return scanJSON(value, v, "variants")
}

// StringList stores a list of ids as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value any) error {
	return scanJSON(value, l, "string list")
}

// Addresses stores a customer's address book as a JSON column.
type Addresses []Address

// Value implements driver.Valuer.
func (a Addresses) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *Addresses) Scan(value any) error {
	return scanJSON(value, a, "addresses")
}

func scanJSON(value, dest any, what string) error {
	if value == nil {
		return nil
	}
	switch raw := value.(type) {
	case []byte:
		return json.Unmarshal(raw, dest)
	case string:
		return json.Unmarshal([]byte(raw), dest)
	default:
		return fmt.Errorf("unsupported %s column type %T", what, value)
	}
}

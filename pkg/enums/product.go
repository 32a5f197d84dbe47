package enums

// ProductClass distinguishes single-SKU products from products sold per variant.
type ProductClass string

const (
	ProductClassSimple  ProductClass = "simple"
	ProductClassComplex ProductClass = "complex"
)

// Valid reports whether the class is one of the known values.
func (p ProductClass) Valid() bool {
	switch p {
	case ProductClassSimple, ProductClassComplex:
		return true
	}
	return false
}

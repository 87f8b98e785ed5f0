package enums

// ProductStatus gates whether a product can be ordered.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// IsValid reports whether the value is a known ProductStatus.
func (p ProductStatus) IsValid() bool {
	return p == ProductStatusActive || p == ProductStatusInactive
}

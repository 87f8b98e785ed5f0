package enums

import "fmt"

// DiscountType selects how a coupon's value is interpreted.
type DiscountType string

const (
	// DiscountTypeFixed treats the coupon value as cents off the order.
	DiscountTypeFixed DiscountType = "fixed"
	// DiscountTypePercent treats the coupon value as basis points (1/100th
	// of a percent) off the order subtotal.
	DiscountTypePercent DiscountType = "percent"
)

var validDiscountTypes = []DiscountType{
	DiscountTypeFixed,
	DiscountTypePercent,
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

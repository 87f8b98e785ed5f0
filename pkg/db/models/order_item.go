package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem captures the immutable snapshot of each purchased line. Only the
// administrative cost adjustment may change after creation.
type OrderItem struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID           uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	VariantID           *uuid.UUID `gorm:"column:variant_id;type:uuid"`
	VendorID            uuid.UUID  `gorm:"column:vendor_id;type:uuid;not null"`
	ProductName         string     `gorm:"column:product_name;not null"`
	ProductSKU          string     `gorm:"column:product_sku;not null"`
	Qty                 int        `gorm:"column:qty;not null"`
	UnitPriceCents      int        `gorm:"column:unit_price_cents;not null"`
	TotalCents          int        `gorm:"column:total_cents;not null"`
	CostAdjustmentCents int        `gorm:"column:cost_adjustment_cents;not null;default:0"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// StockRecord is the authoritative available quantity per (product, variant).
// VariantID is nil for simple products. Quantity never goes negative; the
// stock ledger enforces that under an exclusive row lock.
type StockRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_stock_product_variant"`
	VariantID *uuid.UUID `gorm:"column:variant_id;type:uuid;uniqueIndex:idx_stock_product_variant"`
	Quantity  int        `gorm:"column:quantity;not null;default:0"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

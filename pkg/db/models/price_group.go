package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceGroup prices a product or a specific variant, with an optional sale
// override.
type PriceGroup struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID      uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_price_product_variant"`
	VariantID      *uuid.UUID `gorm:"column:variant_id;type:uuid;uniqueIndex:idx_price_product_variant"`
	PriceCents     int        `gorm:"column:price_cents;not null"`
	SalePriceCents *int       `gorm:"column:sale_price_cents"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePriceCents returns the sale price when set and positive, else the
// regular price.
func (p PriceGroup) EffectivePriceCents() int {
	if p.SalePriceCents != nil && *p.SalePriceCents > 0 {
		return *p.SalePriceCents
	}
	return p.PriceCents
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastillo/mercato-backend/pkg/enums"
)

// Product is the catalog entry orders are placed against. The transaction
// core only reads it; catalog management lives elsewhere.
type Product struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	VendorID  uuid.UUID           `gorm:"column:vendor_id;type:uuid;not null"`
	Name      string              `gorm:"column:name;not null"`
	SKU       string              `gorm:"column:sku;not null"`
	Status    enums.ProductStatus `gorm:"column:status;not null;default:'active'"`
	Visible   bool                `gorm:"column:visible;not null;default:true"`
	Variants  []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Orderable reports whether the product may appear on a new order.
func (p Product) Orderable() bool {
	return p.Visible && p.Status == enums.ProductStatusActive
}

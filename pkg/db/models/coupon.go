package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastillo/mercato-backend/pkg/enums"
)

// Coupon carries a discount rule and its usage constraints.
type Coupon struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Code          string             `gorm:"column:code;not null;uniqueIndex"`
	Active        bool               `gorm:"column:active;not null;default:true"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue int                `gorm:"column:discount_value;not null"`
	MinOrderCents int                `gorm:"column:min_order_cents;not null;default:0"`
	UsageLimit    *int               `gorm:"column:usage_limit"`
	PerUserLimit  *int               `gorm:"column:per_user_limit"`
	StartsAt      *time.Time         `gorm:"column:starts_at"`
	ExpiresAt     *time.Time         `gorm:"column:expires_at"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

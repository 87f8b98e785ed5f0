package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The goose migrations default primary keys to gen_random_uuid() on
// Postgres; these hooks keep inserts working on stores without that
// function (the SQLite test harness) and let callers pre-assign IDs.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (p *Product) BeforeCreate(*gorm.DB) error        { ensureID(&p.ID); return nil }
func (v *ProductVariant) BeforeCreate(*gorm.DB) error { ensureID(&v.ID); return nil }
func (s *StockRecord) BeforeCreate(*gorm.DB) error    { ensureID(&s.ID); return nil }
func (p *PriceGroup) BeforeCreate(*gorm.DB) error     { ensureID(&p.ID); return nil }
func (c *Coupon) BeforeCreate(*gorm.DB) error         { ensureID(&c.ID); return nil }
func (u *CouponUsage) BeforeCreate(*gorm.DB) error    { ensureID(&u.ID); return nil }
func (w *WalletAccount) BeforeCreate(*gorm.DB) error  { ensureID(&w.ID); return nil }
func (t *WalletTransaction) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
func (o *Order) BeforeCreate(*gorm.DB) error     { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error { ensureID(&i.ID); return nil }
func (c *CartItem) BeforeCreate(*gorm.DB) error  { ensureID(&c.ID); return nil }

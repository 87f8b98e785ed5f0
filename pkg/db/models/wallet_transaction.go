package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastillo/mercato-backend/pkg/enums"
)

// WalletTransaction is an append-only ledger entry. AmountCents is signed:
// credits positive, debits negative. Rows are never updated or deleted.
type WalletTransaction struct {
	ID          uuid.UUID                     `gorm:"column:id;type:uuid;primaryKey"`
	WalletID    uuid.UUID                     `gorm:"column:wallet_id;type:uuid;not null;index"`
	AmountCents int                           `gorm:"column:amount_cents;not null"`
	Source      enums.WalletTransactionSource `gorm:"column:source;not null"`
	Description string                        `gorm:"column:description;not null"`
	CreatedAt   time.Time                     `gorm:"column:created_at;autoCreateTime"`
}

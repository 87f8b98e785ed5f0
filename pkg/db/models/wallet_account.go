package models

import (
	"time"

	"github.com/google/uuid"
)

// WalletAccount holds a user's stored-value balance. The balance is derived:
// it must always equal the signed sum of the account's transactions.
type WalletAccount struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID           `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BalanceCents int                 `gorm:"column:balance_cents;not null;default:0"`
	Transactions []WalletTransaction `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

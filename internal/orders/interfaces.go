package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/internal/coupons"
	"github.com/dcastillo/mercato-backend/internal/pricing"
	"github.com/dcastillo/mercato-backend/pkg/db/models"
	"github.com/dcastillo/mercato-backend/pkg/enums"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	// FindByIDLocked loads the order under FOR UPDATE so cancellation
	// serializes with competing cancels and status updates.
	FindByIDLocked(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}

// TxRunner runs a function inside a database transaction. Satisfied by
// pkg/db.Client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// catalogLoader is the slice of internal/catalog the orchestrator consumes.
type catalogLoader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
}

// stockLedger is the slice of internal/stock the orchestrator consumes.
type stockLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) (*models.StockRecord, error)
	Restore(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error
}

// priceResolver is the slice of internal/pricing the orchestrator consumes.
// Prices for all lines are resolved in one batch per order.
type priceResolver interface {
	EffectivePrices(ctx context.Context, keys []pricing.Key) (map[pricing.Key]int, error)
}

// couponService is the slice of internal/coupons the orchestrator consumes.
type couponService interface {
	Validate(ctx context.Context, userID uuid.UUID, code string, orderCents int) (*coupons.Discount, error)
	Apply(ctx context.Context, tx *gorm.DB, userID, couponID, orderID uuid.UUID, discount int) error
}

// walletService is the slice of internal/wallet the orchestrator consumes.
type walletService interface {
	Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amountCents int, source enums.WalletTransactionSource, description string) error
	Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amountCents int, source enums.WalletTransactionSource, description string) error
}

// cartClearer is the slice of internal/cart the orchestrator consumes.
type cartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

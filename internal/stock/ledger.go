package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db"
	"github.com/dcastillo/mercato-backend/pkg/db/models"
	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
)

// Ledger is the authoritative available-quantity record per (product,
// variant). All mutations run inside the caller's transaction under an
// exclusive row lock, so two checkouts racing for the same row serialize:
// the second waits, then re-reads the post-commit quantity.
type Ledger struct{}

// NewLedger builds the stock ledger.
func NewLedger() Ledger {
	return Ledger{}
}

// Reserve locks the stock row, verifies availability and decrements it.
// A missing row means the item was never stocked and fails the same way an
// empty row does.
func (Ledger) Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) (*models.StockRecord, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reserve quantity must be positive")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock reservation")
	}

	record, err := lockStockRecord(ctx, tx, productID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeInsufficientStock, "product %s has no stock record", productID)
		}
		return nil, db.TranslateLockError(err, "lock stock record")
	}

	if record.Quantity < qty {
		return nil, pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
			"product %s has %d in stock, %d requested", productID, record.Quantity, qty)
	}

	res := tx.WithContext(ctx).
		Model(&models.StockRecord{}).
		Where("id = ? AND quantity >= ?", record.ID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
			"product %s stock changed underneath reservation", productID)
	}

	record.Quantity -= qty
	return record, nil
}

// Restore increments the stock row. Used only on cancellation; no business
// check beyond the row existing.
func (Ledger) Restore(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "restore quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock restore")
	}

	res := scopeVariant(tx.WithContext(ctx).Model(&models.StockRecord{}).Where("product_id = ?", productID), variantID).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return db.TranslateLockError(res.Error, "increment stock")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "no stock record for product %s", productID)
	}
	return nil
}

func lockStockRecord(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) (*models.StockRecord, error) {
	var record models.StockRecord
	query := db.LockForUpdate(tx.WithContext(ctx)).Where("product_id = ?", productID)
	if err := scopeVariant(query, variantID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func scopeVariant(query *gorm.DB, variantID *uuid.UUID) *gorm.DB {
	if variantID == nil {
		return query.Where("variant_id IS NULL")
	}
	return query.Where("variant_id = ?", *variantID)
}

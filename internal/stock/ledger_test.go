package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db/models"
	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
)

func TestReserveDecrementsQuantity(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	productID := uuid.New()
	variantID := uuid.New()

	seedStock(t, conn, productID, nil, 5)
	seedStock(t, conn, productID, &variantID, 2)

	err := conn.Transaction(func(tx *gorm.DB) error {
		record, terr := ledger.Reserve(ctx, tx, productID, nil, 3)
		if terr != nil {
			return terr
		}
		if record.Quantity != 2 {
			t.Fatalf("expected remaining quantity 2, got %d", record.Quantity)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reserve transaction: %v", err)
	}

	if got := loadQuantity(t, conn, productID, nil); got != 2 {
		t.Fatalf("expected persisted quantity 2, got %d", got)
	}
	// The variant row is untouched.
	if got := loadQuantity(t, conn, productID, &variantID); got != 2 {
		t.Fatalf("variant quantity should be unchanged, got %d", got)
	}
}

func TestReserveInsufficientStock(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	productID := uuid.New()
	seedStock(t, conn, productID, nil, 1)

	err := conn.Transaction(func(tx *gorm.DB) error {
		_, terr := ledger.Reserve(ctx, tx, productID, nil, 2)
		return terr
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if got := loadQuantity(t, conn, productID, nil); got != 1 {
		t.Fatalf("failed reservation must not change stock, got %d", got)
	}
}

func TestReserveNeverStockedProduct(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ledger := NewLedger()

	err := conn.Transaction(func(tx *gorm.DB) error {
		_, terr := ledger.Reserve(context.Background(), tx, uuid.New(), nil, 1)
		return terr
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("missing stock row should read as insufficient stock, got %v", err)
	}
}

func TestReserveValidatesQuantity(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ledger := NewLedger()

	err := conn.Transaction(func(tx *gorm.DB) error {
		_, terr := ledger.Reserve(context.Background(), tx, uuid.New(), nil, 0)
		return terr
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// Two reservations racing for a single unit: the first wins, the second
// re-reads the post-commit quantity and fails. Final quantity is zero,
// never negative.
func TestCompetingReservationsSerialize(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	productID := uuid.New()
	seedStock(t, conn, productID, nil, 1)

	first := conn.Transaction(func(tx *gorm.DB) error {
		_, terr := ledger.Reserve(ctx, tx, productID, nil, 1)
		return terr
	})
	second := conn.Transaction(func(tx *gorm.DB) error {
		_, terr := ledger.Reserve(ctx, tx, productID, nil, 1)
		return terr
	})

	if first != nil {
		t.Fatalf("first reservation should succeed: %v", first)
	}
	if !pkgerrors.HasCode(second, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("second reservation should fail with insufficient stock, got %v", second)
	}
	if got := loadQuantity(t, conn, productID, nil); got != 0 {
		t.Fatalf("expected final quantity 0, got %d", got)
	}
}

func TestRestoreIncrementsQuantity(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger()
	productID := uuid.New()
	seedStock(t, conn, productID, nil, 2)

	err := conn.Transaction(func(tx *gorm.DB) error {
		return ledger.Restore(ctx, tx, productID, nil, 3)
	})
	if err != nil {
		t.Fatalf("restore transaction: %v", err)
	}
	if got := loadQuantity(t, conn, productID, nil); got != 5 {
		t.Fatalf("expected quantity 5 after restore, got %d", got)
	}
}

func TestRestoreMissingRow(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ledger := NewLedger()

	err := conn.Transaction(func(tx *gorm.DB) error {
		return ledger.Restore(context.Background(), tx, uuid.New(), nil, 1)
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:stock_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockRecord{}); err != nil {
		t.Fatalf("migrate stock: %v", err)
	}
	return conn
}

func seedStock(t *testing.T, conn *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, qty int) {
	t.Helper()
	record := models.StockRecord{ProductID: productID, VariantID: variantID, Quantity: qty}
	if err := conn.Create(&record).Error; err != nil {
		t.Fatalf("seed stock: %v", err)
	}
}

func loadQuantity(t *testing.T, conn *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) int {
	t.Helper()
	var record models.StockRecord
	query := conn.Where("product_id = ?", productID)
	if variantID == nil {
		query = query.Where("variant_id IS NULL")
	} else {
		query = query.Where("variant_id = ?", *variantID)
	}
	if err := query.First(&record).Error; err != nil {
		t.Fatalf("load stock: %v", err)
	}
	return record.Quantity
}

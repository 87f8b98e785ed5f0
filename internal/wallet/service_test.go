package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db/models"
	"github.com/dcastillo/mercato-backend/pkg/enums"
	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
)

func TestCreditCreatesAccountOnFirstDeposit(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()

	require.NoError(t, svc.TopUp(context.Background(), userID, 5000, "initial top-up"))

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 5000, balance)

	entries, err := svc.Transactions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 5000, entries[0].AmountCents)
	require.Equal(t, enums.WalletSourceTopUp, entries[0].Source)
}

func TestDebitWithdrawsAndAppendsEntry(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	require.NoError(t, svc.TopUp(context.Background(), userID, 10000, "seed"))

	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Debit(context.Background(), tx, userID, 6000, enums.WalletSourceOrderPayment, "order payment")
	})
	require.NoError(t, err)

	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 4000, balance)
	requireBalanceMatchesLedger(t, conn, userID)
}

func TestDebitInsufficientFunds(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	require.NoError(t, svc.TopUp(context.Background(), userID, 500, "seed"))

	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Debit(context.Background(), tx, userID, 501, enums.WalletSourceOrderPayment, "too much")
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientFunds), "got %v", err)

	// Failed debit leaves no trace in the ledger.
	balance, err := svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, 500, balance)
	entries, err := svc.Transactions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDebitMissingAccountIsInsufficientFunds(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Debit(context.Background(), tx, uuid.New(), 100, enums.WalletSourceOrderPayment, "no account")
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientFunds), "got %v", err)
}

func TestAmountMustBePositive(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	for _, amount := range []int{0, -100} {
		require.True(t, pkgerrors.HasCode(
			svc.TopUp(context.Background(), uuid.New(), amount, "bad"),
			pkgerrors.CodeValidation))
		err := conn.Transaction(func(tx *gorm.DB) error {
			return svc.Debit(context.Background(), tx, uuid.New(), amount, enums.WalletSourceOrderPayment, "bad")
		})
		require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	}
}

func TestBalanceAlwaysEqualsLedgerSum(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.TopUp(ctx, userID, 10000, "seed"))
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return svc.Debit(ctx, tx, userID, 2500, enums.WalletSourceOrderPayment, "order a")
	}))
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return svc.Credit(ctx, tx, userID, 2500, enums.WalletSourceOrderRefund, "refund a")
	}))
	require.NoError(t, conn.Transaction(func(tx *gorm.DB) error {
		return svc.Debit(ctx, tx, userID, 9000, enums.WalletSourceOrderPayment, "order b")
	}))

	balance, err := svc.Balance(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 1000, balance)
	requireBalanceMatchesLedger(t, conn, userID)
}

func TestBalanceForUnknownUserIsZero(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newTestDB(t))
	balance, err := svc.Balance(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Zero(t, balance)
}

func requireBalanceMatchesLedger(t *testing.T, conn *gorm.DB, userID uuid.UUID) {
	t.Helper()

	var account models.WalletAccount
	require.NoError(t, conn.Where("user_id = ?", userID).First(&account).Error)

	var sum int64
	require.NoError(t, conn.Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", account.ID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&sum).Error)
	require.EqualValues(t, account.BalanceCents, sum)
}

func newTestService(t *testing.T, conn *gorm.DB) *Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), conn)
	require.NoError(t, err)
	return svc
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:wallet_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.WalletAccount{}, &models.WalletTransaction{}))
	return conn
}

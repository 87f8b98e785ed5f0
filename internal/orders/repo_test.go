package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db/models"
	"github.com/dcastillo/mercato-backend/pkg/enums"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:ordersrepo_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}, &models.OrderItem{}))
	return conn
}

func TestRepositoryCreateAndFind(t *testing.T) {
	t.Parallel()

	conn := newRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := &models.Order{
		BuyerID:       uuid.New(),
		Status:        enums.OrderStatusPending,
		SubtotalCents: 2000,
		TotalCents:    2000,
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
		PaymentStatus: enums.PaymentStatusPending,
	}
	require.NoError(t, repo.CreateOrder(ctx, order))
	require.NotEqual(t, uuid.Nil, order.ID)

	items := []models.OrderItem{{
		OrderID:        order.ID,
		ProductID:      uuid.New(),
		VendorID:       uuid.New(),
		ProductName:    "Widget",
		ProductSKU:     "W-1",
		Qty:            2,
		UnitPriceCents: 1000,
		TotalCents:     2000,
	}}
	require.NoError(t, repo.CreateOrderItems(ctx, items))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	require.Equal(t, "Widget", found.Items[0].ProductName)

	locked, err := repo.FindByIDLocked(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, locked.Items, 1)

	_, err = repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateOrder(t *testing.T) {
	t.Parallel()

	conn := newRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := &models.Order{
		BuyerID:       uuid.New(),
		Status:        enums.OrderStatusPending,
		TotalCents:    100,
		PaymentMethod: enums.PaymentMethodWallet,
		PaymentStatus: enums.PaymentStatusPaid,
	}
	require.NoError(t, repo.CreateOrder(ctx, order))

	require.NoError(t, repo.UpdateOrder(ctx, order.ID, map[string]any{
		"status": enums.OrderStatusPaid,
	}))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusPaid, found.Status)
}

func TestRepositoryFindByBuyerOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	conn := newRepoTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	buyer := uuid.New()

	for i := 0; i < 3; i++ {
		order := &models.Order{
			BuyerID:       buyer,
			Status:        enums.OrderStatusPending,
			TotalCents:    100 * (i + 1),
			PaymentMethod: enums.PaymentMethodWallet,
			PaymentStatus: enums.PaymentStatusPending,
		}
		require.NoError(t, repo.CreateOrder(ctx, order))
	}

	list, err := repo.FindByBuyer(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, list, 3)
}

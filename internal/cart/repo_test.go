package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db/models"
)

func TestClearRemovesOnlyOwnItems(t *testing.T) {
	t.Parallel()

	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.CartItem{}))

	buyer := uuid.New()
	other := uuid.New()
	for _, userID := range []uuid.UUID{buyer, buyer, other} {
		item := models.CartItem{UserID: userID, ProductID: uuid.New(), Qty: 1}
		require.NoError(t, conn.Create(&item).Error)
	}

	repo := NewRepository(conn)
	require.NoError(t, repo.Clear(context.Background(), buyer))

	var count int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", buyer).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", other).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestClearOnEmptyCartIsNoop(t *testing.T) {
	t.Parallel()

	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.CartItem{}))

	require.NoError(t, NewRepository(conn).Clear(context.Background(), uuid.New()))
}

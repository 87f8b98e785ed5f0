package catalog

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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.ProductVariant{}))
	return conn
}

func TestFindProduct(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)

	product := models.Product{
		VendorID: uuid.New(),
		Name:     "Espresso Beans",
		SKU:      "BEAN-01",
		Status:   enums.ProductStatusActive,
		Visible:  true,
	}
	require.NoError(t, conn.Create(&product).Error)

	found, err := repo.FindProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, "Espresso Beans", found.Name)
	require.True(t, found.Orderable())

	_, err = repo.FindProduct(context.Background(), uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestFindVariant(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)

	variant := models.ProductVariant{
		ProductID: uuid.New(),
		Name:      "250g",
		SKU:       "BEAN-01-250",
		Active:    true,
	}
	require.NoError(t, conn.Create(&variant).Error)

	found, err := repo.FindVariant(context.Background(), variant.ID)
	require.NoError(t, err)
	require.Equal(t, variant.ProductID, found.ProductID)

	_, err = repo.FindVariant(context.Background(), uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

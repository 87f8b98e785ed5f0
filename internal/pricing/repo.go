package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db/models"
)

// Repository defines the price group reads the resolver needs.
type Repository interface {
	FindPriceGroup(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*models.PriceGroup, error)
	FindPriceGroupsByProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.PriceGroup, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindPriceGroup(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*models.PriceGroup, error) {
	var group models.PriceGroup
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if variantID == nil {
		query = query.Where("variant_id IS NULL")
	} else {
		query = query.Where("variant_id = ?", *variantID)
	}
	if err := query.First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repository) FindPriceGroupsByProducts(ctx context.Context, productIDs []uuid.UUID) ([]models.PriceGroup, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var groups []models.PriceGroup
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

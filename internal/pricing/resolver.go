package pricing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
	"github.com/dcastillo/mercato-backend/pkg/logger"
)

// Key identifies a priced offering. VariantID is uuid.Nil for simple
// products.
type Key struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
}

func (k Key) variantPtr() *uuid.UUID {
	if k.VariantID == uuid.Nil {
		return nil
	}
	variant := k.VariantID
	return &variant
}

// Resolver resolves the effective charge for a product/variant at order time.
type Resolver interface {
	EffectivePrice(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (int, error)
	// EffectivePrices resolves a whole set of cart lines in one round trip.
	// A key absent from the result has no price group.
	EffectivePrices(ctx context.Context, keys []Key) (map[Key]int, error)
}

// Cache is the slice of the redis client the resolver uses. Cache failures
// are logged and ignored; correctness never depends on it.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PriceKey(productID, variantID string) string
}

type resolver struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewResolver builds the price resolver. cache may be nil to disable caching.
func NewResolver(repo Repository, cache Cache, cacheTTL time.Duration, logg *logger.Logger) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	return &resolver{repo: repo, cache: cache, cacheTTL: cacheTTL, logg: logg}, nil
}

func (r *resolver) EffectivePrice(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (int, error) {
	if productID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	if cents, ok := r.cachedPrice(ctx, productID, variantID); ok {
		return cents, nil
	}

	group, err := r.repo.FindPriceGroup(ctx, productID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.Newf(pkgerrors.CodePriceNotFound, "no price group for product %s", productID)
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price group")
	}

	cents := group.EffectivePriceCents()
	r.storePrice(ctx, productID, variantID, cents)
	return cents, nil
}

func (r *resolver) EffectivePrices(ctx context.Context, keys []Key) (map[Key]int, error) {
	if len(keys) == 0 {
		return map[Key]int{}, nil
	}

	prices := make(map[Key]int, len(keys))
	missed := make([]Key, 0, len(keys))
	for _, key := range keys {
		if cents, ok := r.cachedPrice(ctx, key.ProductID, key.variantPtr()); ok {
			prices[key] = cents
			continue
		}
		missed = append(missed, key)
	}
	if len(missed) == 0 {
		return prices, nil
	}

	productIDs := make([]uuid.UUID, 0, len(missed))
	seen := make(map[uuid.UUID]struct{}, len(missed))
	for _, key := range missed {
		if _, ok := seen[key.ProductID]; ok {
			continue
		}
		seen[key.ProductID] = struct{}{}
		productIDs = append(productIDs, key.ProductID)
	}

	groups, err := r.repo.FindPriceGroupsByProducts(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price groups")
	}

	byKey := make(map[Key]int, len(groups))
	for _, group := range groups {
		key := Key{ProductID: group.ProductID}
		if group.VariantID != nil {
			key.VariantID = *group.VariantID
		}
		byKey[key] = group.EffectivePriceCents()
	}

	for _, key := range missed {
		if cents, ok := byKey[key]; ok {
			prices[key] = cents
			r.storePrice(ctx, key.ProductID, key.variantPtr(), cents)
		}
	}
	return prices, nil
}

func (r *resolver) cachedPrice(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (int, bool) {
	if r.cache == nil {
		return 0, false
	}
	raw, err := r.cache.Get(ctx, r.cacheKey(productID, variantID))
	if err != nil {
		return 0, false
	}
	cents, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return cents, true
}

func (r *resolver) storePrice(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, cents int) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, r.cacheKey(productID, variantID), strconv.Itoa(cents), r.cacheTTL); err != nil && r.logg != nil {
		r.logg.Warn(ctx, "price cache write failed: "+err.Error())
	}
}

func (r *resolver) cacheKey(productID uuid.UUID, variantID *uuid.UUID) string {
	variant := ""
	if variantID != nil {
		variant = variantID.String()
	}
	return r.cache.PriceKey(productID.String(), variant)
}

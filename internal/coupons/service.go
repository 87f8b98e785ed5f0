package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/pkg/db/models"
	"github.com/dcastillo/mercato-backend/pkg/enums"
	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
)

// Discount is a validated coupon ready to be applied to an order.
type Discount struct {
	CouponID uuid.UUID
	Cents    int
}

// Service validates coupon codes against an order amount and applies them
// inside the order-creation transaction.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the coupon service.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &Service{repo: repo, now: time.Now}, nil
}

// Validate resolves a coupon code against the order amount. Every rejection
// surfaces as INVALID_COUPON so callers don't leak which rule failed to
// guessing clients; the message carries the detail for logs.
func (s *Service) Validate(ctx context.Context, userID uuid.UUID, code string, orderCents int) (*Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}
	if orderCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount cannot be negative")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeInvalidCoupon, "unknown coupon code %q", code)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if err := s.check(ctx, s.repo, coupon, userID, orderCents); err != nil {
		return nil, err
	}

	return &Discount{
		CouponID: coupon.ID,
		Cents:    discountCents(coupon, orderCents),
	}, nil
}

// Apply consumes the coupon for an order. It must run inside the order
// transaction: the coupon row is locked, limits are re-counted under the
// lock, and the usage row is inserted before commit.
func (s *Service) Apply(ctx context.Context, tx *gorm.DB, userID, couponID, orderID uuid.UUID, discount int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "coupon apply requires a transaction")
	}

	repo := s.repo.WithTx(tx)
	coupon, err := repo.FindByIDLocked(ctx, couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeInvalidCoupon, "coupon %s no longer exists", couponID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock coupon")
	}

	// Limits are re-checked under the row lock: a competing order may have
	// consumed the last usage between Validate and here.
	if err := s.checkLimits(ctx, repo, coupon, userID); err != nil {
		return err
	}

	usage := models.CouponUsage{
		CouponID:      coupon.ID,
		UserID:        userID,
		OrderID:       orderID,
		DiscountCents: discount,
	}
	if err := repo.CreateUsage(ctx, &usage); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record coupon usage")
	}
	return nil
}

func (s *Service) check(ctx context.Context, repo Repository, coupon *models.Coupon, userID uuid.UUID, orderCents int) error {
	if !coupon.Active {
		return pkgerrors.Newf(pkgerrors.CodeInvalidCoupon, "coupon %q is inactive", coupon.Code)
	}

	now := s.now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return pkgerrors.Newf(pkgerrors.CodeInvalidCoupon, "coupon %q is not active yet", coupon.Code)
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return pkgerrors.Newf(pkgerrors.CodeInvalidCoupon, "coupon %q has expired", coupon.Code)
	}

	if orderCents < coupon.MinOrderCents {
		return pkgerrors.Newf(pkgerrors.CodeInvalidCoupon,
			"order total %d below coupon minimum %d", orderCents, coupon.MinOrderCents)
	}

	return s.checkLimits(ctx, repo, coupon, userID)
}

func (s *Service) checkLimits(ctx context.Context, repo Repository, coupon *models.Coupon, userID uuid.UUID) error {
	if coupon.UsageLimit != nil {
		used, err := repo.CountUsages(ctx, coupon.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon usages")
		}
		if used >= int64(*coupon.UsageLimit) {
			return pkgerrors.Newf(pkgerrors.CodeInvalidCoupon, "coupon %q usage limit reached", coupon.Code)
		}
	}

	if coupon.PerUserLimit != nil {
		used, err := repo.CountUserUsages(ctx, coupon.ID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count user coupon usages")
		}
		if used >= int64(*coupon.PerUserLimit) {
			return pkgerrors.Newf(pkgerrors.CodeInvalidCoupon, "coupon %q already used by this account", coupon.Code)
		}
	}

	return nil
}

// discountCents computes the discount for the order amount. Fixed coupons
// store cents; percent coupons store basis points (e.g. 1550 = 15.5%).
// The result never exceeds the order amount.
func discountCents(coupon *models.Coupon, orderCents int) int {
	var cents int
	switch coupon.DiscountType {
	case enums.DiscountTypePercent:
		rounded := decimal.NewFromInt(int64(orderCents)).
			Mul(decimal.NewFromInt(int64(coupon.DiscountValue))).
			Div(decimal.NewFromInt(10000)).
			Round(0)
		cents = int(rounded.IntPart())
	default:
		cents = coupon.DiscountValue
	}
	if cents > orderCents {
		cents = orderCents
	}
	if cents < 0 {
		cents = 0
	}
	return cents
}

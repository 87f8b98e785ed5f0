package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastillo/mercato-backend/internal/pricing"
	"github.com/dcastillo/mercato-backend/pkg/db/models"
	"github.com/dcastillo/mercato-backend/pkg/enums"
	pkgerrors "github.com/dcastillo/mercato-backend/pkg/errors"
	"github.com/dcastillo/mercato-backend/pkg/logger"
	"github.com/dcastillo/mercato-backend/pkg/metrics"
)

// Service orchestrates order creation and cancellation. Each operation runs
// as one database transaction: stock, coupon usage, wallet ledger and the
// order itself commit together or not at all. The only work outside the
// transaction is the post-commit cart clear, which is best-effort.
type Service struct {
	tx       TxRunner
	repo     Repository
	catalog  catalogLoader
	stock    stockLedger
	prices   priceResolver
	coupons  couponService
	wallet   walletService
	cart     cartClearer
	validate *validator.Validate
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
}

// Deps wires the orchestrator. Cart, logger and metrics are optional;
// everything else is required.
type Deps struct {
	Tx      TxRunner
	Repo    Repository
	Catalog catalogLoader
	Stock   stockLedger
	Prices  priceResolver
	Coupons couponService
	Wallet  walletService
	Cart    cartClearer
	Logger  *logger.Logger
	Metrics *metrics.CheckoutMetrics
}

// NewService builds the order orchestrator.
func NewService(deps Deps) (*Service, error) {
	switch {
	case deps.Tx == nil:
		return nil, fmt.Errorf("tx runner required")
	case deps.Repo == nil:
		return nil, fmt.Errorf("order repository required")
	case deps.Catalog == nil:
		return nil, fmt.Errorf("catalog loader required")
	case deps.Stock == nil:
		return nil, fmt.Errorf("stock ledger required")
	case deps.Prices == nil:
		return nil, fmt.Errorf("price resolver required")
	case deps.Coupons == nil:
		return nil, fmt.Errorf("coupon service required")
	case deps.Wallet == nil:
		return nil, fmt.Errorf("wallet service required")
	}
	return &Service{
		tx:       deps.Tx,
		repo:     deps.Repo,
		catalog:  deps.Catalog,
		stock:    deps.Stock,
		prices:   deps.Prices,
		coupons:  deps.Coupons,
		wallet:   deps.Wallet,
		cart:     deps.Cart,
		validate: validator.New(),
		logg:     deps.Logger,
		metrics:  deps.Metrics,
	}, nil
}

// Create places an order in a single transaction. On commit the buyer's cart
// is cleared best-effort; a cart failure is logged and never fails the order.
func (s *Service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	started := time.Now()

	if err := s.checkInput(input); err != nil {
		s.metrics.IncFailure(failureReason(err))
		return nil, err
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		built, err := s.createInTx(ctx, tx, input)
		if err != nil {
			return err
		}
		order = built
		return nil
	})
	s.metrics.ObserveDuration("create", time.Since(started))
	if err != nil {
		s.metrics.IncFailure(failureReason(err))
		s.logRollback(ctx, "order create rolled back", err)
		return nil, err
	}
	s.metrics.IncCreated()

	if input.ClearCart && s.cart != nil {
		if err := s.cart.Clear(ctx, input.BuyerID); err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "post-commit cart clear failed", err)
		}
	}
	return order, nil
}

func (s *Service) createInTx(ctx context.Context, tx *gorm.DB, input CreateOrderInput) (*models.Order, error) {
	keys := make([]pricing.Key, 0, len(input.Items))
	for _, line := range input.Items {
		key := pricing.Key{ProductID: line.ProductID}
		if line.VariantID != nil {
			key.VariantID = *line.VariantID
		}
		keys = append(keys, key)
	}
	prices, err := s.prices.EffectivePrices(ctx, keys)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	subtotal := 0
	for i, line := range input.Items {
		item, err := s.buildLine(ctx, tx, line)
		if err != nil {
			return nil, err
		}
		unitPrice, ok := prices[keys[i]]
		if !ok {
			return nil, pkgerrors.Newf(pkgerrors.CodePriceNotFound,
				"no price group for product %s", line.ProductID)
		}
		item.UnitPriceCents = unitPrice
		item.TotalCents = unitPrice * line.Qty
		subtotal += item.TotalCents
		items = append(items, *item)
	}

	var couponID *uuid.UUID
	discount := 0
	if input.CouponCode != nil {
		validated, err := s.coupons.Validate(ctx, input.BuyerID, *input.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		couponID = &validated.CouponID
		discount = validated.Cents
	}

	taxCents, shippingCents := 0, 0
	total := subtotal + taxCents + shippingCents - discount
	if total < 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeInvalidTotal,
			"order total %d is negative (subtotal %d, discount %d)", total, subtotal, discount)
	}

	paymentStatus := enums.PaymentStatusPending
	if input.PaymentMethod == enums.PaymentMethodWallet && total > 0 {
		err := s.wallet.Debit(ctx, tx, input.BuyerID, total, enums.WalletSourceOrderPayment, "order payment")
		if err != nil {
			return nil, err
		}
		paymentStatus = enums.PaymentStatusPaid
	}
	if input.PaymentMethod == enums.PaymentMethodWallet && total == 0 {
		paymentStatus = enums.PaymentStatusPaid
	}

	order := &models.Order{
		BuyerID:         input.BuyerID,
		Status:          enums.OrderStatusPending,
		SubtotalCents:   subtotal,
		TaxCents:        taxCents,
		ShippingCents:   shippingCents,
		DiscountCents:   discount,
		TotalCents:      total,
		CouponID:        couponID,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Notes:           input.Notes,
	}

	repo := s.repo.WithTx(tx)
	if err := repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := repo.CreateOrderItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order items")
	}
	order.Items = items

	if couponID != nil {
		if err := s.coupons.Apply(ctx, tx, input.BuyerID, *couponID, order.ID, discount); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// buildLine verifies the catalog entry, reserves stock and snapshots the
// line identity. The caller fills in the resolved price.
func (s *Service) buildLine(ctx context.Context, tx *gorm.DB, line CreateOrderItemInput) (*models.OrderItem, error) {
	product, err := s.catalog.FindProduct(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Orderable() {
		return nil, pkgerrors.Newf(pkgerrors.CodeUnavailable, "product %s is not available", product.ID)
	}

	sku := product.SKU
	name := product.Name
	if line.VariantID != nil {
		variant, err := s.catalog.FindVariant(ctx, *line.VariantID)
		if err != nil {
			return nil, err
		}
		if variant.ProductID != product.ID {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound,
				"variant %s does not belong to product %s", variant.ID, product.ID)
		}
		if !variant.Active {
			return nil, pkgerrors.Newf(pkgerrors.CodeUnavailable, "variant %s is not available", variant.ID)
		}
		sku = variant.SKU
		name = fmt.Sprintf("%s (%s)", product.Name, variant.Name)
	}

	if _, err := s.stock.Reserve(ctx, tx, line.ProductID, line.VariantID, line.Qty); err != nil {
		return nil, err
	}

	return &models.OrderItem{
		ProductID:   line.ProductID,
		VariantID:   line.VariantID,
		VendorID:    product.VendorID,
		ProductName: name,
		ProductSKU:  sku,
		Qty:         line.Qty,
	}, nil
}

// Cancel reverses a pending order in a single transaction: every item's
// stock is restored and a wallet payment is refunded in full.
func (s *Service) Cancel(ctx context.Context, orderID, buyerID uuid.UUID) error {
	started := time.Now()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.cancelInTx(ctx, tx, orderID, buyerID)
	})
	s.metrics.ObserveDuration("cancel", time.Since(started))
	if err != nil {
		s.metrics.IncFailure(failureReason(err))
		s.logRollback(s.withOrderID(ctx, orderID), "order cancel rolled back", err)
		return err
	}
	s.metrics.IncCancelled()
	return nil
}

// logRollback records a failed transaction with the full error chain so
// rollbacks are diagnosable without re-running the request.
func (s *Service) logRollback(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	dump := pkgerrors.Dump(err)
	fields := map[string]any{"chain": dump.Chain}
	if dump.Code != "" {
		fields["code"] = string(dump.Code)
	}
	if dump.PGCode != "" {
		fields["pg_code"] = dump.PGCode
	}
	s.logg.Error(s.logg.WithFields(ctx, fields), msg, err)
}

func (s *Service) withOrderID(ctx context.Context, orderID uuid.UUID) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithOrderID(ctx, orderID.String())
}

func (s *Service) cancelInTx(ctx context.Context, tx *gorm.DB, orderID, buyerID uuid.UUID) error {
	repo := s.repo.WithTx(tx)
	order, err := repo.FindByIDLocked(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", orderID)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.BuyerID != buyerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another buyer")
	}
	if order.Status != enums.OrderStatusPending {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"order %s is %s, only pending orders can be cancelled", orderID, order.Status)
	}

	for _, item := range order.Items {
		if err := s.stock.Restore(ctx, tx, item.ProductID, item.VariantID, item.Qty); err != nil {
			return err
		}
	}

	if order.PaymentMethod == enums.PaymentMethodWallet &&
		order.PaymentStatus == enums.PaymentStatusPaid && order.TotalCents > 0 {
		err := s.wallet.Credit(ctx, tx, order.BuyerID, order.TotalCents,
			enums.WalletSourceOrderRefund, fmt.Sprintf("refund for order %s", order.ID))
		if err != nil {
			return err
		}
	}

	now := time.Now()
	return repo.UpdateOrder(ctx, order.ID, map[string]any{
		"status":       enums.OrderStatusCancelled,
		"cancelled_at": &now,
	})
}

// UpdateStatus moves an order through the fulfillment states. It is a plain
// field update: cancellation must go through Cancel so stock and wallet are
// reconciled.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", status)
	}
	if status == enums.OrderStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeValidation, "use Cancel to cancel an order")
	}
	if _, err := s.FindOne(ctx, orderID); err != nil {
		return err
	}
	if err := s.repo.UpdateOrder(ctx, orderID, map[string]any{"status": status}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return nil
}

// FindOne loads an order with its items.
func (s *Service) FindOne(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", orderID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// FindAll lists a buyer's orders, newest first.
func (s *Service) FindAll(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	list, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *Service) checkInput(input CreateOrderInput) error {
	if err := s.validate.Struct(input); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order input")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid payment method %q", input.PaymentMethod)
	}
	if input.ShippingAddress != nil {
		if missing := input.ShippingAddress.Validate(); missing != "" {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "shipping address missing %s", missing)
		}
	}
	if input.BillingAddress != nil {
		if missing := input.BillingAddress.Validate(); missing != "" {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "billing address missing %s", missing)
		}
	}
	return nil
}

func failureReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return "unknown"
}

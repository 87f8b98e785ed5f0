package orders

import (
	"github.com/google/uuid"

	"github.com/dcastillo/mercato-backend/pkg/enums"
	"github.com/dcastillo/mercato-backend/pkg/types"
)

// CreateOrderItemInput is one requested order line.
type CreateOrderItemInput struct {
	ProductID uuid.UUID  `validate:"required"`
	VariantID *uuid.UUID `validate:"omitempty"`
	Qty       int        `validate:"required,gt=0"`
}

// CreateOrderInput carries everything the orchestrator needs to place an
// order. Callers (transport layer, jobs) build it; the service validates it.
type CreateOrderInput struct {
	BuyerID         uuid.UUID              `validate:"required"`
	Items           []CreateOrderItemInput `validate:"required,min=1,dive"`
	CouponCode      *string                `validate:"omitempty,min=1"`
	PaymentMethod   enums.PaymentMethod    `validate:"required"`
	ShippingAddress *types.Address
	BillingAddress  *types.Address
	Notes           *string
	// ClearCart requests a best-effort cart clear after commit.
	ClearCart bool
}

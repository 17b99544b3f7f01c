package ports

import (
	"context"

	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
)

// BackendClient is the commerce backend REST API as consumed by this service.
type BackendClient interface {
	Products(ctx context.Context) ([]entity.Product, error)
	Me(ctx context.Context) (*entity.User, error)
	UpdateMe(ctx context.Context, update *entity.ProfileUpdate) (*entity.User, error)
	Orders(ctx context.Context) ([]entity.PlacedOrder, error)
	CreateOrder(ctx context.Context, submission *entity.OrderSubmission, idempotencyKey string) (*entity.CreatedOrder, error)
	CompletePayment(ctx context.Context, transactionUID, merchantUID string) (*entity.PaymentConfirmation, error)
	AddCartItem(ctx context.Context, productID, quantity int64) error
}

// PaymentGateway opens a payment session with the external gateway.
// The call is fire-and-forget: the outcome arrives later as a callback
// carrying a PaymentResult, not as a return value.
type PaymentGateway interface {
	OpenSession(ctx context.Context, req *entity.PaymentRequest) error
}

// ProductCatalog resolves products for checkout initialization.
type ProductCatalog interface {
	Products(ctx context.Context) ([]entity.Product, error)
	Product(ctx context.Context, id int64) (entity.Product, error)
}

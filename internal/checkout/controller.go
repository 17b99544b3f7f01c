package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/joooonis/incourserun-checkout/internal/checkout/checkoutlog"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/ports"
)

// Controller sequences the steps of placing and confirming a paid order:
// load product and profile, compute totals, collect and validate input,
// submit the order, open the gateway session, and settle the callback.
type Controller struct {
	backend     ports.BackendClient
	gateway     ports.PaymentGateway
	catalog     ports.ProductCatalog
	sessions    *Store
	pending     *PendingPayments
	logRepo     checkoutlog.Repository // nil-safe
	redirectURL string
	retention   time.Duration
}

// settledRetention is how long a settled session stays pollable after its
// flow finishes. The client redirects 3 s after seeing PAID; the margin
// covers slow pollers.
const settledRetention = 15 * time.Minute

// NewController wires the flow controller. logRepo may be nil, in which case
// attempt transitions are not persisted.
func NewController(
	backend ports.BackendClient,
	gateway ports.PaymentGateway,
	catalog ports.ProductCatalog,
	logRepo checkoutlog.Repository,
	redirectURL string,
) *Controller {
	return &Controller{
		backend:     backend,
		gateway:     gateway,
		catalog:     catalog,
		sessions:    NewStore(),
		pending:     NewPendingPayments(),
		logRepo:     logRepo,
		redirectURL: redirectURL,
		retention:   settledRetention,
	}
}

// StartSession opens a checkout for productID x quantity. An unknown product
// id is an explicit error, not a silently empty session. A profile fetch
// failure leaves the orderer blank but does not block checkout: the shipping
// form is what the submission is built from.
func (c *Controller) StartSession(ctx context.Context, productID, quantity int64) (*Session, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	product, err := c.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	var orderer entity.Orderer
	if user, err := c.backend.Me(ctx); err != nil {
		slog.WarnContext(ctx, "failed to load orderer profile, starting checkout with empty orderer", "error", err)
	} else {
		orderer = entity.Orderer{
			Name:          user.Name,
			Phone:         user.Phone,
			Address:       user.Address,
			AddressDetail: user.AddressDetail,
		}
	}

	session := NewSession(product, quantity, orderer)
	c.sessions.Put(session)
	return session, nil
}

// Session looks up an open session by id.
func (c *Controller) Session(id string) (*Session, error) {
	return c.sessions.Get(id)
}

// Pay validates the session and, if submission is enabled, launches the
// detached flow. It returns once the attempt is underway; callers poll the
// session for the outcome.
func (c *Controller) Pay(ctx context.Context, id string) (*Session, error) {
	session, err := c.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	if verr := session.Validate(); verr != nil {
		return nil, verr
	}
	if err := session.Begin(); err != nil {
		return nil, err
	}

	payload := ""
	if b, err := json.Marshal(session.Submission()); err == nil {
		payload = string(b)
	}

	steps := []Step{
		NewCreateOrderStep(c.backend, session),
		NewOpenPaymentStep(c.gateway, c.pending, session, c.redirectURL),
		NewConfirmPaymentStep(c.backend, c.pending, session),
	}
	flow := NewFlow(session.ID(), steps, c.logRepo, payload)

	// Detach from the request context so the flow is not cancelled when the
	// HTTP response is sent, while still propagating tracing metadata.
	go func(ctx context.Context) {
		if err := flow.Start(ctx); err != nil {
			slog.ErrorContext(ctx, "checkout flow failed", "checkout_id", session.ID(), "error", err)
		}
		// Settled sessions stay pollable for a while, then are dropped.
		time.Sleep(c.retention)
		c.sessions.Delete(session.ID())
	}(context.WithoutCancel(ctx))

	return session, nil
}

// HandleCallback routes a gateway result to the flow waiting on it.
func (c *Controller) HandleCallback(ctx context.Context, result entity.PaymentResult) error {
	slog.InfoContext(ctx, "payment gateway callback",
		"merchant_uid", result.MerchantUID, "success", result.Success)
	return c.pending.Resolve(result)
}

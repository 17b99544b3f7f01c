package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/ports"
)

// PaymentWindow bounds how long a flow waits for the gateway callback.
// Gateway sessions expire long before this; the bound keeps an abandoned
// payment window from pinning its goroutine forever.
const PaymentWindow = time.Hour

// --- CreateOrderStep ---

// CreateOrderStep posts the order record to the backend and captures the
// server-assigned merchant uid. The session's idempotency key rides along so
// a retried POST cannot create a duplicate order.
type CreateOrderStep struct {
	backend ports.BackendClient
	session *Session
}

func NewCreateOrderStep(backend ports.BackendClient, session *Session) *CreateOrderStep {
	return &CreateOrderStep{backend: backend, session: session}
}

func (s *CreateOrderStep) Name() string { return "Create_Order_Step" }

func (s *CreateOrderStep) Execute(ctx context.Context) error {
	created, err := s.backend.CreateOrder(ctx, s.session.Submission(), s.session.IdempotencyKey())
	if err != nil {
		s.session.Fail("주문 생성에 실패했습니다")
		return fmt.Errorf("failed to create order: %w", err)
	}
	s.session.OrderCreated(created.MerchantUID)
	return nil
}

func (s *CreateOrderStep) Compensate(ctx context.Context) error {
	// The backend exposes no order-cancel endpoint to this service; the
	// order stays PENDING server-side and is never paid.
	return nil
}

// --- OpenPaymentStep ---

// OpenPaymentStep registers a pending slot for the merchant uid and opens
// the gateway session. The gateway answers asynchronously via callback;
// this step only hands the session over.
type OpenPaymentStep struct {
	gateway     ports.PaymentGateway
	pending     *PendingPayments
	session     *Session
	redirectURL string
}

func NewOpenPaymentStep(gateway ports.PaymentGateway, pending *PendingPayments, session *Session, redirectURL string) *OpenPaymentStep {
	return &OpenPaymentStep{
		gateway:     gateway,
		pending:     pending,
		session:     session,
		redirectURL: redirectURL,
	}
}

func (s *OpenPaymentStep) Name() string { return "Open_Payment_Step" }

func (s *OpenPaymentStep) Execute(ctx context.Context) error {
	merchantUID := s.session.MerchantUID()

	// Register before opening so an early callback cannot race the slot.
	if err := s.pending.Register(merchantUID); err != nil {
		s.session.Fail("결제창을 열 수 없습니다")
		return err
	}

	if err := s.gateway.OpenSession(ctx, s.session.PaymentRequest(s.redirectURL)); err != nil {
		s.pending.Cancel(merchantUID)
		s.session.Fail("결제창을 열 수 없습니다")
		return fmt.Errorf("payment gateway error: %w", err)
	}
	return nil
}

func (s *OpenPaymentStep) Compensate(ctx context.Context) error {
	s.pending.Cancel(s.session.MerchantUID())
	return nil
}

// --- ConfirmPaymentStep ---

// ConfirmPaymentStep waits for the gateway callback and, on success, posts
// the transaction to the payment-confirmation endpoint. Only a backend
// status of "paid" completes the session; a declined payment or a
// confirmation mismatch is terminal.
type ConfirmPaymentStep struct {
	backend ports.BackendClient
	pending *PendingPayments
	session *Session
	window  time.Duration
}

func NewConfirmPaymentStep(backend ports.BackendClient, pending *PendingPayments, session *Session) *ConfirmPaymentStep {
	return &ConfirmPaymentStep{
		backend: backend,
		pending: pending,
		session: session,
		window:  PaymentWindow,
	}
}

func (s *ConfirmPaymentStep) Name() string { return "Confirm_Payment_Step" }

func (s *ConfirmPaymentStep) Execute(ctx context.Context) error {
	merchantUID := s.session.MerchantUID()

	ctx, cancel := context.WithTimeout(ctx, s.window)
	defer cancel()

	result, err := s.pending.Await(ctx, merchantUID)
	if err != nil {
		s.session.Fail("결제가 완료되지 않았습니다")
		return fmt.Errorf("waiting for payment result of %s: %w", merchantUID, err)
	}

	if !result.Success {
		s.session.Fail("결제 실패: " + result.ErrorMessage)
		return fmt.Errorf("payment declined for %s: %s", merchantUID, result.ErrorMessage)
	}

	confirmation, err := s.backend.CompletePayment(ctx, result.TransactionUID, result.MerchantUID)
	if err != nil {
		s.session.Fail("결제 확인에 실패했습니다")
		return fmt.Errorf("payment confirmation error: %w", err)
	}
	if confirmation.Status != entity.PaymentStatusPaid {
		s.session.Fail("결제 확인에 실패했습니다")
		return fmt.Errorf("payment for %s not confirmed: status %q", merchantUID, confirmation.Status)
	}

	s.session.Complete(confirmation.Order.ID)
	return nil
}

func (s *ConfirmPaymentStep) Compensate(ctx context.Context) error {
	// Last step; a confirmed payment is never unwound from here.
	return nil
}

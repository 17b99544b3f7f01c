package checkout

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joooonis/incourserun-checkout/internal/pkg/krformat"
	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
)

// Status is the lifecycle state of one checkout attempt.
type Status string

const (
	// StatusOpen: the form is being filled in.
	StatusOpen Status = "OPEN"
	// StatusSubmitted: pay was triggered, the order record is being created.
	StatusSubmitted Status = "SUBMITTED"
	// StatusAwaitingPayment: the gateway session is open, waiting for its callback.
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	// StatusPaid: the backend confirmed the payment.
	StatusPaid Status = "PAID"
	// StatusFailed: terminal for this attempt; the user must start over.
	StatusFailed Status = "FAILED"
)

// RedirectDelay is how long the confirmation screen stays up before the
// client navigates to the order-confirmation route.
const RedirectDelay = 3 * time.Second

var (
	ErrAlreadySubmitted = errors.New("checkout already submitted")
	ErrSubmitDisabled   = errors.New("submission is not enabled")
)

// FieldError is a single inline validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates the per-field failures of one validation pass.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// OrdererPatch updates orderer fields; nil pointers leave a field untouched.
// LookupAddress/LookupZipcode hold the result of a postcode lookup, kept
// separate from the typed street address.
type OrdererPatch struct {
	Name          *string
	Phone         *string
	Address       *string
	AddressDetail *string
	LookupAddress *string
	LookupZipcode *string
}

// ShippingPatch updates shipping fields; nil pointers leave a field untouched.
type ShippingPatch struct {
	Name          *string
	Phone         *string
	Address       *string
	AddressDetail *string
	Zipcode       *string
	Request       *string
}

// Session is the in-progress state of a single checkout visit. All mutable
// state of the flow is confined here; methods are safe for the handler
// goroutine and the detached flow goroutine to share.
type Session struct {
	mu sync.Mutex

	id             string
	idempotencyKey string
	createdAt      time.Time

	product  entity.Product
	quantity int64
	totals   Totals

	orderer       entity.Orderer
	lookupAddress string
	lookupZipcode string
	shipping      entity.ShippingInfo
	gate          SubmitGate

	status         Status
	merchantUID    string
	orderID        int64
	failureMessage string
}

// NewSession opens a checkout for one product line item. The orderer is
// prefilled from the signed-in user's profile.
func NewSession(product entity.Product, quantity int64, orderer entity.Orderer) *Session {
	return &Session{
		id:             uuid.NewString(),
		idempotencyKey: uuid.NewString(),
		createdAt:      time.Now().UTC(),
		product:        product,
		quantity:       quantity,
		totals:         ComputeTotals(product.Price, quantity),
		orderer:        orderer,
		status:         StatusOpen,
	}
}

func (s *Session) ID() string { return s.id }

// IdempotencyKey is sent with the order submission so a retried POST cannot
// create a duplicate order record.
func (s *Session) IdempotencyKey() string { return s.idempotencyKey }

func (s *Session) MerchantUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.merchantUID
}

// PatchOrderer applies non-nil orderer fields.
func (s *Session) PatchOrderer(p OrdererPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Name != nil {
		s.orderer.Name = *p.Name
	}
	if p.Phone != nil {
		s.orderer.Phone = krformat.FormatPhone(*p.Phone)
	}
	if p.Address != nil {
		s.orderer.Address = *p.Address
	}
	if p.AddressDetail != nil {
		s.orderer.AddressDetail = *p.AddressDetail
	}
	if p.LookupAddress != nil {
		s.lookupAddress = *p.LookupAddress
	}
	if p.LookupZipcode != nil {
		s.lookupZipcode = *p.LookupZipcode
	}
}

// PatchShipping applies non-nil shipping fields.
func (s *Session) PatchShipping(p ShippingPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Name != nil {
		s.shipping.Name = *p.Name
	}
	if p.Phone != nil {
		// Raw keypad input is re-masked into dashed segments, the same
		// normalization the phone fields apply while typing.
		s.shipping.Phone = krformat.FormatPhone(*p.Phone)
	}
	if p.Address != nil {
		s.shipping.Address = *p.Address
	}
	if p.AddressDetail != nil {
		s.shipping.AddressDetail = *p.AddressDetail
	}
	if p.Zipcode != nil {
		s.shipping.Zipcode = *p.Zipcode
	}
	if p.Request != nil {
		s.shipping.Request = *p.Request
	}
}

// MatchOrderer handles the "same as orderer" toggle. Enabled copies the
// orderer fields into shipping, preferring the postcode-lookup address when
// the orderer has no typed street address. Disabled clears every shipping
// field, so toggling on then off always restores an empty form.
func (s *Session) MatchOrderer(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !enabled {
		s.shipping = entity.ShippingInfo{}
		return
	}

	sh := entity.ShippingInfo{
		Name:          s.orderer.Name,
		Phone:         s.orderer.Phone,
		Address:       s.orderer.Address,
		AddressDetail: s.orderer.AddressDetail,
	}
	if sh.Address == "" {
		sh.Address = s.lookupAddress
	}
	if s.lookupZipcode != "" {
		sh.Zipcode = s.lookupZipcode
	}
	s.shipping = sh
}

// SetPayMethod records the payment-method checkbox and returns the
// recomputed submit state.
func (s *Session) SetPayMethod(checked bool) SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.SetPayMethod(checked)
	return s.gate.State()
}

// SetConsent records the personal-data consent checkbox and returns the
// recomputed submit state.
func (s *Session) SetConsent(checked bool) SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate.SetConsent(checked)
	return s.gate.State()
}

// Validate checks the required fields. A nil return means the form can be
// submitted once the gate is ready.
func (s *Session) Validate() *ValidationError {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fields []FieldError
	if s.shipping.Name == "" {
		fields = append(fields, FieldError{Field: "shippingName", Reason: "required"})
	}
	switch {
	case s.shipping.Phone == "":
		fields = append(fields, FieldError{Field: "shippingPhone", Reason: "required"})
	case !krformat.ValidPhone(s.shipping.Phone):
		fields = append(fields, FieldError{Field: "shippingPhone", Reason: "invalid phone number"})
	}
	if s.shipping.Address == "" {
		fields = append(fields, FieldError{Field: "shippingAddress", Reason: "required"})
	}
	if s.shipping.AddressDetail == "" {
		fields = append(fields, FieldError{Field: "shippingAddressDetail", Reason: "required"})
	}
	if !s.gate.PayMethodSelected() {
		fields = append(fields, FieldError{Field: "payMethod", Reason: "required"})
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Begin transitions Open -> Submitted. It guards against double submission
// and against submitting with the gate not ready.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusOpen {
		return ErrAlreadySubmitted
	}
	if !s.gate.Ready() {
		return ErrSubmitDisabled
	}
	s.status = StatusSubmitted
	return nil
}

// OrderCreated records the backend-assigned merchant uid and moves the
// session to AwaitingPayment.
func (s *Session) OrderCreated(merchantUID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merchantUID = merchantUID
	s.status = StatusAwaitingPayment
}

// Complete marks the payment confirmed for the given order id.
func (s *Session) Complete(orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderID = orderID
	s.status = StatusPaid
}

// Fail marks the attempt terminally failed with a user-visible message.
func (s *Session) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusFailed
	s.failureMessage = message
}

// Submission assembles the order record from the current state.
func (s *Session) Submission() *entity.OrderSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &entity.OrderSubmission{
		ShippingInfo: s.shipping,
		OrderProducts: []entity.OrderProduct{{
			Product:  s.product.ID,
			Quantity: s.quantity,
			Price:    s.product.Price,
		}},
		TotalPrice:  s.totals.TotalPrice,
		DeliveryFee: s.totals.DeliveryFee,
		TotalPaid:   s.totals.TotalPaid,
		PayMethod:   entity.PayMethodCard,
	}
}

// PaymentRequest builds the gateway session payload.
func (s *Session) PaymentRequest(redirectURL string) *entity.PaymentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &entity.PaymentRequest{
		PG:            "html5_inicis",
		PayMethod:     "card",
		MerchantUID:   s.merchantUID,
		Amount:        s.totals.TotalPaid,
		Name:          s.product.Name,
		BuyerName:     s.shipping.Name,
		BuyerTel:      s.shipping.Phone,
		BuyerAddr:     s.shipping.Address,
		BuyerPostcode: s.shipping.Zipcode,
		RedirectURL:   redirectURL,
	}
}

// View is an immutable snapshot of a session for the HTTP layer.
type View struct {
	ID       string
	Status   Status
	Product  entity.Product
	Quantity int64
	Totals   Totals

	Orderer       entity.Orderer
	LookupAddress string
	LookupZipcode string
	Shipping      entity.ShippingInfo

	SubmitState       SubmitState
	PayMethodSelected bool
	ConsentGiven      bool

	MerchantUID    string
	OrderID        int64
	FailureMessage string
}

// RedirectURL is the order-confirmation route for a paid session,
// empty otherwise.
func (v View) RedirectURL() string {
	if v.Status != StatusPaid {
		return ""
	}
	return fmt.Sprintf("/order/payment/complete/%d", v.OrderID)
}

// View snapshots the session under its lock.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ID:                s.id,
		Status:            s.status,
		Product:           s.product,
		Quantity:          s.quantity,
		Totals:            s.totals,
		Orderer:           s.orderer,
		LookupAddress:     s.lookupAddress,
		LookupZipcode:     s.lookupZipcode,
		Shipping:          s.shipping,
		SubmitState:       s.gate.State(),
		PayMethodSelected: s.gate.PayMethodSelected(),
		ConsentGiven:      s.gate.ConsentGiven(),
		MerchantUID:       s.merchantUID,
		OrderID:           s.orderID,
		FailureMessage:    s.failureMessage,
	}
}

package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/joooonis/incourserun-checkout/internal/storefront/core/domain/entity"
)

// PendingPayments pairs an opened gateway session with its eventual result.
// The gateway reports back through a single webhook; this registry routes
// each callback to the flow that is waiting on it, keyed by merchant uid,
// instead of funnelling everything through one shared callback.
type PendingPayments struct {
	mu      sync.Mutex
	waiting map[string]chan entity.PaymentResult
}

func NewPendingPayments() *PendingPayments {
	return &PendingPayments{
		waiting: make(map[string]chan entity.PaymentResult),
	}
}

// Register opens a slot for the given merchant uid. A duplicate registration
// means two flows share one merchant uid, which is a bug upstream.
func (p *PendingPayments) Register(merchantUID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.waiting[merchantUID]; exists {
		return fmt.Errorf("payment session %s already pending", merchantUID)
	}
	p.waiting[merchantUID] = make(chan entity.PaymentResult, 1)
	return nil
}

// Resolve delivers the gateway's result to the waiting flow.
func (p *PendingPayments) Resolve(result entity.PaymentResult) error {
	p.mu.Lock()
	ch, ok := p.waiting[result.MerchantUID]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("no pending payment session for %s", result.MerchantUID)
	}

	select {
	case ch <- result:
		return nil
	default:
		return fmt.Errorf("payment session %s already resolved", result.MerchantUID)
	}
}

// Await blocks until the result for merchantUID arrives or ctx is done.
// The slot is released either way.
func (p *PendingPayments) Await(ctx context.Context, merchantUID string) (entity.PaymentResult, error) {
	p.mu.Lock()
	ch, ok := p.waiting[merchantUID]
	p.mu.Unlock()
	if !ok {
		return entity.PaymentResult{}, fmt.Errorf("no pending payment session for %s", merchantUID)
	}
	defer p.Cancel(merchantUID)

	select {
	case result := <-ch:
		return result, nil
	case <-ctx.Done():
		return entity.PaymentResult{}, ctx.Err()
	}
}

// Cancel releases the slot for merchantUID, if any.
func (p *PendingPayments) Cancel(merchantUID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.waiting, merchantUID)
}

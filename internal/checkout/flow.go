package checkout

import (
	"context"
	"log/slog"

	"github.com/joooonis/incourserun-checkout/internal/checkout/checkoutlog"
)

// Step is a single unit of work in the checkout flow. Each step may define a
// compensating action to undo its side effects when a later step fails.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Flow runs the checkout steps sequentially: create the order record, open
// the gateway session, then wait for and confirm the payment. A step failure
// is terminal for the attempt; previously successful steps are compensated
// in LIFO order.
type Flow struct {
	checkoutID string
	steps      []Step
	logRepo    checkoutlog.Repository // nil-safe: audit skipped if nil
	payload    string
}

// NewFlow builds a flow for one checkout attempt. The checkout session id is
// used as the log id so entries can be joined with business data. payload is
// the JSON order submission recorded on the STARTED entry.
func NewFlow(checkoutID string, steps []Step, logRepo checkoutlog.Repository, payload string) *Flow {
	return &Flow{
		checkoutID: checkoutID,
		steps:      steps,
		logRepo:    logRepo,
		payload:    payload,
	}
}

// Start runs the steps in order. The first failure triggers compensation of
// all previously successful steps and is returned to the caller.
func (f *Flow) Start(ctx context.Context) error {
	f.log(ctx, checkoutlog.StatusStarted, "", f.payload, nil)

	var done []Step
	var failures []string

	for _, step := range f.steps {
		slog.InfoContext(ctx, "executing checkout step", "checkout_id", f.checkoutID, "step", step.Name())
		if err := step.Execute(ctx); err != nil {
			slog.ErrorContext(ctx, "checkout step failed, starting rollback",
				"checkout_id", f.checkoutID, "step", step.Name(), "error", err)
			failures = append(failures, step.Name()+": "+err.Error())
			f.log(ctx, checkoutlog.StatusCompensating, step.Name(), "", failures)

			failures = append(failures, f.rollback(ctx, done)...)
			f.log(ctx, checkoutlog.StatusFailed, step.Name(), "", failures)
			return err
		}
		done = append(done, step)
		f.log(ctx, checkoutlog.StatusStepDone, step.Name(), "", nil)
	}

	slog.InfoContext(ctx, "checkout flow completed", "checkout_id", f.checkoutID)
	f.log(ctx, checkoutlog.StatusCompleted, "", "", nil)
	return nil
}

// rollback compensates steps in reverse order, collecting any compensation
// failures for the audit log. Compensation errors are logged, never fatal.
func (f *Flow) rollback(ctx context.Context, steps []Step) []string {
	var failures []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating checkout step", "checkout_id", f.checkoutID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate checkout step",
				"checkout_id", f.checkoutID, "step", step.Name(), "error", err)
			failures = append(failures, "compensation of "+step.Name()+" failed: "+err.Error())
		}
	}
	return failures
}

func (f *Flow) log(ctx context.Context, status checkoutlog.Status, step, payload string, errs []string) {
	if f.logRepo == nil {
		return
	}
	entry := checkoutlog.NewEntry(ctx, f.checkoutID, status, step, payload, errs)
	if err := f.logRepo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to save checkout log entry",
			"checkout_id", f.checkoutID, "status", status, "error", err)
	}
}

package checkout

// SubmitState is where the pay action stands relative to the two required
// checkboxes. It is recomputed from the checkbox pair on every change, so
// there are no transitions to get wrong: the state is a pure function of
// the inputs.
type SubmitState string

const (
	SubmitIncomplete     SubmitState = "INCOMPLETE"
	SubmitMethodSelected SubmitState = "METHOD_SELECTED"
	SubmitConsentGiven   SubmitState = "CONSENT_GIVEN"
	SubmitReady          SubmitState = "READY_TO_SUBMIT"
)

// SubmitGate tracks the payment-method checkbox and the personal-data
// consent checkbox. The pay action is available only when both are checked.
type SubmitGate struct {
	payMethod bool
	consent   bool
}

func (g *SubmitGate) SetPayMethod(checked bool) { g.payMethod = checked }
func (g *SubmitGate) SetConsent(checked bool)   { g.consent = checked }

func (g SubmitGate) PayMethodSelected() bool { return g.payMethod }
func (g SubmitGate) ConsentGiven() bool      { return g.consent }

// State derives the submit state from the checkbox pair.
func (g SubmitGate) State() SubmitState {
	switch {
	case g.payMethod && g.consent:
		return SubmitReady
	case g.payMethod:
		return SubmitMethodSelected
	case g.consent:
		return SubmitConsentGiven
	default:
		return SubmitIncomplete
	}
}

// Ready reports whether submission is enabled.
func (g SubmitGate) Ready() bool {
	return g.State() == SubmitReady
}

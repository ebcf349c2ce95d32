package payment

// CheckoutOutcome classifies how a checkout attempt ended. Cancellation is
// a first-class outcome, not an error: the registration stays pending and
// checkout can be retried without resubmitting the form.
type CheckoutOutcome int

const (
	OutcomeSuccess CheckoutOutcome = iota
	OutcomeCancelled
	OutcomeFailed
)

func (o CheckoutOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// CheckoutResult is the single value a checkout driver resolves to.
// OrderID/PaymentID/Signature are set only on success; Err only on failure.
type CheckoutResult struct {
	Outcome   CheckoutOutcome
	OrderID   string
	PaymentID string
	Signature string
	Err       error
}

// CheckoutRequest carries everything a checkout UI needs to open the
// gateway widget.
type CheckoutRequest struct {
	KeyID     string            `json:"key_id"`
	OrderID   string            `json:"order_id"`
	Amount    int64             `json:"amount"` // minor units, display as-is
	Currency  string            `json:"currency"`
	EventName string            `json:"event_name"`
	Prefill   map[string]string `json:"prefill"`
	Notes     map[string]string `json:"notes"`
}

// CheckoutDriver opens the gateway checkout for an order and resolves to a
// three-way result. Implemented by the embedding frontend; tests use fakes.
type CheckoutDriver interface {
	Checkout(req CheckoutRequest) CheckoutResult
}

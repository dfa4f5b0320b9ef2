package checkout

// State tracks where a checkout submission is in its lifecycle.
type State string

const (
	StateIdle              State = "idle"
	StateCreatingOrder     State = "creating_order"
	StateConfirmingPayment State = "confirming_payment"
	StateSucceeded         State = "succeeded"
	StateFailed            State = "failed"
)

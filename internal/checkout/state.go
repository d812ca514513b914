package checkout

type State string

const (
	StateChoosingDelivery State = "CHOOSING_DELIVERY"
	StateFillingAddress   State = "FILLING_ADDRESS"
	StateChoosingPickup   State = "CHOOSING_PICKUP"
	StateChoosingPayment  State = "CHOOSING_PAYMENT"
	StateSubmitting       State = "SUBMITTING"
	StateSubmitted        State = "SUBMITTED"
	StateFailed           State = "FAILED"
)

// A failed submit drops back to CHOOSING_PAYMENT, not to the start, so
// the entered address and selections survive.
var validNext = map[State]map[State]bool{
	StateChoosingDelivery: {StateFillingAddress: true, StateChoosingPickup: true},
	StateFillingAddress:   {StateChoosingPickup: true, StateChoosingPayment: true},
	StateChoosingPickup:   {StateFillingAddress: true, StateChoosingPayment: true},
	StateChoosingPayment:  {StateSubmitting: true, StateFillingAddress: true, StateChoosingPickup: true},
	StateSubmitting:       {StateSubmitted: true, StateFailed: true},
	StateFailed:           {StateChoosingPayment: true},
	StateSubmitted:        {},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}

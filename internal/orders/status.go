package orders

type Status string

const (
	StatusPending          Status = "PENDING"
	StatusPaymentRequested Status = "PAYMENT_REQUESTED"
	StatusPaid             Status = "PAID"
	StatusFulfilled        Status = "FULFILLED"
	StatusFailed           Status = "FAILED"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:          {StatusPaymentRequested: true, StatusPaid: true, StatusFailed: true},
	StatusPaymentRequested: {StatusPaid: true, StatusFailed: true},
	StatusPaid:             {StatusFulfilled: true},
	StatusFulfilled:        {},
	StatusFailed:           {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

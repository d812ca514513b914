package orders

const (
	TopicOrderCreated     = "order.created"
	TopicPaymentRequested = "order.payment.requested"
	TopicPaymentFailed    = "order.payment.failed"
)

// Partition key = order_id so all events for one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

package orders

type Status string

const (
	StatusPending           Status = "PENDING"
	StatusProcessing        Status = "PROCESSING"
	StatusShippedInternal   Status = "SHIPPED_INTERNAL"
	StatusWarehouseReceived Status = "WAREHOUSE_RECEIVED"
	StatusCompleted         Status = "COMPLETED"
	StatusCancelled         Status = "CANCELLED"
)

// Forward moves may skip steps; CANCELLED is reachable from every non-terminal status.
var validNext = map[Status]map[Status]bool{
	StatusPending: {
		StatusProcessing: true, StatusShippedInternal: true, StatusWarehouseReceived: true,
		StatusCompleted: true, StatusCancelled: true,
	},
	StatusProcessing: {
		StatusShippedInternal: true, StatusWarehouseReceived: true, StatusCompleted: true,
		StatusCancelled: true,
	},
	StatusShippedInternal:   {StatusWarehouseReceived: true, StatusCompleted: true, StatusCancelled: true},
	StatusWarehouseReceived: {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted:         {},
	StatusCancelled:         {},
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "UNPAID"
	PaymentPendingReview PaymentStatus = "PENDING_REVIEW"
	PaymentPaid          PaymentStatus = "PAID"
)

// PENDING_REVIEW -> UNPAID is a rejected transfer proof.
var validPaymentNext = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentUnpaid:        {PaymentPendingReview: true, PaymentPaid: true},
	PaymentPendingReview: {PaymentPaid: true, PaymentUnpaid: true},
	PaymentPaid:          {},
}

func (p PaymentStatus) Valid() bool {
	_, ok := validPaymentNext[p]
	return ok
}

func CanTransitionPayment(from, to PaymentStatus) bool {
	return validPaymentNext[from][to]
}

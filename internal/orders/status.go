package orders

type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusSubmitted      Status = "SUBMITTED"
	StatusCompleted      Status = "COMPLETED"
	StatusFailed         Status = "FAILED"
	StatusCanceled       Status = "CANCELED"
)

var validNext = map[Status]map[Status]bool{
	StatusPendingPayment: {StatusPaid: true, StatusCanceled: true},
	StatusPaid:           {StatusSubmitted: true, StatusFailed: true},
	StatusSubmitted:      {StatusCompleted: true, StatusFailed: true},
	StatusCompleted:      {},
	StatusFailed:         {},
	StatusCanceled:       {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

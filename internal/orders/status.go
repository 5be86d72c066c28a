package orders

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Transisi maju saja; mundur tidak boleh kecuali cancel dari
// pending/processing. delivered & cancelled terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func ValidStatus(s Status) bool {
	_, ok := validNext[s]
	return ok
}

type PayStatus string

const (
	PayPending PayStatus = "pending"
	PayPaid    PayStatus = "paid"
	PayFailed  PayStatus = "failed"
)

// Status paid hanya boleh datang dari webhook gateway, bukan dari client.
var validNextPay = map[PayStatus]map[PayStatus]bool{
	PayPending: {PayPaid: true, PayFailed: true},
	PayPaid:    {},
	PayFailed:  {},
}

func CanTransitionPay(from, to PayStatus) bool {
	return validNextPay[from][to]
}

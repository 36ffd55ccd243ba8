package orders

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusShipped: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// checkTransition accepts staying in the same known status.
func checkTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from == to || CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCard    PaymentMethod = "card"
	PaymentBank    PaymentMethod = "bank"
	PaymentInStore PaymentMethod = "instore"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentBank, PaymentInStore:
		return true
	}
	return false
}

package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusAccepted   OrderStatus = "accepted"
	StatusInProgress OrderStatus = "in_progress"
	StatusReview     OrderStatus = "review"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
	StatusDispute    OrderStatus = "dispute"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusAccepted, StatusInProgress,
		StatusReview, StatusCompleted, StatusCancelled, StatusDispute:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is legal from the status.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is a commissioned piece of work between a buyer and a seller, with
// the price held in escrow from payment until settlement.
type Order struct {
	ID          string
	BuyerID     string
	SellerID    string
	Price       int64
	Deadline    time.Time
	Status      OrderStatus
	Description string
	// EscrowRef is the ledger handle for the held funds. Set once on pay,
	// consumed once when the order reaches a terminal status.
	EscrowRef string
	// DisputeFrom remembers the status a dispute was opened from, so the
	// resolution flow can see which stage of the order was interrupted.
	DisputeFrom OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// IsParty reports whether the given identity is the order's buyer or seller.
func (o Order) IsParty(id string) bool {
	return id == o.BuyerID || id == o.SellerID
}

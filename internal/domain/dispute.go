package domain

import "time"

type DisputeResolution string

const (
	ResolutionRelease DisputeResolution = "release"
	ResolutionRefund  DisputeResolution = "refund"
)

// Dispute records an open disagreement on an order. At most one dispute is
// open per order; resolving it settles the escrowed funds one way or the
// other.
type Dispute struct {
	ID         string
	OrderID    string
	OpenedBy   string
	Reason     string
	Resolution DisputeResolution
	ResolvedBy string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

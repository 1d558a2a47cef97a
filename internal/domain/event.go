package domain

import "time"

// OrderEvent is one applied transition, kept as an append-only audit trail.
type OrderEvent struct {
	ID         string
	OrderID    string
	Action     Action
	ActorID    string
	ActorRole  Role
	FromStatus OrderStatus
	ToStatus   OrderStatus
	CreatedAt  time.Time
}

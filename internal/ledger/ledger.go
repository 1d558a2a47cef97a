// Package ledger talks to the external escrow ledger that holds buyer funds
// in trust. The service never moves money itself; it instructs the ledger to
// capture, release or refund, always under a caller-supplied idempotency key
// so a retried instruction is applied at most once.
package ledger

import (
	"context"
	"errors"
)

// ErrUnavailable marks a transient ledger failure. Callers retry the whole
// transition; the idempotency key keeps the retry safe.
var ErrUnavailable = errors.New("escrow ledger unavailable")

// Ledger is the funds-movement surface required by the order lifecycle.
type Ledger interface {
	// Capture moves the buyer's funds into escrow and returns the ledger's
	// handle for the held amount.
	Capture(ctx context.Context, idempotencyKey, orderID string, amount int64) (string, error)
	// Release pays the escrowed funds out to the seller.
	Release(ctx context.Context, idempotencyKey, escrowRef string) error
	// Refund returns the escrowed funds to the buyer.
	Refund(ctx context.Context, idempotencyKey, escrowRef string) error
}

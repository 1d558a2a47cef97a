package domain

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrUnauthorized        = errors.New("actor is not allowed to perform this action")
	ErrInvalidTransition   = errors.New("order status does not allow this action")
	ErrLedgerUnavailable   = errors.New("escrow ledger unavailable")
	ErrStoreConflict       = errors.New("order was modified concurrently")
	ErrInvalidID           = errors.New("invalid id")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrSameParty           = errors.New("buyer and seller must differ")
	ErrDescriptionRequired = errors.New("description required")
	ErrUnknownAction       = errors.New("unknown action")
	ErrUnknownRole         = errors.New("unknown role")
)

package app

import (
	"context"
	"errors"
	"time"

	"github.com/kazak5205/mebelplace-sub005/internal/clock"
	"github.com/kazak5205/mebelplace-sub005/internal/domain"
	"github.com/kazak5205/mebelplace-sub005/internal/ledger"
)

// SwapStatusInput is a compare-and-swap on an order's status. The swap only
// applies while the order is still at From; otherwise the repository reports
// domain.ErrStoreConflict.
type SwapStatusInput struct {
	OrderID     string
	From        domain.OrderStatus
	To          domain.OrderStatus
	UpdatedAt   time.Time
	CompletedAt *time.Time
	EscrowRef   *string
	DisputeFrom *domain.OrderStatus
}

type LifecycleRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error)
	SwapStatus(ctx context.Context, in SwapStatusInput) (domain.Order, error)
	CreateDispute(ctx context.Context, dispute domain.Dispute) error
	CloseDispute(ctx context.Context, orderID string, resolution domain.DisputeResolution, resolvedBy string, at time.Time) error
	AppendEvent(ctx context.Context, event domain.OrderEvent) error
}

// LifecycleService drives orders through the escrow state machine. Each call
// applies at most one transition: row lock, plan, ledger effect, status swap
// and audit event all inside one transaction, so the caller never observes a
// state where funds moved but the status did not, or the reverse.
type LifecycleService struct {
	repo   LifecycleRepository
	ledger ledger.Ledger
	clock  clock.Clock
}

func NewLifecycleService(repo LifecycleRepository, lgr ledger.Ledger, clk clock.Clock) *LifecycleService {
	return &LifecycleService{
		repo:   repo,
		ledger: lgr,
		clock:  clk,
	}
}

type TransitionInput struct {
	OrderID string
	ActorID string
	Role    domain.Role
	Action  domain.Action
	// Reason is stored on the dispute record when Action is open-dispute.
	Reason string
}

func (s *LifecycleService) AttemptTransition(ctx context.Context, in TransitionInput) (domain.Order, error) {
	if in.OrderID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}

	updated, err := s.attempt(ctx, in)
	if err == domain.ErrStoreConflict {
		// One internal retry. The re-read happens under the row lock, so if
		// the precondition no longer holds the plan itself rejects the call.
		updated, err = s.attempt(ctx, in)
		if err == domain.ErrStoreConflict {
			err = domain.ErrInvalidTransition
		}
	}
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (s *LifecycleService) attempt(ctx context.Context, in TransitionInput) (domain.Order, error) {
	var updated domain.Order

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(txCtx, in.OrderID)
		if err != nil {
			return err
		}

		tr, err := domain.Plan(order, in.Role, in.ActorID, in.Action)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		swap := SwapStatusInput{
			OrderID:   order.ID,
			From:      tr.From,
			To:        tr.To,
			UpdatedAt: now,
		}

		// The ledger call happens before the status swap but inside the same
		// transaction. A ledger failure rolls everything back; a crash after
		// the ledger call is healed on retry because the instruction carries
		// a deterministic idempotency key.
		key := idempotencyKey(order.ID, tr.Action)
		switch tr.Effect {
		case domain.EffectCapture:
			ref, err := s.ledger.Capture(txCtx, key, order.ID, order.Price)
			if err != nil {
				return mapLedgerError(err)
			}
			swap.EscrowRef = &ref
		case domain.EffectRelease:
			if err := s.ledger.Release(txCtx, key, order.EscrowRef); err != nil {
				return mapLedgerError(err)
			}
		case domain.EffectRefund:
			if err := s.ledger.Refund(txCtx, key, order.EscrowRef); err != nil {
				return mapLedgerError(err)
			}
		}

		if tr.To == domain.StatusCompleted {
			swap.CompletedAt = &now
		}
		if tr.To == domain.StatusDispute {
			from := tr.From
			swap.DisputeFrom = &from
		}

		updated, err = s.repo.SwapStatus(txCtx, swap)
		if err != nil {
			return err
		}

		if tr.To == domain.StatusDispute {
			dispute := domain.Dispute{
				ID:        newID(),
				OrderID:   order.ID,
				OpenedBy:  in.ActorID,
				Reason:    in.Reason,
				CreatedAt: now,
			}
			if err := s.repo.CreateDispute(txCtx, dispute); err != nil {
				return err
			}
		}
		if tr.From == domain.StatusDispute {
			resolution := domain.ResolutionRelease
			if tr.Action == domain.ActionResolveRefund {
				resolution = domain.ResolutionRefund
			}
			if err := s.repo.CloseDispute(txCtx, order.ID, resolution, in.ActorID, now); err != nil {
				return err
			}
		}

		return s.repo.AppendEvent(txCtx, domain.OrderEvent{
			ID:         newID(),
			OrderID:    order.ID,
			Action:     tr.Action,
			ActorID:    in.ActorID,
			ActorRole:  in.Role,
			FromStatus: tr.From,
			ToStatus:   tr.To,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

// idempotencyKey is deterministic per (order, action) so a retried transition
// replays the same ledger instruction instead of issuing a second one.
func idempotencyKey(orderID string, action domain.Action) string {
	return orderID + ":" + string(action)
}

func mapLedgerError(err error) error {
	if errors.Is(err, ledger.ErrUnavailable) {
		return domain.ErrLedgerUnavailable
	}
	return err
}

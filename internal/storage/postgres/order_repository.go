package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kazak5205/mebelplace-sub005/internal/app"
	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const orderColumns = `id, buyer_id, seller_id, price, deadline, status, description,
	COALESCE(escrow_ref, ''), COALESCE(dispute_from, ''), created_at, updated_at, completed_at`

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, buyer_id, seller_id, price, deadline, status, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.exec(ctx, stmt,
		order.ID, order.BuyerID, order.SellerID, order.Price, order.Deadline,
		order.Status, order.Description, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOrder(r.queryRow(ctx, query, orderID))
}

// GetOrderForUpdate locks the order row for the rest of the transaction.
// All transitions on one order serialize on this lock; different orders do
// not contend.
func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, orderID string) (domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.scanOrder(r.queryRow(ctx, query, orderID))
}

func (r *OrderRepository) scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var status, disputeFrom string
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.SellerID, &o.Price, &o.Deadline, &status,
		&o.Description, &o.EscrowRef, &disputeFrom, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Order{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	o.DisputeFrom = domain.OrderStatus(disputeFrom)
	return o, nil
}

// SwapStatus applies a guarded status update: the row only changes while its
// status still equals the expected source. A zero-row update means someone
// else advanced the order first.
func (r *OrderRepository) SwapStatus(ctx context.Context, in app.SwapStatusInput) (domain.Order, error) {
	const stmt = `
UPDATE orders
SET status = $3,
    updated_at = $4,
    completed_at = COALESCE($5, completed_at),
    escrow_ref = COALESCE($6, escrow_ref),
    dispute_from = COALESCE($7, dispute_from)
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns

	var disputeFrom *string
	if in.DisputeFrom != nil {
		s := string(*in.DisputeFrom)
		disputeFrom = &s
	}

	order, err := r.scanOrder(r.queryRow(ctx, stmt,
		in.OrderID, in.From, in.To, in.UpdatedAt, in.CompletedAt, in.EscrowRef, disputeFrom,
	))
	if err != nil {
		if err == domain.ErrOrderNotFound {
			return domain.Order{}, domain.ErrStoreConflict
		}
		return domain.Order{}, fmt.Errorf("swap status: %w", err)
	}
	return order, nil
}

func (r *OrderRepository) ListOrdersByParty(ctx context.Context, partyID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
FROM orders
WHERE buyer_id = $1 OR seller_id = $1
ORDER BY created_at DESC`

	rows, err := r.query(ctx, query, partyID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

func (r *OrderRepository) CreateDispute(ctx context.Context, dispute domain.Dispute) error {
	const stmt = `
INSERT INTO disputes (id, order_id, opened_by, reason, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt,
		dispute.ID, dispute.OrderID, dispute.OpenedBy, dispute.Reason, dispute.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidTransition
		}
		return fmt.Errorf("create dispute: %w", err)
	}
	return nil
}

func (r *OrderRepository) CloseDispute(ctx context.Context, orderID string, resolution domain.DisputeResolution, resolvedBy string, at time.Time) error {
	const stmt = `
UPDATE disputes
SET resolution = $2, resolved_by = $3, resolved_at = $4
WHERE order_id = $1 AND resolved_at IS NULL`

	tag, err := r.exec(ctx, stmt, orderID, resolution, resolvedBy, at)
	if err != nil {
		return fmt.Errorf("close dispute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *OrderRepository) AppendEvent(ctx context.Context, event domain.OrderEvent) error {
	const stmt = `
INSERT INTO order_events (id, order_id, action, actor_id, actor_role, from_status, to_status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		event.ID, event.OrderID, event.Action, event.ActorID, event.ActorRole,
		event.FromStatus, event.ToStatus, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

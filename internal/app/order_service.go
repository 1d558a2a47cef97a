package app

import (
	"context"
	"strings"
	"time"

	"github.com/kazak5205/mebelplace-sub005/internal/clock"
	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
	ListOrdersByParty(ctx context.Context, partyID string) ([]domain.Order, error)
}

// OrderService covers creation and reads. Orders enter the lifecycle as
// pending, with no funds held; everything after that goes through
// LifecycleService.
type OrderService struct {
	repo  OrderRepository
	clock clock.Clock
}

func NewOrderService(repo OrderRepository, clk clock.Clock) *OrderService {
	return &OrderService{
		repo:  repo,
		clock: clk,
	}
}

type CreateOrderInput struct {
	BuyerID     string
	SellerID    string
	Price       int64
	Deadline    time.Time
	Description string
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	if in.BuyerID == "" || in.SellerID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	if in.BuyerID == in.SellerID {
		return domain.Order{}, domain.ErrSameParty
	}
	if in.Price <= 0 {
		return domain.Order{}, domain.ErrInvalidPrice
	}
	if strings.TrimSpace(in.Description) == "" {
		return domain.Order{}, domain.ErrDescriptionRequired
	}

	now := s.clock.Now()
	order := domain.Order{
		ID:          newID(),
		BuyerID:     in.BuyerID,
		SellerID:    in.SellerID,
		Price:       in.Price,
		Deadline:    in.Deadline,
		Status:      domain.StatusPending,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// GetOrder returns the order if the actor is one of its parties or an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, actorID string, role domain.Role) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if role != domain.RoleAdmin && !order.IsParty(actorID) {
		return domain.Order{}, domain.ErrUnauthorized
	}
	return order, nil
}

// ListMyOrders returns all orders where the actor is buyer or seller.
func (s *OrderService) ListMyOrders(ctx context.Context, actorID string) ([]domain.Order, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListOrdersByParty(ctx, actorID)
}

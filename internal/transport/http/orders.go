package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kazak5205/mebelplace-sub005/internal/app"
	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

// OrderReader is the read surface needed by the order handlers.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID, actorID string, role domain.Role) (domain.Order, error)
	ListMyOrders(ctx context.Context, actorID string) ([]domain.Order, error)
}

// OrderCreator creates pending orders.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
}

// HandleCreateOrder returns the handler for POST /orders. The caller becomes
// the buyer; funds are not touched until pay.
func HandleCreateOrder(svc OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}

		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.CreateOrder(r.Context(), app.CreateOrderInput{
			BuyerID:     p.UserID,
			SellerID:    req.SellerID,
			Price:       req.Price,
			Deadline:    req.Deadline,
			Description: req.Description,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toOrderResponse(order))
	}
}

// HandleGetOrder returns the handler for GET /orders/{id}.
func HandleGetOrder(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}

		order, err := svc.GetOrder(r.Context(), chi.URLParam(r, "id"), p.UserID, p.Role)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toOrderResponse(order))
	}
}

// HandleListMyOrders returns the handler for GET /orders/my.
func HandleListMyOrders(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}

		orders, err := svc.ListMyOrders(r.Context(), p.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]orderResponse, 0, len(orders))
		for _, order := range orders {
			out = append(out, toOrderResponse(order))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

type createOrderRequest struct {
	SellerID    string    `json:"seller_id"`
	Price       int64     `json:"price"`
	Deadline    time.Time `json:"deadline"`
	Description string    `json:"description"`
}

type orderResponse struct {
	ID          string     `json:"id"`
	BuyerID     string     `json:"buyer_id"`
	SellerID    string     `json:"seller_id"`
	Price       int64      `json:"price"`
	Deadline    time.Time  `json:"deadline"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	EscrowRef   string     `json:"escrow_ref,omitempty"`
	DisputeFrom string     `json:"dispute_from,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toOrderResponse(order domain.Order) orderResponse {
	return orderResponse{
		ID:          order.ID,
		BuyerID:     order.BuyerID,
		SellerID:    order.SellerID,
		Price:       order.Price,
		Deadline:    order.Deadline,
		Status:      string(order.Status),
		Description: order.Description,
		EscrowRef:   order.EscrowRef,
		DisputeFrom: string(order.DisputeFrom),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		CompletedAt: order.CompletedAt,
	}
}

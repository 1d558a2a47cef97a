package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazak5205/mebelplace-sub005/internal/app"
	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

// Transitioner is the lifecycle surface the action handlers need.
type Transitioner interface {
	AttemptTransition(ctx context.Context, in app.TransitionInput) (domain.Order, error)
}

// HandleAction returns the handler for POST /orders/{id}/<action>. One
// handler per edge of the lifecycle; the engine decides legality, the
// handler only carries identity and shape.
func HandleAction(svc Transitioner, action domain.Action, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}

		in := app.TransitionInput{
			OrderID: chi.URLParam(r, "id"),
			ActorID: p.UserID,
			Role:    p.Role,
			Action:  action,
		}
		if action == domain.ActionOpenDispute {
			in.Reason = disputeReason(r.Body)
		}

		order, err := svc.AttemptTransition(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeTransition(w, message, order)
	}
}

// disputeReason reads the optional {"reason": "..."} body. A missing or
// malformed body opens the dispute without a reason rather than failing.
func disputeReason(body io.Reader) string {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return ""
	}
	return req.Reason
}

type transitionResponse struct {
	Message string        `json:"message"`
	Order   orderResponse `json:"order"`
}

func writeTransition(w http.ResponseWriter, message string, order domain.Order) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(transitionResponse{
		Message: message,
		Order:   toOrderResponse(order),
	})
}

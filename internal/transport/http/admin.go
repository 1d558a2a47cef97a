package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazak5205/mebelplace-sub005/internal/app"
	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

// HandleResolveDispute returns the handler for POST /admin/orders/{id}/resolve.
// The body names the outcome: release pays the seller, refund returns the
// funds to the buyer.
func HandleResolveDispute(svc Transitioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}

		var req resolveRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		var action domain.Action
		var message string
		switch domain.DisputeResolution(req.Resolution) {
		case domain.ResolutionRelease:
			action = domain.ActionResolveRelease
			message = "dispute resolved, funds released to the seller"
		case domain.ResolutionRefund:
			action = domain.ActionResolveRefund
			message = "dispute resolved, funds refunded to the buyer"
		default:
			writeError(w, http.StatusBadRequest, codeInvalidResolution, "resolution must be release or refund")
			return
		}

		order, err := svc.AttemptTransition(r.Context(), app.TransitionInput{
			OrderID: chi.URLParam(r, "id"),
			ActorID: p.UserID,
			Role:    p.Role,
			Action:  action,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeTransition(w, message, order)
	}
}

type resolveRequest struct {
	Resolution string `json:"resolution"`
}

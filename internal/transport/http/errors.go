package http

import (
	"encoding/json"
	"net/http"

	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

const (
	codeNotFound            = "not_found"
	codeOrderNotFound       = "order_not_found"
	codeUnauthenticated     = "unauthenticated"
	codeUnauthorized        = "unauthorized"
	codeInvalidTransition   = "invalid_transition"
	codeLedgerUnavailable   = "ledger_unavailable"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeInvalidPrice        = "invalid_price"
	codeSameParty           = "same_party"
	codeDescriptionRequired = "description_required"
	codeInvalidResolution   = "invalid_resolution"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps a lifecycle error to its HTTP shape. The distinction
// between "you cannot do this" (403/409) and "try again" (503) must survive
// all the way to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrOrderNotFound:
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case domain.ErrUnauthorized:
		writeError(w, http.StatusForbidden, codeUnauthorized, err.Error())
	case domain.ErrInvalidTransition:
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case domain.ErrLedgerUnavailable:
		writeError(w, http.StatusServiceUnavailable, codeLedgerUnavailable, err.Error())
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrSameParty:
		writeError(w, http.StatusBadRequest, codeSameParty, err.Error())
	case domain.ErrDescriptionRequired:
		writeError(w, http.StatusBadRequest, codeDescriptionRequired, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

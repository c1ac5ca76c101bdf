package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotelcore/internal/domain"
)

var statusByCode = map[string]int{
	"INVALID_DATE_RANGE":       http.StatusBadRequest,
	"INVALID_ARGUMENT":         http.StatusBadRequest,
	"INVALID_AMOUNT":           http.StatusBadRequest,
	"ROOM_NOT_AVAILABLE":       http.StatusConflict,
	"INVALID_STATE_TRANSITION": http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,
	"REFUND_EXCEEDS_PAID":      http.StatusUnprocessableEntity,
	"GUEST_NOT_FOUND":          http.StatusNotFound,
	"ROOM_NOT_FOUND":           http.StatusNotFound,
	"BOOKING_NOT_FOUND":        http.StatusNotFound,
	"PAYMENT_NOT_FOUND":        http.StatusNotFound,
	"ROOM_BLOCK_NOT_FOUND":     http.StatusNotFound,
	"PROPERTY_NOT_FOUND":       http.StatusNotFound,
	"TENANT_MISMATCH":          http.StatusForbidden,
}

type problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeProblem(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]problem{"error": {Code: code, Message: message}})
}

// writeError maps a service error to its status. The code is preserved;
// internal errors carry no detail.
func writeError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		writeProblem(w, http.StatusInternalServerError, code, domain.ErrInternal.Error())
		return
	}

	p := problem{Code: code, Message: err.Error()}
	var stErr *domain.StateTransitionError
	if errors.As(err, &stErr) {
		p.From, p.To = string(stErr.From), string(stErr.To)
	}
	writeJSON(w, status, map[string]problem{"error": p})
}

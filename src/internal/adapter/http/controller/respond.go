package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/paylio-ledger/src/internal/commons"
	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
)

func route(mux *http.ServeMux, pattern string, handler http.HandlerFunc, authMiddleware func(http.Handler) http.Handler) {
	var h http.Handler = handler
	if authMiddleware != nil {
		h = authMiddleware(h)
	}
	mux.Handle(pattern, h)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrAccountFrozen),
		errors.Is(err, domain.ErrKYCRequired):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrIncorrectPin):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrLocked):
		return http.StatusLocked
	}
	return http.StatusInternalServerError
}

// decodeBody writes a 400 and returns false when the body is not valid JSON.
func decodeBody[T any](w http.ResponseWriter, r *http.Request, start time.Time, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[T]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	logRequest(r, req)
	return true
}

func respond[T any](w http.ResponseWriter, r *http.Request, start time.Time, successStatus int, response commons.Response[T], err error) {
	status := successStatus
	if err != nil {
		status = statusFor(err)
		logError(r, err, logger.Fields{"message": response.Message})
	}
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/revuhub/entitlement/svc/billing"
	"github.com/revuhub/entitlement/svc/catalog"
	"github.com/revuhub/entitlement/svc/entitlement"
	"github.com/revuhub/entitlement/svc/subscription"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError maps domain errors onto HTTP statuses. Anything
// unclassified is logged with context and surfaced as a generic 500 so
// internal detail never leaks to the caller.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, catalog.ErrPlanNotFound),
		errors.Is(err, subscription.ErrNotFound),
		errors.Is(err, billing.ErrBusinessNotFound),
		errors.Is(err, billing.ErrInvoiceNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})

	case errors.Is(err, subscription.ErrAlreadyExists),
		errors.Is(err, subscription.ErrInvalidTransition),
		errors.Is(err, subscription.ErrNotActive),
		errors.Is(err, subscription.ErrQuotaExceeded):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})

	case errors.Is(err, entitlement.ErrUnknownAction),
		errors.Is(err, catalog.ErrUnknownFeature),
		errors.Is(err, errBadRequest):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.Is(err, billing.ErrPaymentInitiation):
		// The gateway's own message is part of the contract: callers show
		// it to the payer.
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})

	default:
		log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

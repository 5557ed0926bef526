package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/eksporyuk/commission/internal/affiliate"
	"github.com/eksporyuk/commission/internal/conversion"
	"github.com/eksporyuk/commission/internal/payout"
	"github.com/eksporyuk/commission/internal/revenue"
	"github.com/eksporyuk/commission/internal/rule"
	"github.com/eksporyuk/commission/internal/sale"
	"github.com/eksporyuk/commission/internal/wallet"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status maps domain errors to HTTP status codes.
func Status(err error) int {
	var verr validator.ValidationErrors

	switch {
	case errors.As(err, &verr),
		errors.Is(err, sale.ErrInvalid),
		errors.Is(err, payout.ErrInvalidSelection),
		errors.Is(err, rule.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, sale.ErrNotFound),
		errors.Is(err, conversion.ErrNotFound),
		errors.Is(err, payout.ErrNotFound),
		errors.Is(err, affiliate.ErrNotFound),
		errors.Is(err, rule.ErrNotFound),
		errors.Is(err, wallet.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sale.ErrImmutable),
		errors.Is(err, payout.ErrAlreadySettled),
		errors.Is(err, conversion.ErrAlreadyPaid),
		errors.Is(err, conversion.ErrNotOrphaned):
		return http.StatusConflict
	case errors.Is(err, conversion.ErrNotEligible):
		return http.StatusAccepted
	case errors.Is(err, conversion.ErrUnknownProduct),
		errors.Is(err, revenue.ErrCommissionExceedsSale):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with its mapped status. Internal errors are logged and
// their details are not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}

	JSON(w, status, map[string]string{"error": msg})
}

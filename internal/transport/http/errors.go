package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "oilrisk/internal/errors"
	"oilrisk/internal/services"
	"oilrisk/pkg/contracts/domain"
)

// toAPIError maps a service failure to its problem response
func toAPIError(err error) *apierrors.APIError {
	var apiErr *apierrors.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, services.ErrNoRiskData):
		return apierrors.NoRiskData(err.Error())
	case errors.Is(err, services.ErrAlertNotFound):
		return apierrors.New(http.StatusNotFound, apierrors.CodeAlertNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidWeights):
		return apierrors.InvalidWeights(err.Error())
	case errors.Is(err, services.ErrInvalidBacktest):
		return apierrors.InvalidBacktest(err.Error())
	default:
		return nil
	}
}

// handleServiceError renders err, passing unmapped errors to the handler as-is
func handleServiceError(h *apierrors.ErrorHandler, w http.ResponseWriter, r *http.Request, err error) {
	if apiErr := toAPIError(err); apiErr != nil {
		h.HandleError(w, r, apiErr)
		return
	}
	h.HandleError(w, r, err)
}

// parseDate parses an optional YYYY-MM-DD value; empty yields the zero time
func parseDate(param, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, apierrors.InvalidDate(param, value)
	}
	return t, nil
}

// idParam reads a positive integer path parameter
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierrors.NewValidationErrors([]apierrors.ValidationError{{
			Field:   name,
			Message: fmt.Sprintf("%s must be a positive integer", name),
		}})
	}
	return id, nil
}

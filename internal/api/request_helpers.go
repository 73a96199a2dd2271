package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
)

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}

	return id, nil
}

// pathUUID is getPathUUID that writes the error response itself.
func pathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName)
		return uuid.Nil, false
	}
	return id, true
}

// hospitalNumber returns the trimmed {hn} path parameter.
func hospitalNumber(w http.ResponseWriter, r *http.Request) (string, bool) {
	hn := strings.TrimSpace(chi.URLParam(r, "hn"))
	if hn == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Hospital number is required")
		return "", false
	}
	return hn, true
}

// decodeAndValidate decodes the JSON body into v and validates it, writing a
// 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		message := "Invalid request format"
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, shared.ErrEmptyBody):
			message = "Request body is required"
		case errors.As(err, &maxErr):
			message = "Request body too large"
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, message, err)
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
			return false
		}
		HandleAPIError(w, r, err, "Validation error")
		return false
	}
	return true
}

// parseDate parses an optional YYYY-MM-DD value. Empty input yields the zero
// time.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := schedule.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", domain.ErrInvalidDate, field)
	}
	return t, nil
}

// parseOptionalDate is parseDate for nullable fields.
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryInt reads a non-negative integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidFormat, name)
	}
	return n, nil
}

// queryBool reads a boolean query parameter; absent means false.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidFormat, name)
	}
	return b, nil
}

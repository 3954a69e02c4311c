package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// Error codes returned in the error envelope.
const (
	codeBadRequest         = "BAD_REQUEST"
	codeValidation         = "VALIDATION"
	codeUnauthorized       = "UNAUTHORIZED"
	codeNotFound           = "NOT_FOUND"
	codeInvalidTransition  = "INVALID_TRANSITION"
	codeConflict           = "CONFLICT"
	codeTemporalOrder      = "INVALID_TEMPORAL_ORDER"
	codeOutcomeData        = "INVALID_OUTCOME_DATA"
	codeItemReference      = "INVALID_ITEM_REFERENCE"
	codeStorageUnavailable = "STORAGE_UNAVAILABLE"
	codeInternal           = "INTERNAL"
)

// retryAfterSeconds is advertised on STORAGE_UNAVAILABLE responses.
const retryAfterSeconds = "1"

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Fields  []fieldPayload `json:"fields,omitempty"`
}

type fieldPayload struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string, fields ...fieldPayload) {
	writeJSON(w, status, errorBody{Error: errorPayload{Code: code, Message: message, Fields: fields}})
}

// handleError maps a service error to its HTTP status and error code.
// Unknown errors are logged and reported as INTERNAL without detail.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]fieldPayload, len(verr.Errors))
		for i, fe := range verr.Errors {
			fields[i] = fieldPayload{Field: fe.Field, Message: fe.Message}
		}
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "validation failed", fields...)
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidTemporalOrder):
		writeError(w, http.StatusUnprocessableEntity, codeTemporalOrder, err.Error())
	case errors.Is(err, domain.ErrInvalidOutcomeData):
		writeError(w, http.StatusUnprocessableEntity, codeOutcomeData, err.Error())
	case errors.Is(err, domain.ErrInvalidItemReference):
		writeError(w, http.StatusUnprocessableEntity, codeItemReference, err.Error())
	case errors.Is(err, domain.ErrStorageUnavailable):
		log.WarnContext(r.Context(), "storage unavailable", slog.String("error", err.Error()))
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeError(w, http.StatusServiceUnavailable, codeStorageUnavailable, "storage unavailable, retry later")
	default:
		log.ErrorContext(r.Context(), "unhandled error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

package rest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

func TestHandleError_Mapping(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("limit", "bad"), http.StatusUnprocessableEntity, codeValidation},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized},
		{"not found", fmt.Errorf("get dispute: %w", domain.ErrNotFound), http.StatusNotFound, codeNotFound},
		{"transition", domain.NewTransitionError(uuid.New(), domain.DisputeStatusDraft, domain.ActionLogResponse), http.StatusConflict, codeInvalidTransition},
		{"conflict", domain.ErrConflict, http.StatusConflict, codeConflict},
		{"already exists", domain.ErrAlreadyExists, http.StatusConflict, codeConflict},
		{"temporal order", domain.ErrInvalidTemporalOrder, http.StatusUnprocessableEntity, codeTemporalOrder},
		{"outcome data", domain.ErrInvalidOutcomeData, http.StatusUnprocessableEntity, codeOutcomeData},
		{"item reference", domain.ErrInvalidItemReference, http.StatusUnprocessableEntity, codeItemReference},
		{"storage", fmt.Errorf("list: %w", domain.ErrStorageUnavailable), http.StatusServiceUnavailable, codeStorageUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, codeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/disputes", nil)
			handleError(rec, req, log, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestHandleError_ValidationFields(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plans", nil)
	handleError(rec, req, slog.New(slog.NewTextHandler(io.Discard, nil)), domain.NewValidationErrors([]domain.FieldError{
		{Field: "item_ids", Message: "required"},
		{Field: "strategy", Message: "must be SINGLE, DUAL, or BY_ACCOUNT_TYPE"},
	}))

	body := decode[errorBody](t, rec)
	if len(body.Error.Fields) != 2 || body.Error.Fields[0].Field != "item_ids" {
		t.Errorf("fields = %+v, want item_ids and strategy", body.Error.Fields)
	}
}

func TestHandleError_StorageRetryAfter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	handleError(rec, req, slog.New(slog.NewTextHandler(io.Discard, nil)), domain.ErrStorageUnavailable)

	if got := rec.Header().Get("Retry-After"); got != retryAfterSeconds {
		t.Errorf("Retry-After = %q, want %q", got, retryAfterSeconds)
	}
}

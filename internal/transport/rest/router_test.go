package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/creditdispute-backend/internal/adapter/memory"
	"github.com/heartmarshall/creditdispute-backend/internal/adapter/provider/lettergen"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
	"github.com/heartmarshall/creditdispute-backend/internal/service/planner"
	"github.com/heartmarshall/creditdispute-backend/internal/service/portfolio"
	"github.com/heartmarshall/creditdispute-backend/internal/service/report"
	"github.com/heartmarshall/creditdispute-backend/internal/transport/loader"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

var testNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

type testServer struct {
	handler http.Handler
	userID  uuid.UUID
}

// newTestServer wires the real services over the memory store. When
// authenticated is false the API middleware sets no user.
func newTestServer(t *testing.T, authenticated bool) *testServer {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClockAt(testNow)
	store := memory.NewStore(clock)
	letters := lettergen.NewTemplate()
	policy := lifecycle.DefaultPolicy()

	disputes := dispute.NewService(log, store.Disputes(), store.Items(), letters, lifecycle.DefaultWindows(), policy, clock)
	plans := planner.NewService(log, store.Items(), store.Disputes(), letters, store.TxManager(), policy, clock, planner.DefaultConfig())
	reports := report.NewService(log, store.Reports(), store.Items(), store.TxManager(), clock)
	snapshots := portfolio.NewService(log, store.Items(), store.Disputes(), store.Reports(), store.Users(), policy, clock, portfolio.DefaultConfig())

	userID := uuid.New()
	withUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authenticated {
				r = r.WithContext(ctxutil.WithUserID(r.Context(), userID))
			}
			loader.Middleware(store.Items())(next).ServeHTTP(w, r)
		})
	}

	mux := NewRouter(Handlers{
		Health:    NewHealthHandler(store, "memory", "test"),
		Disputes:  NewDisputeHandler(disputes, plans, log),
		Portfolio: NewPortfolioHandler(reports, snapshots, log),
	}, withUser)

	return &testServer{handler: mux, userID: userID}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader).WithContext(context.Background())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) ingest(t *testing.T) (reportID, itemID uuid.UUID) {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/reports", map[string]any{
		"fileName": "equifax-2024-06.pdf",
		"items": []map[string]any{{
			"creditorName": "Midland Credit",
			"accountType":  "COLLECTION",
			"balance":      "1250.00",
			"onEquifax":    true,
			"onExperian":   true,
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[ingestResponse](t, rec)
	require.Len(t, resp.Items, 1)
	return resp.Report.ID, resp.Items[0].ID
}

func (s *testServer) plan(t *testing.T, itemID uuid.UUID) []*disputeResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/plans", map[string]any{"itemIds": []uuid.UUID{itemID}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[planResponse](t, rec)
	return resp.Created
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorBody](t, rec).Error.Code
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_IngestPlanMail(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	_, itemID := s.ingest(t)
	created := s.plan(t, itemID)
	require.Len(t, created, 2)
	for _, d := range created {
		assert.Equal(t, "DRAFT", d.Status)
		assert.Equal(t, "INITIAL_DISPUTE", d.LetterType)
		assert.NotEmpty(t, d.LetterContent)
	}

	id := created[0].ID
	rec := s.do(t, http.MethodPost, "/api/disputes/"+id.String()+"/mail", map[string]any{
		"mailedAt":       "2024-05-20T12:00:00Z",
		"trackingNumber": "9400111899223",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	mailed := decode[disputeResponse](t, rec)
	assert.Equal(t, "AWAITING_RESPONSE", mailed.Status)
	require.NotNil(t, mailed.ResponseDueDate)
	assert.Equal(t, time.Date(2024, 6, 19, 0, 0, 0, 0, time.UTC), mailed.ResponseDueDate.UTC())
	require.NotNil(t, mailed.Item)
	assert.Equal(t, "Midland Credit", mailed.Item.CreditorName)
	require.NotNil(t, mailed.Urgency)
	assert.Equal(t, "UPCOMING", mailed.Urgency.Kind)
	assert.Equal(t, 4, mailed.Urgency.Days)

	rec = s.do(t, http.MethodPost, "/api/disputes/"+id.String()+"/mail", map[string]any{
		"mailedAt": "2024-06-11T12:00:00Z",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, codeInvalidTransition, errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/disputes?status=AWAITING_RESPONSE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[disputeListResponse](t, rec)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Disputes, 1)
	assert.Equal(t, id, list.Disputes[0].ID)
	assert.NotNil(t, list.Disputes[0].Item)

	rec = s.do(t, http.MethodGet, "/api/disputes?status=DRAFT,MAILED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[disputeListResponse](t, rec).Total)
}

func TestRouter_ResponseOutcomeSnapshot(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	_, itemID := s.ingest(t)
	id := s.plan(t, itemID)[0].ID.String()

	rec := s.do(t, http.MethodPost, "/api/disputes/"+id+"/mail", map[string]any{"mailedAt": "2024-05-01T12:00:00Z"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/disputes/"+id+"/response", map[string]any{
		"receivedAt":   "2024-05-20T12:00:00Z",
		"responseType": "DELETED",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "RESPONSE_RECEIVED", decode[disputeResponse](t, rec).Status)

	rec = s.do(t, http.MethodPost, "/api/disputes/"+id+"/outcome", map[string]any{
		"outcome":        "SUCCESSFUL",
		"debtEliminated": "1250.00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	closed := decode[disputeResponse](t, rec)
	assert.Equal(t, "SUCCESSFUL", closed.Status)
	assert.Equal(t, "1250", closed.DebtEliminated.String())

	rec = s.do(t, http.MethodGet, "/api/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decode[snapshotResponse](t, rec)
	assert.Equal(t, 2, snap.Disputes.Total)
	assert.Equal(t, 1, snap.Disputes.Drafts)
	assert.Equal(t, 1, snap.Wins)
	assert.Equal(t, 100, snap.SuccessRate)
	assert.Equal(t, 1, snap.Items.Deleted)
	require.Len(t, snap.MonthlyWins, 6)
	assert.Equal(t, "2024-06", snap.MonthlyWins[5].Month)
	assert.Equal(t, 1, snap.MonthlyWins[5].Wins)
}

func TestRouter_RegenerateAndDelete(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	_, itemID := s.ingest(t)
	id := s.plan(t, itemID)[0].ID.String()

	rec := s.do(t, http.MethodPost, "/api/disputes/"+id+"/regenerate", map[string]any{"content": "Edited letter"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Edited letter", decode[disputeResponse](t, rec).LetterContent)

	rec = s.do(t, http.MethodPost, "/api/disputes/"+id+"/regenerate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEqual(t, "Edited letter", decode[disputeResponse](t, rec).LetterContent)

	rec = s.do(t, http.MethodDelete, "/api/disputes/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/disputes/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, codeNotFound, errorCode(t, rec))
}

func TestRouter_EscalateNotReady(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	_, itemID := s.ingest(t)
	id := s.plan(t, itemID)[0].ID.String()

	rec := s.do(t, http.MethodPost, "/api/disputes/"+id+"/escalate", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, codeInvalidTransition, errorCode(t, rec))
}

func TestRouter_DeleteReportRetainsDisputedItems(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	reportID, itemID := s.ingest(t)
	s.plan(t, itemID)

	rec := s.do(t, http.MethodDelete, "/api/reports/"+reportID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[deleteReportResponse](t, rec)
	assert.Equal(t, 0, resp.DeletedItems)
	assert.Equal(t, 1, resp.RetainedItems)

	rec = s.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[struct {
		Items []itemResponse `json:"items"`
	}](t, rec)
	require.Len(t, items.Items, 1)
	assert.Nil(t, items.Items[0].ReportID)
}

func TestRouter_RequestErrors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"malformed id", http.MethodGet, "/api/disputes/not-a-uuid", nil, http.StatusUnprocessableEntity, codeValidation},
		{"unknown field", http.MethodPost, "/api/plans", `{"itemIds":[],"bogus":1}`, http.StatusBadRequest, codeBadRequest},
		{"broken json", http.MethodPost, "/api/plans", `{"itemIds":`, http.StatusBadRequest, codeBadRequest},
		{"empty plan", http.MethodPost, "/api/plans", map[string]any{"itemIds": []string{}}, http.StatusUnprocessableEntity, codeValidation},
		{"bad limit", http.MethodGet, "/api/disputes?limit=abc", nil, http.StatusUnprocessableEntity, codeValidation},
		{"bad urgency", http.MethodGet, "/api/disputes?urgency=SOON", nil, http.StatusUnprocessableEntity, codeValidation},
		{"attention limit", http.MethodGet, "/api/snapshot?attentionLimit=500", nil, http.StatusUnprocessableEntity, codeValidation},
		{"unknown dispute", http.MethodPost, "/api/disputes/" + uuid.NewString() + "/mail", map[string]any{"mailedAt": "2024-06-10T12:00:00Z"}, http.StatusNotFound, codeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestRouter_Unauthenticated(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/api/snapshot", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, codeUnauthorized, errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPut, "/api/disputes", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

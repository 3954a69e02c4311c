package lettergen

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testItem() *domain.NegativeItem {
	balance := decimal.RequireFromString("812.5")
	return &domain.NegativeItem{
		ID:           uuid.New(),
		CreditorName: "Portfolio Recovery",
		AccountType:  domain.AccountTypeCollection,
		Balance:      &balance,
		OnEquifax:    true,
	}
}

func testClient(url string, retries uint64) *Client {
	return NewClient(ClientConfig{BaseURL: url, Timeout: time.Second, MaxRetries: retries, InitialBackoff: time.Millisecond}, newTestLogger())
}

func TestTemplate_Generate_AllLetterTypes(t *testing.T) {
	t.Parallel()

	gen := NewTemplate()
	for _, lt := range []domain.LetterType{
		domain.LetterTypeInitialDispute,
		domain.LetterTypeDebtValidation,
		domain.LetterTypeMethodOfVerification,
		domain.LetterTypeGoodwill,
		domain.LetterTypePayForDelete,
		domain.LetterTypeIntentToSue,
	} {
		got, err := gen.Generate(context.Background(), testItem(), lt, domain.TargetEquifax)
		if err != nil {
			t.Fatalf("Generate(%s): %v", lt, err)
		}
		if !strings.Contains(got, "Portfolio Recovery") {
			t.Errorf("Generate(%s) missing creditor name: %q", lt, got)
		}
	}
}

func TestTemplate_Generate_BalanceAndRecipient(t *testing.T) {
	t.Parallel()

	got, err := NewTemplate().Generate(context.Background(), testItem(), domain.LetterTypeDebtValidation, domain.TargetFurnisher)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(got, "$812.50") {
		t.Errorf("expected formatted balance in letter: %q", got)
	}
	if !strings.HasPrefix(got, "To Portfolio Recovery:") {
		t.Errorf("expected furnisher recipient, got %q", got)
	}
}

func TestTemplate_Generate_UnknownType(t *testing.T) {
	t.Parallel()

	if _, err := NewTemplate().Generate(context.Background(), testItem(), "POSTCARD", domain.TargetEquifax); err == nil {
		t.Fatal("expected error for unknown letter type")
	}
}

func TestClient_Generate_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/letters" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.LetterType != "DEBT_VALIDATION" || req.Target != "FURNISHER" || req.Balance == nil || *req.Balance != "812.50" {
			t.Errorf("unexpected payload: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":"Dear collector"}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL, 2).Generate(context.Background(), testItem(), domain.LetterTypeDebtValidation, domain.TargetFurnisher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Dear collector" {
		t.Errorf("content = %q", got)
	}
}

func TestClient_Generate_RetriesOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"content":"third time lucky"}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL, 3).Generate(context.Background(), testItem(), domain.LetterTypeInitialDispute, domain.TargetExperian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "third time lucky" {
		t.Errorf("content = %q", got)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("expected 3 calls, got %d", n)
	}
}

func TestClient_Generate_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 2).Generate(context.Background(), testItem(), domain.LetterTypeInitialDispute, domain.TargetExperian)
	if err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("expected 1 call + 2 retries, got %d", n)
	}
}

func TestClient_Generate_NoRetryOn4xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5).Generate(context.Background(), testItem(), domain.LetterTypeInitialDispute, domain.TargetExperian)
	if err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected a single call, got %d", n)
	}
}

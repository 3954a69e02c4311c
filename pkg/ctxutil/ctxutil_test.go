package ctxutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestWithUserID_And_UserIDFromCtx(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got, ok := UserIDFromCtx(WithUserID(context.Background(), id))
	if !ok {
		t.Fatal("expected ok=true for valid UUID")
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestUserIDFromCtx_Missing(t *testing.T) {
	t.Parallel()

	for name, ctx := range map[string]context.Context{
		"empty":    context.Background(),
		"nil uuid": WithUserID(context.Background(), uuid.Nil),
	} {
		got, ok := UserIDFromCtx(ctx)
		if ok || got != uuid.Nil {
			t.Errorf("%s: expected (uuid.Nil, false), got (%s, %v)", name, got, ok)
		}
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromCtx(WithRequestID(context.Background(), "req-123")); got != "req-123" {
		t.Fatalf("expected req-123, got %s", got)
	}
	if got := RequestIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %s", got)
	}
}

func TestContextHandler_AddsAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil))).With("service", "dispute")

	id := uuid.New()
	ctx := WithUserID(WithRequestID(context.Background(), "req-9"), id)
	logger.InfoContext(ctx, "dispute mailed")

	out := buf.String()
	for _, want := range []string{"request_id=req-9", "user_id=" + id.String(), "service=dispute"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestContextHandler_DoesNotDuplicateUserID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil)))

	id := uuid.New()
	logger.InfoContext(WithUserID(context.Background(), id), "explicit", slog.String("user_id", id.String()))

	if n := strings.Count(buf.String(), "user_id="); n != 1 {
		t.Errorf("expected user_id once, got %d in %q", n, buf.String())
	}
}

func TestContextHandler_PlainContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slog.New(NewContextHandler(slog.NewTextHandler(&buf, nil))).Info("startup")

	if strings.Contains(buf.String(), "request_id") || strings.Contains(buf.String(), "user_id") {
		t.Errorf("unexpected context attributes in %q", buf.String())
	}
}

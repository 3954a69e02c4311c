package reminder

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
)

var now = time.Date(2024, 2, 5, 7, 0, 0, 0, time.UTC)

type disputeRepoMock struct {
	ListInFlightFunc func(ctx context.Context, dueBy time.Time) ([]*domain.Dispute, error)

	mu    sync.Mutex
	calls []time.Time
}

func (m *disputeRepoMock) ListInFlight(ctx context.Context, dueBy time.Time) ([]*domain.Dispute, error) {
	if m.ListInFlightFunc == nil {
		panic("disputeRepoMock.ListInFlightFunc: method is nil but ListInFlight was just called")
	}
	m.mu.Lock()
	m.calls = append(m.calls, dueBy)
	m.mu.Unlock()
	return m.ListInFlightFunc(ctx, dueBy)
}

type notifierMock struct {
	NotifyFunc func(ctx context.Context, r Reminder) error

	mu   sync.Mutex
	sent []Reminder
}

func (m *notifierMock) Notify(ctx context.Context, r Reminder) error {
	m.mu.Lock()
	m.sent = append(m.sent, r)
	m.mu.Unlock()
	if m.NotifyFunc == nil {
		return nil
	}
	return m.NotifyFunc(ctx, r)
}

func inFlight(mailed, due time.Time) *domain.Dispute {
	return &domain.Dispute{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		NegativeItemID:  uuid.New(),
		Target:          domain.TargetEquifax,
		LetterType:      domain.LetterTypeInitialDispute,
		Status:          domain.DisputeStatusMailed,
		MailedAt:        &mailed,
		ResponseDueDate: &due,
		Version:         2,
	}
}

func TestRun_NotifiesOverdueAndUpcoming(t *testing.T) {
	t.Parallel()

	overdue := inFlight(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	upcoming := inFlight(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC))
	later := inFlight(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 19, 0, 0, 0, 0, time.UTC))

	repo := &disputeRepoMock{ListInFlightFunc: func(context.Context, time.Time) ([]*domain.Dispute, error) {
		return []*domain.Dispute{overdue, upcoming, later}, nil
	}}
	notifier := &notifierMock{}
	svc := NewService(slog.Default(), repo, notifier, lifecycle.DefaultPolicy(), clockwork.NewFakeClockAt(now), 14)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != (Result{Scanned: 3, Sent: 2}) {
		t.Errorf("result = %+v", res)
	}

	if len(repo.calls) != 1 {
		t.Fatalf("ListInFlight calls = %d, want 1", len(repo.calls))
	}
	if want := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC); !repo.calls[0].Equal(want) {
		t.Errorf("dueBy = %v, want %v", repo.calls[0], want)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(notifier.sent))
	}
	if got := notifier.sent[0]; got.DisputeID != overdue.ID || got.Urgency.Kind != domain.UrgencyOverdue || got.Urgency.Days != 5 {
		t.Errorf("first reminder = %+v", got)
	}
	if got := notifier.sent[1]; got.DisputeID != upcoming.ID || got.Urgency.Kind != domain.UrgencyUpcoming || got.Urgency.Days != 4 {
		t.Errorf("second reminder = %+v", got)
	}
	if notifier.sent[0].UserID != overdue.UserID {
		t.Error("reminder must carry the dispute owner")
	}
}

func TestRun_DeliveryFailureContinues(t *testing.T) {
	t.Parallel()

	a := inFlight(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	b := inFlight(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	repo := &disputeRepoMock{ListInFlightFunc: func(context.Context, time.Time) ([]*domain.Dispute, error) {
		return []*domain.Dispute{a, b}, nil
	}}
	notifier := &notifierMock{NotifyFunc: func(_ context.Context, r Reminder) error {
		if r.DisputeID == a.ID {
			return errors.New("smtp timeout")
		}
		return nil
	}}
	svc := NewService(slog.Default(), repo, notifier, lifecycle.DefaultPolicy(), clockwork.NewFakeClockAt(now), 7)

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != (Result{Scanned: 2, Sent: 1, Failed: 1}) {
		t.Errorf("result = %+v", res)
	}
}

func TestRun_ListError(t *testing.T) {
	t.Parallel()

	repo := &disputeRepoMock{ListInFlightFunc: func(context.Context, time.Time) ([]*domain.Dispute, error) {
		return nil, domain.ErrStorageUnavailable
	}}
	svc := NewService(slog.Default(), repo, &notifierMock{}, lifecycle.DefaultPolicy(), clockwork.NewFakeClockAt(now), 7)

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	d := inFlight(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	repo := &disputeRepoMock{ListInFlightFunc: func(context.Context, time.Time) ([]*domain.Dispute, error) {
		return []*domain.Dispute{d}, nil
	}}
	notifier := &notifierMock{}
	svc := NewService(slog.Default(), repo, notifier, lifecycle.DefaultPolicy(), clockwork.NewFakeClockAt(now), 7)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("sent = %d, want 0", len(notifier.sent))
	}
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))
	d := inFlight(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	err := n.Notify(context.Background(), Reminder{
		UserID:          d.UserID,
		DisputeID:       d.ID,
		Target:          d.Target,
		LetterType:      d.LetterType,
		ResponseDueDate: *d.ResponseDueDate,
		Urgency:         domain.Urgency{Kind: domain.UrgencyOverdue, Days: 5},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"urgency":"OVERDUE"`, `"days":5`, d.ID.String(), `"notifier":"log"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

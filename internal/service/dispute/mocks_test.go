package dispute

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

var _ disputeRepo = &disputeRepoMock{}

// disputeRepoMock stubs the repository. Methods without a Func panic.
type disputeRepoMock struct {
	GetByIDFunc       func(ctx context.Context, userID, id uuid.UUID) (*domain.Dispute, error)
	ListFunc          func(ctx context.Context, userID uuid.UUID, filter domain.DisputeFilter) ([]*domain.Dispute, int, error)
	MarkMailedFunc    func(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.MailedUpdate) (*domain.Dispute, error)
	LogResponseFunc   func(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.ResponseUpdate) (*domain.Dispute, error)
	RecordOutcomeFunc func(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.OutcomeUpdate) (*domain.Dispute, error)
	UpdateLetterFunc  func(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, content string) (*domain.Dispute, error)
	DeleteFunc        func(ctx context.Context, userID, id uuid.UUID, guard domain.Guard) error

	mu    sync.Mutex
	calls struct {
		MarkMailed []domain.Guard
		List       []domain.DisputeFilter
	}
}

func (m *disputeRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Dispute, error) {
	if m.GetByIDFunc == nil {
		panic("disputeRepoMock.GetByIDFunc: method is nil but disputeRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, userID, id)
}

func (m *disputeRepoMock) List(ctx context.Context, userID uuid.UUID, filter domain.DisputeFilter) ([]*domain.Dispute, int, error) {
	if m.ListFunc == nil {
		panic("disputeRepoMock.ListFunc: method is nil but disputeRepo.List was just called")
	}
	m.mu.Lock()
	m.calls.List = append(m.calls.List, filter)
	m.mu.Unlock()
	return m.ListFunc(ctx, userID, filter)
}

func (m *disputeRepoMock) ListCalls() []domain.DisputeFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.List
}

func (m *disputeRepoMock) MarkMailed(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.MailedUpdate) (*domain.Dispute, error) {
	if m.MarkMailedFunc == nil {
		panic("disputeRepoMock.MarkMailedFunc: method is nil but disputeRepo.MarkMailed was just called")
	}
	m.mu.Lock()
	m.calls.MarkMailed = append(m.calls.MarkMailed, guard)
	m.mu.Unlock()
	return m.MarkMailedFunc(ctx, userID, id, guard, upd)
}

func (m *disputeRepoMock) MarkMailedCalls() []domain.Guard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.MarkMailed
}

func (m *disputeRepoMock) LogResponse(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.ResponseUpdate) (*domain.Dispute, error) {
	if m.LogResponseFunc == nil {
		panic("disputeRepoMock.LogResponseFunc: method is nil but disputeRepo.LogResponse was just called")
	}
	return m.LogResponseFunc(ctx, userID, id, guard, upd)
}

func (m *disputeRepoMock) RecordOutcome(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.OutcomeUpdate) (*domain.Dispute, error) {
	if m.RecordOutcomeFunc == nil {
		panic("disputeRepoMock.RecordOutcomeFunc: method is nil but disputeRepo.RecordOutcome was just called")
	}
	return m.RecordOutcomeFunc(ctx, userID, id, guard, upd)
}

func (m *disputeRepoMock) UpdateLetter(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, content string) (*domain.Dispute, error) {
	if m.UpdateLetterFunc == nil {
		panic("disputeRepoMock.UpdateLetterFunc: method is nil but disputeRepo.UpdateLetter was just called")
	}
	return m.UpdateLetterFunc(ctx, userID, id, guard, content)
}

func (m *disputeRepoMock) Delete(ctx context.Context, userID, id uuid.UUID, guard domain.Guard) error {
	if m.DeleteFunc == nil {
		panic("disputeRepoMock.DeleteFunc: method is nil but disputeRepo.Delete was just called")
	}
	return m.DeleteFunc(ctx, userID, id, guard)
}

var _ letterGenerator = &letterGeneratorMock{}

type letterGeneratorMock struct {
	GenerateFunc func(ctx context.Context, item *domain.NegativeItem, letterType domain.LetterType, target domain.Target) (string, error)

	mu    sync.Mutex
	calls []struct {
		ItemID     uuid.UUID
		LetterType domain.LetterType
		Target     domain.Target
	}
}

func (m *letterGeneratorMock) Generate(ctx context.Context, item *domain.NegativeItem, letterType domain.LetterType, target domain.Target) (string, error) {
	if m.GenerateFunc == nil {
		panic("letterGeneratorMock.GenerateFunc: method is nil but letterGenerator.Generate was just called")
	}
	m.mu.Lock()
	m.calls = append(m.calls, struct {
		ItemID     uuid.UUID
		LetterType domain.LetterType
		Target     domain.Target
	}{item.ID, letterType, target})
	m.mu.Unlock()
	return m.GenerateFunc(ctx, item, letterType, target)
}

func (m *letterGeneratorMock) GenerateCalls() []struct {
	ItemID     uuid.UUID
	LetterType domain.LetterType
	Target     domain.Target
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

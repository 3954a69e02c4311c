package planner

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/creditdispute-backend/internal/adapter/memory"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

var now = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

type stubLetters struct {
	fail map[domain.Target]bool
}

func (s stubLetters) Generate(_ context.Context, item *domain.NegativeItem, lt domain.LetterType, target domain.Target) (string, error) {
	if s.fail[target] {
		return "", errors.New("generator unavailable")
	}
	return string(lt) + " to " + string(target) + " re " + item.CreditorName, nil
}

type fixture struct {
	svc    *Service
	store  *memory.Store
	userID uuid.UUID
	ctx    context.Context
}

func newFixture(t *testing.T, letters letterGenerator) *fixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(now)
	store := memory.NewStore(clock)
	if letters == nil {
		letters = stubLetters{}
	}
	userID := uuid.New()
	svc := NewService(slog.Default(), store.Items(), store.Disputes(), letters, store.TxManager(),
		lifecycle.DefaultPolicy(), clock, DefaultConfig())
	return &fixture{svc: svc, store: store, userID: userID, ctx: ctxutil.WithUserID(context.Background(), userID)}
}

func (f *fixture) item(t *testing.T, at domain.AccountType, eq, ex, tu bool) *domain.NegativeItem {
	t.Helper()
	it := &domain.NegativeItem{
		ID:           uuid.New(),
		UserID:       f.userID,
		CreditorName: "Portfolio Recovery",
		AccountType:  at,
		OnEquifax:    eq,
		OnExperian:   ex,
		OnTransunion: tu,
		CreatedAt:    now,
	}
	require.NoError(t, f.store.Items().CreateBatch(context.Background(), []*domain.NegativeItem{it}))
	return it
}

func keysOf(ds []*domain.Dispute) []domain.DisputeKey {
	out := make([]domain.DisputeKey, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Key())
	}
	return out
}

func TestPlanDisputes_DualInitialDisputeFlaggedBureausOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	a := f.item(t, domain.AccountTypeLatePayment, true, true, false)

	res, err := f.svc.PlanDisputes(f.ctx, PlanInput{
		ItemIDs:    []uuid.UUID{a.ID},
		Strategy:   domain.StrategyDual,
		LetterType: domain.LetterTypeInitialDispute,
	})
	require.NoError(t, err)

	require.Len(t, res.Created, 2)
	assert.Empty(t, res.Skipped)
	assert.ElementsMatch(t, []domain.DisputeKey{
		{NegativeItemID: a.ID, Target: domain.TargetEquifax, LetterType: domain.LetterTypeInitialDispute},
		{NegativeItemID: a.ID, Target: domain.TargetExperian, LetterType: domain.LetterTypeInitialDispute},
	}, keysOf(res.Created))
	for _, d := range res.Created {
		assert.Equal(t, domain.DisputeStatusDraft, d.Status)
		assert.Nil(t, d.ResponseDueDate)
		assert.NotEmpty(t, d.LetterContent)
	}
}

func TestPlanDisputes_DualAddsDebtValidationForCollections(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	c := f.item(t, domain.AccountTypeCollection, true, false, true)

	res, err := f.svc.PlanDisputes(f.ctx, PlanInput{ItemIDs: []uuid.UUID{c.ID}, Strategy: domain.StrategyDual})
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.DisputeKey{
		{NegativeItemID: c.ID, Target: domain.TargetEquifax, LetterType: domain.LetterTypeInitialDispute},
		{NegativeItemID: c.ID, Target: domain.TargetTransUnion, LetterType: domain.LetterTypeInitialDispute},
		{NegativeItemID: c.ID, Target: domain.TargetFurnisher, LetterType: domain.LetterTypeDebtValidation},
	}, keysOf(res.Created))
}

func TestPlanDisputes_Idempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	a := f.item(t, domain.AccountTypeChargeOff, true, true, true)
	in := PlanInput{ItemIDs: []uuid.UUID{a.ID}, Strategy: domain.StrategySingle}

	first, err := f.svc.PlanDisputes(f.ctx, in)
	require.NoError(t, err)
	require.Len(t, first.Created, 3)

	second, err := f.svc.PlanDisputes(f.ctx, in)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	require.Len(t, second.Skipped, 3)
	for _, sk := range second.Skipped {
		assert.Equal(t, SkipAlreadyOpen, sk.Reason)
		assert.ErrorIs(t, sk.Reason.Err(), domain.ErrConflict)
	}

	all, err := f.store.Disputes().ListByUser(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPlanDisputes_PartialSuccessWithRejectedItems(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	good := f.item(t, domain.AccountTypeMedical, false, true, false)
	bare := f.item(t, domain.AccountTypeMedical, false, false, false)
	missing := uuid.New()

	other := &domain.NegativeItem{ID: uuid.New(), UserID: uuid.New(), CreditorName: "X", AccountType: domain.AccountTypeMedical, OnEquifax: true}
	require.NoError(t, f.store.Items().CreateBatch(context.Background(), []*domain.NegativeItem{other}))

	res, err := f.svc.PlanDisputes(f.ctx, PlanInput{ItemIDs: []uuid.UUID{good.ID, bare.ID, missing, other.ID, good.ID}})
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	assert.Equal(t, domain.TargetExperian, res.Created[0].Target)

	reasons := map[uuid.UUID]SkipReason{}
	for _, sk := range res.Skipped {
		reasons[sk.NegativeItemID] = sk.Reason
		assert.ErrorIs(t, sk.Reason.Err(), domain.ErrInvalidItemReference)
		assert.Nil(t, sk.Target)
	}
	assert.Equal(t, map[uuid.UUID]SkipReason{
		bare.ID:  SkipNoBureauPresence,
		missing:  SkipItemNotFound,
		other.ID: SkipItemNotFound,
	}, reasons)
}

func TestPlanDisputes_SpecificTarget(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	onEq := f.item(t, domain.AccountTypeLatePayment, true, true, false)
	notEq := f.item(t, domain.AccountTypeLatePayment, false, true, false)

	target := domain.TargetEquifax
	res, err := f.svc.PlanDisputes(f.ctx, PlanInput{ItemIDs: []uuid.UUID{onEq.ID, notEq.ID}, Target: &target})
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	assert.Equal(t, onEq.ID, res.Created[0].NegativeItemID)
	assert.Equal(t, domain.TargetEquifax, res.Created[0].Target)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkipNotReported, res.Skipped[0].Reason)
	assert.Equal(t, notEq.ID, res.Skipped[0].NegativeItemID)
}

func TestPlanDisputes_ByAccountType(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	late := f.item(t, domain.AccountTypeLatePayment, true, false, false)
	auto := f.item(t, domain.AccountTypeAutoLoan, false, false, true)

	res, err := f.svc.PlanDisputes(f.ctx, PlanInput{ItemIDs: []uuid.UUID{late.ID, auto.ID}, Strategy: domain.StrategyByAccountType})
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.DisputeKey{
		{NegativeItemID: late.ID, Target: domain.TargetFurnisher, LetterType: domain.LetterTypeGoodwill},
		{NegativeItemID: auto.ID, Target: domain.TargetTransUnion, LetterType: domain.LetterTypeInitialDispute},
	}, keysOf(res.Created))
}

func TestPlanDisputes_GenerationFailureSkipsTuple(t *testing.T) {
	t.Parallel()
	f := newFixture(t, stubLetters{fail: map[domain.Target]bool{domain.TargetExperian: true}})
	a := f.item(t, domain.AccountTypeLatePayment, true, true, false)

	res, err := f.svc.PlanDisputes(f.ctx, PlanInput{ItemIDs: []uuid.UUID{a.ID}})
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	assert.Equal(t, domain.TargetEquifax, res.Created[0].Target)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkipGenerationFailure, res.Skipped[0].Reason)
	require.NotNil(t, res.Skipped[0].Target)
	assert.Equal(t, domain.TargetExperian, *res.Skipped[0].Target)
}

func TestPlanDisputes_InvalidInput(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	tests := []PlanInput{
		{},
		{ItemIDs: []uuid.UUID{uuid.Nil}},
		{ItemIDs: []uuid.UUID{uuid.New()}, Strategy: "TRIPLE"},
		{ItemIDs: []uuid.UUID{uuid.New()}, LetterType: "THANK_YOU"},
		{ItemIDs: make([]uuid.UUID, DefaultConfig().MaxItems+1)},
	}
	for _, in := range tests {
		_, err := f.svc.PlanDisputes(f.ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestPlanDisputes_NoUserID(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	_, err := f.svc.PlanDisputes(context.Background(), PlanInput{ItemIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

package portfolio

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/creditdispute-backend/internal/calendar"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
)

// Onboarding step keys, in checklist order.
const (
	StepUploadReport   = "upload_report"
	StepSelectItems    = "select_items"
	StepGenerateLetter = "generate_letter"
	StepMailLetter     = "mail_letter"
)

type buildInput struct {
	userID      uuid.UUID
	displayName string
	now         time.Time
	items       []*domain.NegativeItem
	disputes    []*domain.Dispute
	reportCount int
	limit       int
	months      int
	policy      lifecycle.Policy
}

func build(in buildInput) *domain.PortfolioSnapshot {
	snap := &domain.PortfolioSnapshot{
		UserID:         in.userID,
		DisplayName:    in.displayName,
		GeneratedAt:    in.now,
		DebtEliminated: decimal.Zero,
	}

	snap.Items = countItems(in.items, in.disputes)
	snap.Disputes = countDisputes(in.disputes, in.policy, in.now)

	terminal := 0
	for _, d := range in.disputes {
		if d.Outcome == nil {
			continue
		}
		terminal++
		if d.Outcome.IsFavorable() {
			snap.Wins++
			snap.DebtEliminated = snap.DebtEliminated.Add(d.DebtEliminated)
		}
	}
	snap.SuccessRate = percent(snap.Wins, terminal)
	snap.MonthlyWins = monthlyWins(in.disputes, in.now, in.months)
	snap.Attention = attention(in.disputes, in.items, in.policy, in.now, in.limit)
	snap.Onboarding = onboarding(in.reportCount, in.disputes)

	done := 0
	for _, step := range snap.Onboarding {
		if step.Completed {
			done++
		}
	}
	snap.OnboardingCompletion = percent(done, len(snap.Onboarding))

	return snap
}

// percent returns n/total as a floored integer percentage, 0 when total is 0.
func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return n * 100 / total
}

// countItems treats an item as deleted once any of its disputes ended
// SUCCESSFUL. PARTIAL leaves it active.
func countItems(items []*domain.NegativeItem, disputes []*domain.Dispute) domain.ItemCounts {
	removed := make(map[uuid.UUID]bool)
	for _, d := range disputes {
		if d.Outcome != nil && *d.Outcome == domain.OutcomeSuccessful {
			removed[d.NegativeItemID] = true
		}
	}

	c := domain.ItemCounts{Total: len(items)}
	for _, it := range items {
		if removed[it.ID] {
			c.Deleted++
		}
	}
	c.Active = c.Total - c.Deleted
	return c
}

func countDisputes(disputes []*domain.Dispute, policy lifecycle.Policy, now time.Time) domain.DisputeCounts {
	c := domain.DisputeCounts{
		Total:    len(disputes),
		ByStatus: make(map[domain.DisputeStatus]int),
	}
	for _, d := range disputes {
		c.ByStatus[lifecycle.DisplayStatus(d, now)]++
		switch {
		case d.Status == domain.DisputeStatusDraft:
			c.Drafts++
		case d.Status.IsInFlight():
			c.Mailed++
		}
		if policy.Classify(d, now).Kind == domain.UrgencyOverdue {
			c.Overdue++
		}
	}
	return c
}

// monthlyWins buckets SUCCESSFUL disputes by the month their outcome was
// recorded, over the trailing months ending with now's month.
func monthlyWins(disputes []*domain.Dispute, now time.Time, months int) []domain.MonthWins {
	starts := calendar.TrailingMonths(now, months)
	out := make([]domain.MonthWins, len(starts))
	index := make(map[time.Time]int, len(starts))
	for i, m := range starts {
		out[i] = domain.MonthWins{Month: m}
		index[m] = i
	}

	for _, d := range disputes {
		if d.Outcome == nil || *d.Outcome != domain.OutcomeSuccessful || d.OutcomeAt == nil {
			continue
		}
		if i, ok := index[calendar.MonthStart(*d.OutcomeAt)]; ok {
			out[i].Wins++
		}
	}
	return out
}

func attention(disputes []*domain.Dispute, items []*domain.NegativeItem, policy lifecycle.Policy, now time.Time, limit int) domain.Attention {
	names := make(map[uuid.UUID]string, len(items))
	for _, it := range items {
		names[it.ID] = it.CreditorName
	}

	var a domain.Attention
	for _, d := range disputes {
		u := policy.Classify(d, now)
		if u.Kind == domain.UrgencyNone {
			continue
		}
		entry := domain.AttentionItem{
			DisputeID:       d.ID,
			NegativeItemID:  d.NegativeItemID,
			CreditorName:    names[d.NegativeItemID],
			Target:          d.Target,
			LetterType:      d.LetterType,
			Status:          lifecycle.DisplayStatus(d, now),
			ResponseDueDate: d.ResponseDueDate,
			ResponseType:    d.ResponseType,
			Days:            u.Days,
		}
		switch u.Kind {
		case domain.UrgencyOverdue:
			a.Overdue = append(a.Overdue, entry)
		case domain.UrgencyUpcoming:
			a.Upcoming = append(a.Upcoming, entry)
		case domain.UrgencyEscalate:
			a.Escalate = append(a.Escalate, entry)
		}
	}

	// Most overdue first, soonest due first; escalations keep list order.
	slices.SortStableFunc(a.Overdue, func(x, y domain.AttentionItem) int {
		return cmp.Or(cmp.Compare(y.Days, x.Days), cmp.Compare(x.DisputeID.String(), y.DisputeID.String()))
	})
	slices.SortStableFunc(a.Upcoming, func(x, y domain.AttentionItem) int {
		return cmp.Or(cmp.Compare(x.Days, y.Days), cmp.Compare(x.DisputeID.String(), y.DisputeID.String()))
	})

	a.Overdue = capped(a.Overdue, limit)
	a.Upcoming = capped(a.Upcoming, limit)
	a.Escalate = capped(a.Escalate, limit)
	return a
}

func capped(list []domain.AttentionItem, limit int) []domain.AttentionItem {
	if list == nil {
		return []domain.AttentionItem{}
	}
	if len(list) > limit {
		return list[:limit]
	}
	return list
}

// onboarding derives the checklist from store state on every call.
func onboarding(reportCount int, disputes []*domain.Dispute) []domain.OnboardingStep {
	var generated, mailed bool
	for _, d := range disputes {
		if d.LetterContent != "" {
			generated = true
		}
		if d.MailedAt != nil {
			mailed = true
		}
	}

	return []domain.OnboardingStep{
		{Key: StepUploadReport, Title: "Upload a credit report", Completed: reportCount > 0},
		{Key: StepSelectItems, Title: "Select items to dispute", Completed: len(disputes) > 0},
		{Key: StepGenerateLetter, Title: "Generate your first letter", Completed: generated},
		{Key: StepMailLetter, Title: "Mail your first letter", Completed: mailed},
	}
}

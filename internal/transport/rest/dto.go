package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/planner"
)

// ---------------------------------------------------------------------------
// Negative items and reports
// ---------------------------------------------------------------------------

type itemResponse struct {
	ID                 uuid.UUID        `json:"id"`
	ReportID           *uuid.UUID       `json:"reportId,omitempty"`
	CreditorName       string           `json:"creditorName"`
	OriginalCreditor   *string          `json:"originalCreditor,omitempty"`
	AccountType        string           `json:"accountType"`
	Balance            *decimal.Decimal `json:"balance,omitempty"`
	DateOpened         *time.Time       `json:"dateOpened,omitempty"`
	AccountStatus      string           `json:"accountStatus,omitempty"`
	MonthsUntilFallOff *int             `json:"monthsUntilFallOff,omitempty"`
	OnEquifax          bool             `json:"onEquifax"`
	OnExperian         bool             `json:"onExperian"`
	OnTransunion       bool             `json:"onTransunion"`
	CreatedAt          time.Time        `json:"createdAt"`
}

func toItemResponse(it *domain.NegativeItem) *itemResponse {
	if it == nil {
		return nil
	}
	return &itemResponse{
		ID:                 it.ID,
		ReportID:           it.ReportID,
		CreditorName:       it.CreditorName,
		OriginalCreditor:   it.OriginalCreditor,
		AccountType:        it.AccountType.String(),
		Balance:            it.Balance,
		DateOpened:         it.DateOpened,
		AccountStatus:      it.AccountStatus,
		MonthsUntilFallOff: it.MonthsUntilFallOff,
		OnEquifax:          it.OnEquifax,
		OnExperian:         it.OnExperian,
		OnTransunion:       it.OnTransunion,
		CreatedAt:          it.CreatedAt,
	}
}

func toItemResponses(items []*domain.NegativeItem) []*itemResponse {
	out := make([]*itemResponse, len(items))
	for i, it := range items {
		out[i] = toItemResponse(it)
	}
	return out
}

type reportResponse struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"fileName"`
	Bureau     *string   `json:"bureau,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toReportResponse(r *domain.Report) reportResponse {
	resp := reportResponse{ID: r.ID, FileName: r.FileName, UploadedAt: r.UploadedAt}
	if r.Bureau != nil {
		b := r.Bureau.String()
		resp.Bureau = &b
	}
	return resp
}

// ---------------------------------------------------------------------------
// Disputes
// ---------------------------------------------------------------------------

type urgencyResponse struct {
	Kind string `json:"kind"`
	Days int    `json:"days"`
}

type disputeResponse struct {
	ID                 uuid.UUID        `json:"id"`
	NegativeItemID     uuid.UUID        `json:"negativeItemId"`
	Target             string           `json:"target"`
	LetterType         string           `json:"letterType"`
	LetterContent      string           `json:"letterContent"`
	Status             string           `json:"status"`
	MailedAt           *time.Time       `json:"mailedAt,omitempty"`
	TrackingNumber     *string          `json:"trackingNumber,omitempty"`
	ResponseDueDate    *time.Time       `json:"responseDueDate,omitempty"`
	ResponseReceivedAt *time.Time       `json:"responseReceivedAt,omitempty"`
	ResponseType       *string          `json:"responseType,omitempty"`
	ResponseNotes      *string          `json:"responseNotes,omitempty"`
	Outcome            *string          `json:"outcome,omitempty"`
	OutcomeAt          *time.Time       `json:"outcomeAt,omitempty"`
	DebtEliminated     decimal.Decimal  `json:"debtEliminated"`
	Urgency            *urgencyResponse `json:"urgency,omitempty"`
	Item               *itemResponse    `json:"item,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func toDisputeResponse(d *domain.Dispute) *disputeResponse {
	return &disputeResponse{
		ID:                 d.ID,
		NegativeItemID:     d.NegativeItemID,
		Target:             d.Target.String(),
		LetterType:         d.LetterType.String(),
		LetterContent:      d.LetterContent,
		Status:             d.Status.String(),
		MailedAt:           d.MailedAt,
		TrackingNumber:     d.TrackingNumber,
		ResponseDueDate:    d.ResponseDueDate,
		ResponseReceivedAt: d.ResponseReceivedAt,
		ResponseType:       stringPtr(d.ResponseType),
		ResponseNotes:      d.ResponseNotes,
		Outcome:            stringPtr(d.Outcome),
		OutcomeAt:          d.OutcomeAt,
		DebtEliminated:     d.DebtEliminated,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

func toDisputeViewResponse(v *domain.DisputeView) *disputeResponse {
	resp := toDisputeResponse(&v.Dispute)
	resp.Status = v.DisplayStatus.String()
	if v.Urgency.Kind != domain.UrgencyNone {
		resp.Urgency = &urgencyResponse{Kind: v.Urgency.Kind.String(), Days: v.Urgency.Days}
	}
	resp.Item = toItemResponse(v.Item)
	return resp
}

func toDisputeResponses(ds []*domain.Dispute) []*disputeResponse {
	out := make([]*disputeResponse, len(ds))
	for i, d := range ds {
		out[i] = toDisputeResponse(d)
	}
	return out
}

type disputeListResponse struct {
	Disputes []*disputeResponse `json:"disputes"`
	Total    int                `json:"total"`
}

type skipResponse struct {
	NegativeItemID uuid.UUID `json:"negativeItemId"`
	Target         *string   `json:"target,omitempty"`
	LetterType     *string   `json:"letterType,omitempty"`
	Reason         string    `json:"reason"`
}

type planResponse struct {
	Created []*disputeResponse `json:"created"`
	Skipped []skipResponse     `json:"skipped"`
}

func toPlanResponse(res *planner.PlanResult) planResponse {
	skipped := make([]skipResponse, len(res.Skipped))
	for i, s := range res.Skipped {
		skipped[i] = skipResponse{
			NegativeItemID: s.NegativeItemID,
			Target:         stringPtr(s.Target),
			LetterType:     stringPtr(s.LetterType),
			Reason:         string(s.Reason),
		}
	}
	return planResponse{Created: toDisputeResponses(res.Created), Skipped: skipped}
}

// ---------------------------------------------------------------------------
// Portfolio snapshot
// ---------------------------------------------------------------------------

type attentionItemResponse struct {
	DisputeID       uuid.UUID  `json:"disputeId"`
	NegativeItemID  uuid.UUID  `json:"negativeItemId"`
	CreditorName    string     `json:"creditorName"`
	Target          string     `json:"target"`
	LetterType      string     `json:"letterType"`
	Status          string     `json:"status"`
	ResponseDueDate *time.Time `json:"responseDueDate,omitempty"`
	ResponseType    *string    `json:"responseType,omitempty"`
	Days            int        `json:"days"`
}

type monthWinsResponse struct {
	Month string `json:"month"`
	Wins  int    `json:"wins"`
}

type onboardingStepResponse struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type snapshotResponse struct {
	DisplayName string    `json:"displayName"`
	GeneratedAt time.Time `json:"generatedAt"`
	Items       struct {
		Total   int `json:"total"`
		Active  int `json:"active"`
		Deleted int `json:"deleted"`
	} `json:"items"`
	Disputes struct {
		Total    int            `json:"total"`
		Drafts   int            `json:"drafts"`
		Mailed   int            `json:"mailed"`
		Overdue  int            `json:"overdue"`
		ByStatus map[string]int `json:"byStatus"`
	} `json:"disputes"`
	Wins           int                 `json:"wins"`
	DebtEliminated decimal.Decimal     `json:"debtEliminated"`
	SuccessRate    int                 `json:"successRate"`
	MonthlyWins    []monthWinsResponse `json:"monthlyWins"`
	Attention      struct {
		Overdue  []attentionItemResponse `json:"overdue"`
		Upcoming []attentionItemResponse `json:"upcoming"`
		Escalate []attentionItemResponse `json:"readyToEscalate"`
	} `json:"attention"`
	Onboarding           []onboardingStepResponse `json:"onboarding"`
	OnboardingCompletion int                      `json:"onboardingCompletion"`
}

func toSnapshotResponse(s *domain.PortfolioSnapshot) snapshotResponse {
	var resp snapshotResponse
	resp.DisplayName = s.DisplayName
	resp.GeneratedAt = s.GeneratedAt

	resp.Items.Total = s.Items.Total
	resp.Items.Active = s.Items.Active
	resp.Items.Deleted = s.Items.Deleted

	resp.Disputes.Total = s.Disputes.Total
	resp.Disputes.Drafts = s.Disputes.Drafts
	resp.Disputes.Mailed = s.Disputes.Mailed
	resp.Disputes.Overdue = s.Disputes.Overdue
	resp.Disputes.ByStatus = make(map[string]int, len(s.Disputes.ByStatus))
	for st, n := range s.Disputes.ByStatus {
		resp.Disputes.ByStatus[st.String()] = n
	}

	resp.Wins = s.Wins
	resp.DebtEliminated = s.DebtEliminated
	resp.SuccessRate = s.SuccessRate

	resp.MonthlyWins = make([]monthWinsResponse, len(s.MonthlyWins))
	for i, m := range s.MonthlyWins {
		resp.MonthlyWins[i] = monthWinsResponse{Month: m.Month.Format("2006-01"), Wins: m.Wins}
	}

	resp.Attention.Overdue = toAttentionResponses(s.Attention.Overdue)
	resp.Attention.Upcoming = toAttentionResponses(s.Attention.Upcoming)
	resp.Attention.Escalate = toAttentionResponses(s.Attention.Escalate)

	resp.Onboarding = make([]onboardingStepResponse, len(s.Onboarding))
	for i, st := range s.Onboarding {
		resp.Onboarding[i] = onboardingStepResponse{Key: st.Key, Title: st.Title, Completed: st.Completed}
	}
	resp.OnboardingCompletion = s.OnboardingCompletion

	return resp
}

func toAttentionResponses(items []domain.AttentionItem) []attentionItemResponse {
	out := make([]attentionItemResponse, len(items))
	for i, it := range items {
		out[i] = attentionItemResponse{
			DisputeID:       it.DisputeID,
			NegativeItemID:  it.NegativeItemID,
			CreditorName:    it.CreditorName,
			Target:          it.Target.String(),
			LetterType:      it.LetterType.String(),
			Status:          it.Status.String(),
			ResponseDueDate: it.ResponseDueDate,
			ResponseType:    stringPtr(it.ResponseType),
			Days:            it.Days,
		}
	}
	return out
}

func stringPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

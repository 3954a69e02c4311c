package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute"
	"github.com/heartmarshall/creditdispute-backend/internal/service/planner"
	"github.com/heartmarshall/creditdispute-backend/internal/transport/loader"
)

type disputeService interface {
	MarkMailed(ctx context.Context, input dispute.MarkMailedInput) (*domain.DisputeView, error)
	LogResponse(ctx context.Context, input dispute.LogResponseInput) (*domain.DisputeView, error)
	RecordOutcome(ctx context.Context, input dispute.RecordOutcomeInput) (*domain.DisputeView, error)
	RegenerateLetter(ctx context.Context, input dispute.RegenerateLetterInput) (*domain.DisputeView, error)
	DeleteDispute(ctx context.Context, input dispute.DeleteDisputeInput) error
	GetDispute(ctx context.Context, id uuid.UUID) (*domain.DisputeView, error)
	ListDisputes(ctx context.Context, input dispute.ListDisputesInput) (*dispute.ListResult, error)
}

type plannerService interface {
	PlanDisputes(ctx context.Context, input planner.PlanInput) (*planner.PlanResult, error)
	PlanEscalation(ctx context.Context, input planner.EscalateInput) (*domain.Dispute, error)
}

// DisputeHandler serves planning and dispute lifecycle endpoints.
type DisputeHandler struct {
	disputes disputeService
	planner  plannerService
	log      *slog.Logger
}

// NewDisputeHandler creates a DisputeHandler.
func NewDisputeHandler(disputes disputeService, planner plannerService, logger *slog.Logger) *DisputeHandler {
	return &DisputeHandler{disputes: disputes, planner: planner, log: logger.With("handler", "dispute")}
}

type planRequest struct {
	ItemIDs    []uuid.UUID `json:"itemIds"`
	Strategy   string      `json:"strategy"`
	LetterType string      `json:"letterType"`
	Target     *string     `json:"target"`
}

type markMailedRequest struct {
	MailedAt       time.Time `json:"mailedAt"`
	TrackingNumber *string   `json:"trackingNumber"`
}

type logResponseRequest struct {
	ReceivedAt   time.Time `json:"receivedAt"`
	ResponseType string    `json:"responseType"`
	Notes        *string   `json:"notes"`
}

type recordOutcomeRequest struct {
	Outcome        string           `json:"outcome"`
	DebtEliminated *decimal.Decimal `json:"debtEliminated"`
}

type regenerateRequest struct {
	Content *string `json:"content"`
}

// Plan handles POST /api/plans.
func (h *DisputeHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	input := planner.PlanInput{
		ItemIDs:    req.ItemIDs,
		Strategy:   domain.StrategyKind(req.Strategy),
		LetterType: domain.LetterType(req.LetterType),
	}
	if req.Target != nil {
		t := domain.Target(*req.Target)
		input.Target = &t
	}

	res, err := h.planner.PlanDisputes(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanResponse(res))
}

// Escalate handles POST /api/disputes/{id}/escalate.
func (h *DisputeHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "dispute_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	d, err := h.planner.PlanEscalation(r.Context(), planner.EscalateInput{DisputeID: id})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDisputeResponse(d))
}

// MarkMailed handles POST /api/disputes/{id}/mail.
func (h *DisputeHandler) MarkMailed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "dispute_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	var req markMailedRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	v, err := h.disputes.MarkMailed(r.Context(), dispute.MarkMailedInput{
		DisputeID:      id,
		MailedAt:       req.MailedAt,
		TrackingNumber: req.TrackingNumber,
	})
	h.writeView(w, r, v, err)
}

// LogResponse handles POST /api/disputes/{id}/response.
func (h *DisputeHandler) LogResponse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "dispute_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	var req logResponseRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	v, err := h.disputes.LogResponse(r.Context(), dispute.LogResponseInput{
		DisputeID:    id,
		ReceivedAt:   req.ReceivedAt,
		ResponseType: domain.ResponseType(req.ResponseType),
		Notes:        req.Notes,
	})
	h.writeView(w, r, v, err)
}

// RecordOutcome handles POST /api/disputes/{id}/outcome.
func (h *DisputeHandler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "dispute_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	var req recordOutcomeRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	v, err := h.disputes.RecordOutcome(r.Context(), dispute.RecordOutcomeInput{
		DisputeID:      id,
		Outcome:        domain.Outcome(req.Outcome),
		DebtEliminated: req.DebtEliminated,
	})
	h.writeView(w, r, v, err)
}

// Regenerate handles POST /api/disputes/{id}/regenerate. An empty body asks
// the letter generator for fresh content.
func (h *DisputeHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "dispute_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	var req regenerateRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	v, err := h.disputes.RegenerateLetter(r.Context(), dispute.RegenerateLetterInput{
		DisputeID: id,
		Content:   req.Content,
	})
	h.writeView(w, r, v, err)
}

// Delete handles DELETE /api/disputes/{id}.
func (h *DisputeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "dispute_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.disputes.DeleteDispute(r.Context(), dispute.DeleteDisputeInput{DisputeID: id}); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/disputes/{id}.
func (h *DisputeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "dispute_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	v, err := h.disputes.GetDispute(r.Context(), id)
	h.writeView(w, r, v, err)
}

// List handles GET /api/disputes. Filters: status (repeatable or
// comma-separated), target, letterType, itemId, urgency, sortBy, sortOrder,
// limit, offset.
func (h *DisputeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r)

	var input dispute.ListDisputesInput
	for _, st := range q.list("status") {
		input.Statuses = append(input.Statuses, domain.DisputeStatus(st))
	}
	if v := q.upper("target"); v != nil {
		t := domain.Target(*v)
		input.Target = &t
	}
	if v := q.upper("letterType"); v != nil {
		lt := domain.LetterType(*v)
		input.LetterType = &lt
	}
	if v := q.upper("urgency"); v != nil {
		u := domain.UrgencyKind(*v)
		input.Urgency = &u
	}
	input.NegativeItemID = q.id("itemId")
	if v := q.str("sortBy"); v != nil {
		input.SortBy = *v
	}
	if v := q.upper("sortOrder"); v != nil {
		input.SortOrder = *v
	}
	input.Limit = q.integer("limit")
	input.Offset = q.integer("offset")

	if err := q.err(); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	res, err := h.disputes.ListDisputes(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := loader.AttachItems(r.Context(), res.Disputes...); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]*disputeResponse, len(res.Disputes))
	for i, v := range res.Disputes {
		out[i] = toDisputeViewResponse(v)
	}
	writeJSON(w, http.StatusOK, disputeListResponse{Disputes: out, Total: res.Total})
}

func (h *DisputeHandler) writeView(w http.ResponseWriter, r *http.Request, v *domain.DisputeView, err error) {
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := loader.AttachItems(r.Context(), v); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toDisputeViewResponse(v))
}

package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/portfolio"
	"github.com/heartmarshall/creditdispute-backend/internal/service/report"
)

type reportService interface {
	IngestReport(ctx context.Context, input report.IngestReportInput) (*report.IngestResult, error)
	DeleteReport(ctx context.Context, input report.DeleteReportInput) (*report.DeleteResult, error)
	ListItems(ctx context.Context) ([]*domain.NegativeItem, error)
}

type portfolioService interface {
	GetSnapshot(ctx context.Context, input portfolio.SnapshotInput) (*domain.PortfolioSnapshot, error)
}

// PortfolioHandler serves reports, negative items and the snapshot.
type PortfolioHandler struct {
	reports   reportService
	portfolio portfolioService
	log       *slog.Logger
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(reports reportService, portfolio portfolioService, logger *slog.Logger) *PortfolioHandler {
	return &PortfolioHandler{reports: reports, portfolio: portfolio, log: logger.With("handler", "portfolio")}
}

type itemRequest struct {
	CreditorName       string           `json:"creditorName"`
	OriginalCreditor   *string          `json:"originalCreditor"`
	AccountType        string           `json:"accountType"`
	Balance            *decimal.Decimal `json:"balance"`
	DateOpened         *time.Time       `json:"dateOpened"`
	AccountStatus      string           `json:"accountStatus"`
	MonthsUntilFallOff *int             `json:"monthsUntilFallOff"`
	OnEquifax          bool             `json:"onEquifax"`
	OnExperian         bool             `json:"onExperian"`
	OnTransunion       bool             `json:"onTransunion"`
}

type ingestRequest struct {
	FileName string        `json:"fileName"`
	Bureau   *string       `json:"bureau"`
	Items    []itemRequest `json:"items"`
}

type ingestResponse struct {
	Report reportResponse  `json:"report"`
	Items  []*itemResponse `json:"items"`
}

type deleteReportResponse struct {
	DeletedItems  int `json:"deletedItems"`
	RetainedItems int `json:"retainedItems"`
}

// Ingest handles POST /api/reports.
func (h *PortfolioHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	input := report.IngestReportInput{
		FileName: req.FileName,
		Items:    make([]report.ItemInput, len(req.Items)),
	}
	if req.Bureau != nil {
		b := domain.Bureau(*req.Bureau)
		input.Bureau = &b
	}
	for i, it := range req.Items {
		input.Items[i] = report.ItemInput{
			CreditorName:       it.CreditorName,
			OriginalCreditor:   it.OriginalCreditor,
			AccountType:        domain.AccountType(it.AccountType),
			Balance:            it.Balance,
			DateOpened:         it.DateOpened,
			AccountStatus:      it.AccountStatus,
			MonthsUntilFallOff: it.MonthsUntilFallOff,
			OnEquifax:          it.OnEquifax,
			OnExperian:         it.OnExperian,
			OnTransunion:       it.OnTransunion,
		}
	}

	res, err := h.reports.IngestReport(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, ingestResponse{
		Report: toReportResponse(res.Report),
		Items:  toItemResponses(res.Items),
	})
}

// DeleteReport handles DELETE /api/reports/{id}.
func (h *PortfolioHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "report_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	res, err := h.reports.DeleteReport(r.Context(), report.DeleteReportInput{ReportID: id})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteReportResponse{DeletedItems: res.DeletedItems, RetainedItems: res.RetainedItems})
}

// Items handles GET /api/items.
func (h *PortfolioHandler) Items(w http.ResponseWriter, r *http.Request) {
	items, err := h.reports.ListItems(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toItemResponses(items)})
}

// Snapshot handles GET /api/snapshot. The attentionLimit query parameter
// caps each attention bucket.
func (h *PortfolioHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	q := newQueryParser(r)
	input := portfolio.SnapshotInput{AttentionLimit: q.integer("attentionLimit")}
	if err := q.err(); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	snap, err := h.portfolio.GetSnapshot(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(snap))
}

package report

import "github.com/heartmarshall/creditdispute-backend/internal/domain"

// IngestResult is the stored report with the items created from it.
type IngestResult struct {
	Report *domain.Report
	Items  []*domain.NegativeItem
}

// DeleteResult reports what happened to the items of a deleted report.
// Retained items are referenced by a dispute and stay with report_id cleared.
type DeleteResult struct {
	DeletedItems  int
	RetainedItems int
}

package dispute

import "github.com/heartmarshall/creditdispute-backend/internal/domain"

// ListResult is one page of a dispute listing.
type ListResult struct {
	Disputes []*domain.DisputeView
	Total    int
}

package rest

import "net/http"

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health    *HealthHandler
	Disputes  *DisputeHandler
	Portfolio *PortfolioHandler
}

// NewRouter registers every route on a new ServeMux. apiMiddleware wraps
// each /api route individually so the mux still records the matched pattern
// on the request seen by outer middleware. Probes are unwrapped.
func NewRouter(h Handlers, apiMiddleware func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	api := func(pattern string, fn http.HandlerFunc) {
		var handler http.Handler = fn
		if apiMiddleware != nil {
			handler = apiMiddleware(handler)
		}
		mux.Handle(pattern, handler)
	}

	api("POST /api/plans", h.Disputes.Plan)
	api("GET /api/disputes", h.Disputes.List)
	api("GET /api/disputes/{id}", h.Disputes.Get)
	api("DELETE /api/disputes/{id}", h.Disputes.Delete)
	api("POST /api/disputes/{id}/mail", h.Disputes.MarkMailed)
	api("POST /api/disputes/{id}/response", h.Disputes.LogResponse)
	api("POST /api/disputes/{id}/outcome", h.Disputes.RecordOutcome)
	api("POST /api/disputes/{id}/regenerate", h.Disputes.Regenerate)
	api("POST /api/disputes/{id}/escalate", h.Disputes.Escalate)
	api("GET /api/snapshot", h.Portfolio.Snapshot)
	api("POST /api/reports", h.Portfolio.Ingest)
	api("DELETE /api/reports/{id}", h.Portfolio.DeleteReport)
	api("GET /api/items", h.Portfolio.Items)

	return mux
}

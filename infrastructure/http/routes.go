package http

import (
	"github.com/go-chi/chi/v5"

	"popcheck/frontend/catalog"
	"popcheck/frontend/checklist"
	"popcheck/frontend/exports"
	"popcheck/frontend/history"
	"popcheck/frontend/progress"
	"popcheck/frontend/submission"
)

// RegisterAPIRoutes registers the reconciliation API.
func (s *Server) RegisterAPIRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/catalog/reload", catalog.ReloadCommandHandler(s.Catalog, s.DB))
		r.Get("/catalog", catalog.ItemsQueryHandler(s.Catalog, s.Checklist, s.Branches))
		r.Get("/branches", catalog.BranchesQueryHandler(s.Catalog, s.Branches))

		r.Put("/session/date", checklist.SetDateCommandHandler(s.Checklist))
		r.Post("/checklist/{id}/toggle", checklist.ToggleCommandHandler(s.Checklist))

		r.Get("/progress", progress.ProgressQueryHandler(s.Catalog, s.Checklist, s.Branches))

		r.Post("/submissions", submission.CreateCommandHandler(s.Catalog, s.Checklist, s.Dispatcher, s.DB, s.Branches))

		r.Get("/history", history.RecordQueryHandler(s.History, s.Branches))
		r.Get("/history/pdf", exports.RecordPDFQueryHandler(s.History, s.Branches))
	})
}

// Package api exposes the catalog and aggregation service over HTTP.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/arcslab/arcfield/internal/domain/catalog"
	"github.com/arcslab/arcfield/internal/domain/sherd"
	"github.com/arcslab/arcfield/internal/domain/universal"
	"github.com/arcslab/arcfield/internal/inference"
)

// Services bundles the domain services the handlers dispatch to.
type Services struct {
	Catalog   *catalog.Service
	Sherds    *sherd.Service
	Universal *universal.Service
	Inference *inference.Client
}

// Server wires HTTP handlers.
type Server struct {
	services Services
	logger   *slog.Logger
}

// NewServer creates the HTTP router.
func NewServer(services Services, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{services: services, logger: logger}

	r := chi.NewRouter()

	r.Get("/health", srv.handleHealth)
	r.Get("/universal", srv.handleQueryUniversal)

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", srv.handleCreateProject)
		r.Get("/", srv.handleListProjects)

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", srv.handleGetProject)

			r.Route("/study-areas", func(r chi.Router) {
				r.Post("/", srv.handleCreateStudyArea)
				r.Get("/", srv.handleListStudyAreas)

				r.Route("/{studyAreaID}/strat-units", func(r chi.Router) {
					r.Post("/", srv.handleCreateStratUnit)
					r.Get("/", srv.handleListStratUnits)

					r.Route("/{stratUnitID}", func(r chi.Router) {
						r.Post("/containers", srv.handleCreateContainer)
						r.Get("/containers", srv.handleListContainers)
						r.Post("/analyze", srv.handleAnalyze)
						r.Post("/sherds", srv.handleIngest)

						r.Route("/material-groups", func(r chi.Router) {
							r.Post("/", srv.handleCreateMaterialGroup)
							r.Get("/", srv.handleListMaterialGroups)

							r.Route("/{groupID}", func(r chi.Router) {
								r.Get("/", srv.handleGetMaterialGroup)
								r.Patch("/", srv.handleRenameMaterialGroup)
								r.Post("/sherds", srv.handleIngest)
								r.Get("/sherds", srv.handleListSherds)
							})
						})
					})
				})
			})
		})
	})

	return r
}

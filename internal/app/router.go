package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gninraw7/psms/internal/actuals"
	dashboardhttp "github.com/gninraw7/psms/internal/dashboard/http"
	"github.com/gninraw7/psms/internal/masterdata"
	"github.com/gninraw7/psms/internal/plans"
	"github.com/gninraw7/psms/internal/projects"
	reporthttp "github.com/gninraw7/psms/internal/report/http"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	ReportHandler     *reporthttp.Handler
	DashboardHandler  *dashboardhttp.Handler
	PlansHandler      *plans.Handler
	ActualsHandler    *actuals.Handler
	ProjectsHandler   *projects.Handler
	MasterDataHandler *masterdata.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(TenantMiddleware(MiddlewareConfig{Logger: params.Logger, Config: params.Config}))

		if params.ReportHandler != nil {
			params.ReportHandler.MountRoutes(api)
		}
		if params.DashboardHandler != nil {
			params.DashboardHandler.MountRoutes(api)
		}
		if params.PlansHandler != nil {
			params.PlansHandler.MountRoutes(api)
		}
		if params.ActualsHandler != nil {
			params.ActualsHandler.MountRoutes(api)
		}
		if params.ProjectsHandler != nil {
			params.ProjectsHandler.MountRoutes(api)
		}
		if params.MasterDataHandler != nil {
			params.MasterDataHandler.MountRoutes(api)
		}
	})

	return r
}

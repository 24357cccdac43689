// Package dashboardhttp exposes the CEO dashboard over HTTP.
package dashboardhttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gninraw7/psms/internal/dashboard"
	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/shared"
)

// DashboardService defines the derivation contract used by the handler.
type DashboardService interface {
	Build(ctx context.Context, tenant shared.Tenant, year int) (*dashboard.Dashboard, error)
}

// Handler coordinates HTTP requests for the CEO dashboard.
type Handler struct {
	logger  *slog.Logger
	service DashboardService
	now     func() time.Time
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService) *Handler {
	return &Handler{logger: logger, service: service, now: time.Now}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// MountRoutes registers the dashboard endpoint onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	r.Get("/reports/ceo-dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}

	year := h.now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", fmt.Sprintf("invalid year %q", raw))
			return
		}
		year = parsed
	}

	result, err := h.service.Build(r.Context(), tenant, year)
	if err != nil {
		h.logger.Error("ceo dashboard failed", slog.Any("error", err), slog.Int("year", year))
		httpx.Problem(w, http.StatusInternalServerError, "Dashboard Failed", err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

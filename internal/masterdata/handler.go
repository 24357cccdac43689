package masterdata

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/org-units", h.handleOrgUnits)
	r.Get("/sales-reps", h.handleSalesReps)
	r.Get("/industry-fields", h.handleIndustryFields)
	r.Get("/service-codes", h.handleServiceCodes)
	r.Get("/clients", h.handleClients)
	r.Get("/common-codes", h.handleCommonCodes)
}

func (h *Handler) handleOrgUnits(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, func(tenant shared.Tenant) (interface{}, error) {
		return h.service.OrgUnits(r.Context(), tenant, activeOnly(r))
	})
}

func (h *Handler) handleSalesReps(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, func(tenant shared.Tenant) (interface{}, error) {
		return h.service.SalesReps(r.Context(), tenant)
	})
}

func (h *Handler) handleIndustryFields(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, func(tenant shared.Tenant) (interface{}, error) {
		return h.service.IndustryFields(r.Context(), tenant, activeOnly(r))
	})
}

func (h *Handler) handleServiceCodes(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, func(tenant shared.Tenant) (interface{}, error) {
		return h.service.ServiceCodes(r.Context(), tenant, activeOnly(r))
	})
}

func (h *Handler) handleClients(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, func(tenant shared.Tenant) (interface{}, error) {
		return h.service.Clients(r.Context(), tenant, r.URL.Query().Get("keyword"))
	})
}

func (h *Handler) handleCommonCodes(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, func(tenant shared.Tenant) (interface{}, error) {
		return h.service.CommonCodes(r.Context(), tenant, r.URL.Query().Get("group_code"))
	})
}

func (h *Handler) respondList(w http.ResponseWriter, r *http.Request, load func(shared.Tenant) (interface{}, error)) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}
	items, err := load(tenant)
	if err != nil {
		h.logger.Error("master data lookup failed", slog.Any("error", err), slog.String("path", r.URL.Path))
		httpx.RespondError(w, err)
		return
	}
	httpx.Items(w, items)
}

func activeOnly(r *http.Request) bool {
	return r.URL.Query().Get("is_use") == "true"
}

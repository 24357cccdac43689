package projects

import (
	"log/slog"
	"net/http"
	"strconv"

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
	r.Get("/projects", h.handleList)
	r.Get("/projects/{pipelineID}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}

	filter, err := parseProjectFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", err.Error())
		return
	}

	projects, err := h.service.List(r.Context(), tenant, filter)
	if err != nil {
		h.logger.Error("list projects failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if projects == nil {
		projects = []Project{}
	}
	httpx.Items(w, projects)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}

	project, err := h.service.Get(r.Context(), tenant, chi.URLParam(r, "pipelineID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, project)
}

func parseProjectFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		ManagerID:   q.Get("manager_id"),
		FieldCode:   q.Get("field_code"),
		ServiceCode: q.Get("service_code"),
		Stage:       q.Get("stage"),
		Keyword:     q.Get("keyword"),
	}
	if raw := q.Get("org_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.OrgID = &id
	}
	return filter, nil
}

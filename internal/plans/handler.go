package plans

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/plans", func(r chi.Router) {
		r.Get("/", h.handleListHeaders)
		r.Post("/", h.handleCreateHeader)
		r.Route("/{planID}", func(r chi.Router) {
			r.Get("/", h.handleGetHeader)
			r.Put("/", h.handleUpdateHeader)
			r.Get("/lines", h.handleListLines)
			r.Post("/lines", h.handleSaveLines)
			r.Post("/lines/delete", h.handleDeleteLines)
			r.Get("/missing-projects", h.handleMissingProjects)
		})
	})
}

func (h *Handler) handleListHeaders(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}

	q := r.URL.Query()
	filter := HeaderFilter{
		Version: q.Get("plan_version"),
		Status:  q.Get("status_code"),
		Keyword: q.Get("keyword"),
	}
	if raw := q.Get("plan_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "invalid plan_year")
			return
		}
		filter.PlanYear = &year
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PageSize, _ = strconv.Atoi(q.Get("page_size"))

	page, err := h.service.ListHeaders(r.Context(), tenant, filter)
	if err != nil {
		h.logger.Error("list plans failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) handleGetHeader(w http.ResponseWriter, r *http.Request) {
	tenant, planID, ok := h.tenantAndPlanID(w, r)
	if !ok {
		return
	}
	header, err := h.service.GetHeader(r.Context(), tenant, planID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, header)
}

func (h *Handler) handleCreateHeader(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}

	var req CreateHeaderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	header, err := h.service.CreateHeader(r.Context(), tenant, req)
	if err != nil {
		h.logger.Error("create plan failed", slog.Any("error", err), slog.Int("year", req.PlanYear))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, header)
}

func (h *Handler) handleUpdateHeader(w http.ResponseWriter, r *http.Request) {
	tenant, planID, ok := h.tenantAndPlanID(w, r)
	if !ok {
		return
	}

	var req UpdateHeaderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	header, err := h.service.UpdateHeader(r.Context(), tenant, planID, req)
	if err != nil {
		h.logger.Error("update plan failed", slog.Any("error", err), slog.Int64("planID", planID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, header)
}

func (h *Handler) handleListLines(w http.ResponseWriter, r *http.Request) {
	tenant, planID, ok := h.tenantAndPlanID(w, r)
	if !ok {
		return
	}
	filter, err := parseLineFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", err.Error())
		return
	}

	lines, err := h.service.ListLines(r.Context(), tenant, planID, filter)
	if err != nil {
		h.logger.Error("list plan lines failed", slog.Any("error", err), slog.Int64("planID", planID))
		httpx.RespondError(w, err)
		return
	}
	if lines == nil {
		lines = []Line{}
	}
	httpx.Items(w, lines)
}

func (h *Handler) handleMissingProjects(w http.ResponseWriter, r *http.Request) {
	tenant, planID, ok := h.tenantAndPlanID(w, r)
	if !ok {
		return
	}
	filter, err := parseLineFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", err.Error())
		return
	}

	candidates, err := h.service.MissingProjects(r.Context(), tenant, planID, filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if candidates == nil {
		candidates = []CandidateProject{}
	}
	httpx.Items(w, candidates)
}

func (h *Handler) handleSaveLines(w http.ResponseWriter, r *http.Request) {
	tenant, planID, ok := h.tenantAndPlanID(w, r)
	if !ok {
		return
	}

	var req SaveLinesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	saved, err := h.service.SaveLines(r.Context(), tenant, planID, req)
	if err != nil {
		h.logger.Error("save plan lines failed", slog.Any("error", err), slog.Int64("planID", planID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"saved": saved})
}

func (h *Handler) handleDeleteLines(w http.ResponseWriter, r *http.Request) {
	tenant, planID, ok := h.tenantAndPlanID(w, r)
	if !ok {
		return
	}

	var req DeleteLinesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	deleted, err := h.service.DeleteLines(r.Context(), tenant, planID, req)
	if err != nil {
		h.logger.Error("delete plan lines failed", slog.Any("error", err), slog.Int64("planID", planID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (h *Handler) tenantAndPlanID(w http.ResponseWriter, r *http.Request) (shared.Tenant, int64, bool) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return shared.Tenant{}, 0, false
	}
	planID, err := strconv.ParseInt(chi.URLParam(r, "planID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", "invalid plan id")
		return shared.Tenant{}, 0, false
	}
	return tenant, planID, true
}

func parseLineFilter(r *http.Request) (LineFilter, error) {
	q := r.URL.Query()
	filter := LineFilter{
		ManagerID:   q.Get("manager_id"),
		FieldCode:   q.Get("field_code"),
		ServiceCode: q.Get("service_code"),
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

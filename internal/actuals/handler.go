package actuals

import (
	"fmt"
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
	r.Route("/actuals", func(r chi.Router) {
		r.Get("/lines", h.handleListLines)
		r.Post("/lines", h.handleSaveLines)
		r.Get("/summary", h.handleSummary)
	})
}

func (h *Handler) handleListLines(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}
	year, err := requiredYear(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", err.Error())
		return
	}
	filter, err := parseLineFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", err.Error())
		return
	}

	lines, err := h.service.ListLines(r.Context(), tenant, year, filter)
	if err != nil {
		h.logger.Error("list actual lines failed", slog.Any("error", err), slog.Int("year", year))
		httpx.RespondError(w, err)
		return
	}
	if lines == nil {
		lines = []Line{}
	}
	httpx.Items(w, lines)
}

func (h *Handler) handleSaveLines(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
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

	saved, err := h.service.SaveLines(r.Context(), tenant, req)
	if err != nil {
		h.logger.Error("save actual lines failed", slog.Any("error", err), slog.Int("year", req.ActualYear))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"saved": saved})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}
	year, err := requiredYear(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", err.Error())
		return
	}

	totals, err := h.service.GroupTotals(r.Context(), tenant, year, r.URL.Query().Get("group"))
	if err != nil {
		h.logger.Error("actual summary failed", slog.Any("error", err), slog.Int("year", year))
		httpx.RespondError(w, err)
		return
	}
	if totals == nil {
		totals = []GroupTotal{}
	}
	httpx.Items(w, totals)
}

func requiredYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("actual_year")
	if raw == "" {
		return 0, fmt.Errorf("actual_year is required")
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid actual_year %q", raw)
	}
	return year, nil
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

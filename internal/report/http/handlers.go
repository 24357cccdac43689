// Package reporthttp exposes the reporting aggregator over HTTP.
package reporthttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gninraw7/psms/internal/platform/httpx"
	"github.com/gninraw7/psms/internal/report"
	"github.com/gninraw7/psms/internal/shared"
)

// SummaryService defines the aggregation contract used by the handler.
type SummaryService interface {
	Summary(ctx context.Context, tenant shared.Tenant, req report.Request) (*report.Result, error)
}

// Handler coordinates HTTP requests for the report summary endpoint.
type Handler struct {
	logger  *slog.Logger
	service SummaryService
}

// NewHandler constructs the report HTTP handler.
func NewHandler(logger *slog.Logger, service SummaryService) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Tenant Required", shared.ErrTenantRequired.Error())
		return
	}

	req, err := parseSummaryRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", err.Error())
		return
	}

	result, err := h.service.Summary(r.Context(), tenant, req)
	if err != nil {
		h.logger.Error("report summary failed", slog.Any("error", err), slog.Int("year", req.Year))
		httpx.Problem(w, http.StatusInternalServerError, "Report Failed", err.Error())
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

func parseSummaryRequest(r *http.Request) (report.Request, error) {
	q := r.URL.Query()
	var req report.Request
	var err error

	if req.Source, err = report.ParseSource(q.Get("source")); err != nil {
		return req, err
	}
	if req.Period, err = report.ParsePeriod(q.Get("period")); err != nil {
		return req, err
	}
	if req.Metric, err = report.ParseMetric(q.Get("metric")); err != nil {
		return req, err
	}
	if req.Dimension, err = report.ParseDimension(q.Get("dimension")); err != nil {
		return req, err
	}

	yearRaw := q.Get("year")
	if yearRaw == "" {
		return req, fmt.Errorf("year is required")
	}
	if req.Year, err = strconv.Atoi(yearRaw); err != nil {
		return req, fmt.Errorf("invalid year %q", yearRaw)
	}

	if raw := q.Get("plan_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid plan_id %q", raw)
		}
		req.PlanID = &id
	}
	req.PlanVersion = q.Get("plan_version")
	req.PlanStatus = q.Get("plan_status")

	req.OrgIDs = parseIDList(q.Get("org_ids"))
	req.ManagerIDs = parseIDList(q.Get("manager_ids"))

	return req, nil
}

func parseIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

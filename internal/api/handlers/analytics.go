package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/labtrade/internal/export"
	"github.com/wonny/labtrade/internal/report"
	"github.com/wonny/labtrade/pkg/logger"
)

// AnalyticsHandler handles analytics API endpoints
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalyticsHandler struct {
	orchestrator *report.Orchestrator
	defaultOwner string
	now          func() time.Time
	logger       *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(orch *report.Orchestrator, defaultOwner string, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		orchestrator: orch,
		defaultOwner: defaultOwner,
		now:          time.Now,
		logger:       log.WithComponent("api.analytics"),
	}
}

// GetSnapshot returns the analytics snapshot with the normalization report
// GET /api/analytics/snapshot?owner&start&end&partner&granularity&scope
func (h *AnalyticsHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	owner, filter, ok := h.parse(w, r)
	if !ok {
		return
	}

	q, err := filter.ToQuery(h.orchestrator.Location(), h.now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.orchestrator.Snapshot(r.Context(), owner, q)
	if err != nil {
		h.fail(w, err, "Failed to build snapshot")
		return
	}

	respondJSON(w, http.StatusOK, res)
}

// Export returns the report file as an attachment
// GET /api/analytics/export?...&format=csv|xlsx|pdf
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	owner, filter, ok := h.parse(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := filter.ToQuery(h.orchestrator.Location(), h.now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.orchestrator.Export(r.Context(), owner, q, format)
	if err != nil {
		h.fail(w, err, "Failed to export report")
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

func (h *AnalyticsHandler) parse(w http.ResponseWriter, r *http.Request) (string, report.FilterRequest, bool) {
	values := r.URL.Query()

	owner := values.Get("owner")
	if owner == "" {
		owner = h.defaultOwner
	}
	if owner == "" {
		respondError(w, http.StatusBadRequest, "owner is required")
		return "", report.FilterRequest{}, false
	}

	return owner, report.FilterRequest{
		Start:       values.Get("start"),
		End:         values.Get("end"),
		Partner:     values.Get("partner"),
		Granularity: values.Get("granularity"),
		Scope:       values.Get("scope"),
	}, true
}

// fail 입력 오류는 400, 나머지는 500
func (h *AnalyticsHandler) fail(w http.ResponseWriter, err error, message string) {
	if report.IsClientError(err) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.WithError(err).Error(message)
	respondError(w, http.StatusInternalServerError, message)
}

package report

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/labtrade/internal/analytics"
	"github.com/wonny/labtrade/internal/export"
	"github.com/wonny/labtrade/internal/ingest"
	"github.com/wonny/labtrade/internal/observability/metrics"
	"github.com/wonny/labtrade/internal/source"
	"github.com/wonny/labtrade/pkg/logger"
)

// Orchestrator coordinates fetch → normalize → aggregate → export
// ⭐ SSOT: 원본 조회와 엔진 호출 조율은 여기서만 (API, 웹소켓, CLI, 스케줄러 공용)
type Orchestrator struct {
	source   source.Source
	engine   *analytics.Engine
	labels   export.Labels
	fontPath string
	logger   *logger.Logger
}

// ExportResult 내보내기 결과
type ExportResult struct {
	Data        []byte
	FileName    string
	ContentType string
	Rows        int
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(src source.Source, engine *analytics.Engine, labels export.Labels, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		source: src,
		engine: engine,
		labels: labels,
		logger: log.WithComponent("report.orchestrator"),
	}
}

// WithPDFFont sets the TTF font used for PDF exports
func (o *Orchestrator) WithPDFFont(path string) *Orchestrator {
	o.fontPath = path
	return o
}

// Engine returns the analytics engine
func (o *Orchestrator) Engine() *analytics.Engine {
	return o.engine
}

// Location returns the calendar location of the engine
func (o *Orchestrator) Location() *time.Location {
	return o.engine.Location()
}

// Fetch 원본 명세서 조회
func (o *Orchestrator) Fetch(ctx context.Context, ownerID string) ([]ingest.RawRecord, error) {
	raws, err := o.source.Fetch(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch records for %s: %w", ownerID, err)
	}
	return raws, nil
}

// Snapshot 조회 + 스냅샷 계산
func (o *Orchestrator) Snapshot(ctx context.Context, ownerID string, q analytics.Query) (*analytics.Result, error) {
	start := time.Now()

	raws, err := o.Fetch(ctx, ownerID)
	if err != nil {
		metrics.ObserveSnapshot(metrics.Result(err), time.Since(start))
		return nil, err
	}

	res, err := o.Compute(raws, ownerID, q)
	metrics.ObserveSnapshot(metrics.Result(err), time.Since(start))
	return res, err
}

// Compute 이미 가져온 원본으로 스냅샷 계산 (웹소켓 세션은 원본을 재사용)
func (o *Orchestrator) Compute(raws []ingest.RawRecord, ownerID string, q analytics.Query) (*analytics.Result, error) {
	res, err := o.engine.Run(raws, ownerID, q)
	if err != nil {
		return nil, err
	}

	for reason, n := range res.Report.Excluded {
		metrics.AddExcluded(string(reason), n)
	}

	o.logger.WithFields(map[string]interface{}{
		"owner":    ownerID,
		"records":  res.Report.Total,
		"excluded": res.Report.ExcludedCount(),
		"working":  len(res.WorkingSet),
		"partners": len(res.Snapshot.PartnerRollups),
	}).Debug("snapshot computed")

	return res, nil
}

// Export 스냅샷 계산 후 파일 렌더링
func (o *Orchestrator) Export(ctx context.Context, ownerID string, q analytics.Query, format export.Format) (*ExportResult, error) {
	res, err := o.Snapshot(ctx, ownerID, q)
	if err != nil {
		metrics.IncExport(string(format), metrics.Result(err))
		return nil, err
	}

	loc := o.engine.Location()
	doc := export.NewDocument(ownerID, res.WorkingSet, res.Snapshot, o.labels, loc)
	doc.FontPath = o.fontPath

	data, err := export.Render(doc, format)
	metrics.IncExport(string(format), metrics.Result(err))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	o.logger.WithFields(map[string]interface{}{
		"owner":  ownerID,
		"format": string(format),
		"rows":   len(doc.Rows),
		"bytes":  len(data),
	}).Info("export rendered")

	return &ExportResult{
		Data:        data,
		FileName:    export.FileName(ownerID, res.Snapshot.Range, loc, format),
		ContentType: format.ContentType(),
		Rows:        len(doc.Rows),
	}, nil
}

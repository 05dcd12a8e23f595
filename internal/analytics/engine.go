package analytics

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/labtrade/internal/contracts"
	"github.com/wonny/labtrade/internal/ingest"
)

// Query 스냅샷 조회 조건
type Query struct {
	Range          contracts.DateRange
	CounterpartyID string
	Granularity    contracts.Granularity // 비어 있으면 month
	Scope          Scope                 // 비어 있으면 all
}

// Result 원시 입력부터 실행한 결과
type Result struct {
	Snapshot   *contracts.AnalyticsSnapshot `json:"snapshot"`
	WorkingSet []contracts.Statement        `json:"-"`
	Report     ingest.Report                `json:"report"`
}

// Engine 분석 파이프라인 진입점
// ⭐ SSOT: 호출 간 상태 없음, 입력을 변경하지 않음 (동시 호출 안전)
type Engine struct {
	cfg      Config
	bucketer *Bucketer
	base     zerolog.Logger
	log      zerolog.Logger
}

// NewEngine 새 엔진 생성
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:      cfg,
		bucketer: NewBucketer(cfg.Location),
		base:     log,
		log:      log.With().Str("component", "analytics.engine").Logger(),
	}
}

// Config returns the effective engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Location returns the calendar location used for bucketing
func (e *Engine) Location() *time.Location {
	return e.cfg.Location
}

// Build 정규화된 명세서 풀에서 스냅샷 생성
func (e *Engine) Build(all []contracts.Statement, q Query) (*contracts.AnalyticsSnapshot, error) {
	snapshot, _, err := e.build(all, q)
	return snapshot, err
}

// Run 원시 문서 정규화 후 스냅샷 생성
func (e *Engine) Run(raws []ingest.RawRecord, ownerID string, q Query) (*Result, error) {
	normalizer, err := ingest.NewNormalizer(ownerID, e.cfg.Location, e.base)
	if err != nil {
		return nil, err
	}
	statements, report := normalizer.NormalizeAll(raws)

	snapshot, working, err := e.build(statements, q)
	if err != nil {
		return nil, err
	}
	return &Result{Snapshot: snapshot, WorkingSet: working, Report: report}, nil
}

func (e *Engine) build(all []contracts.Statement, q Query) (*contracts.AnalyticsSnapshot, []contracts.Statement, error) {
	start := time.Now()

	if err := q.Range.Validate(); err != nil {
		return nil, nil, err
	}
	if q.Granularity == "" {
		q.Granularity = contracts.GranularityMonth
	}
	if !q.Granularity.IsValid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, q.Granularity)
	}
	scope, err := ParseScope(string(q.Scope))
	if err != nil {
		return nil, nil, err
	}

	// 1. 작업 집합
	working := Filter(all, q.Range, q.CounterpartyID)

	// 2. 독립 집계기
	series, err := e.bucketer.Bucket(working, q.Granularity)
	if err != nil {
		return nil, nil, err
	}
	rollups := Aggregate(working, scope)
	defects := AnalyzeDefects(working, e.cfg.DefectReasonTopN)

	snapshot := &contracts.AnalyticsSnapshot{
		Range:             q.Range,
		CounterpartyID:    q.CounterpartyID,
		Granularity:       q.Granularity,
		CoreMetrics:       ComputeCoreMetrics(working),
		Growth:            CompareGrowth(all, working, q.Range, q.CounterpartyID),
		PeriodSeries:      series,
		PartnerRollups:    rollups,
		TopPartners:       Top(rollups, e.cfg.TopN),
		DefectRateRanking: DefectRateRanking(rollups, e.cfg.MinDefectSample, e.cfg.DefectRateTopN),
		DefectReasons:     defects.Reasons,
		DirectionSplit:    SplitByDirection(working),
	}

	e.log.Debug().
		Int("pool", len(all)).
		Int("working", len(working)).
		Int("partners", len(rollups)).
		Int("buckets", len(series)).
		Dur("elapsed", time.Since(start)).
		Msg("snapshot built")

	return snapshot, working, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/wonny/labtrade/internal/analytics"
	"github.com/wonny/labtrade/internal/analyticsconfig"
	"github.com/wonny/labtrade/internal/observability/metrics"
	"github.com/wonny/labtrade/internal/report"
	"github.com/wonny/labtrade/internal/source"
	"github.com/wonny/labtrade/pkg/config"
	"github.com/wonny/labtrade/pkg/database"
	"github.com/wonny/labtrade/pkg/httputil"
	"github.com/wonny/labtrade/pkg/logger"
	"github.com/wonny/labtrade/pkg/redis"
)

// cachePrefix Redis 캐시 키 접두사
const cachePrefix = "labtrade"

// deps 커맨드 공용 의존성
type deps struct {
	cfg          *config.Config
	analytics    *analyticsconfig.Config
	log          *logger.Logger
	db           *database.DB
	redis        *redis.Client
	cached       *source.CachedSource
	orchestrator *report.Orchestrator
}

// loadConfig 환경변수 + 플래그 오버라이드
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if ownerID != "" {
		cfg.Analytics.OwnerID = ownerID
	}
	if recordFile != "" {
		cfg.Analytics.RecordFile = recordFile
	}
	if configFile != "" {
		cfg.Analytics.ConfigPath = configFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if cfg.Analytics.OwnerID == "" {
		return nil, fmt.Errorf("owner id is required (--owner or OWNER_ID)")
	}
	return cfg, nil
}

// buildDeps 원본 소스 → 캐시 → 엔진 → 오케스트레이터 조립
func buildDeps(ctx context.Context) (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)
	d := &deps{cfg: cfg, log: log}

	// 1. Analytics settings
	acfg, _, err := analyticsconfig.Load(cfg.Analytics.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load analytics config: %w", err)
	}
	d.analytics = acfg

	engineCfg, err := acfg.EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	labels, err := acfg.Labels()
	if err != nil {
		return nil, fmt.Errorf("export labels: %w", err)
	}

	// 2. Record source
	var src source.Source
	switch cfg.Analytics.Source {
	case config.SourcePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		d.db = db
		src = source.NewPostgresSource(db.Pool)
	case config.SourceDocStore:
		client := httputil.New(cfg.DocStore.Timeout, log).
			WithRateLimit(cfg.DocStore.RatePerSec)
		if cfg.DocStore.APIKey != "" {
			client = client.WithHeader("Authorization", "Bearer "+cfg.DocStore.APIKey)
		}
		src = source.NewDocStoreSource(client, cfg.DocStore.BaseURL)
	default:
		if cfg.Analytics.RecordFile == "" {
			return nil, fmt.Errorf("records file is required (--records or RECORD_FILE)")
		}
		src = source.NewFileSource(cfg.Analytics.RecordFile)
	}

	// 3. Redis cache (비활성화 시 통과)
	rdb, err := redis.New(ctx, cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	d.redis = rdb
	d.cached = source.NewCachedSource(src, redis.NewCache(rdb, cachePrefix), cfg.Redis.RecordCacheTTL, log.Zerolog())

	// 4. Engine + orchestrator
	if cfg.MetricsEnabled {
		metrics.Init()
	}
	engine := analytics.NewEngine(engineCfg, log.Zerolog())
	d.orchestrator = report.NewOrchestrator(d.cached, engine, labels, log).
		WithPDFFont(acfg.Export.PDFFontPath)

	log.WithFields(map[string]interface{}{
		"owner":  cfg.Analytics.OwnerID,
		"source": cfg.Analytics.Source,
		"redis":  rdb.Enabled(),
		"tz":     engine.Location().String(),
	}).Debug("Dependencies initialized")

	return d, nil
}

// Close releases connections
func (d *deps) Close() {
	if d.redis != nil {
		d.redis.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}

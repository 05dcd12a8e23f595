package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/labtrade/internal/api"
	"github.com/wonny/labtrade/internal/api/handlers"
	"github.com/wonny/labtrade/internal/realtime"
	"github.com/wonny/labtrade/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `분석 REST API 서버와 실시간 웹소켓을 시작합니다.

Endpoints:
  GET  /health                  - Health check
  GET  /metrics                 - Prometheus metrics (METRICS_ENABLED)
  GET  /api/analytics/snapshot  - 분석 스냅샷
  GET  /api/analytics/export    - CSV/XLSX/PDF 파일
  GET  /ws/analytics            - 필터 변경 시 재계산 (웹소켓)

Example:
  go run ./cmd/labstat api
  go run ./cmd/labstat api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort         string
	wsDebounce      time.Duration
	shutdownTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
	apiCmd.Flags().DurationVar(&wsDebounce, "debounce", realtime.DefaultDebounce, "websocket recompute debounce")
	apiCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "graceful shutdown timeout")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== labtrade API Server ===")

	d, err := buildDeps(context.Background())
	if err != nil {
		return err
	}
	defer d.Close()

	cfg := d.cfg
	log := d.log

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	limiter := redis.NewRateLimiter(d.redis, cfg.Redis.RateLimitPrefix)

	wsHandler := realtime.NewHandler(d.orchestrator, cfg.Analytics.OwnerID, realtime.Options{
		Debounce: wsDebounce,
		Limiter:  limiter,
		Limit:    cfg.Redis.SnapshotLimit,
		Window:   cfg.Redis.SnapshotWindow,
	}, log)

	router := api.NewRouter(api.RouterDeps{
		Analytics: handlers.NewAnalyticsHandler(d.orchestrator, cfg.Analytics.OwnerID, log),
		Realtime:  wsHandler,
		Limiter:   limiter,
		RateLimit: redis.RateLimitConfig{
			Limit:  cfg.Redis.SnapshotLimit,
			Window: cfg.Redis.SnapshotWindow,
		},
		MetricsEnabled: cfg.MetricsEnabled,
		TrustProxy:     cfg.TrustProxy,
	}, log)

	server := api.New(cfg, log, router, api.ServerOptions{ShutdownTimeout: shutdownTimeout})

	// Ctrl+C / SIGTERM → graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	if cfg.MetricsEnabled {
		fmt.Println("  GET  /metrics")
	}
	fmt.Println("  GET  /api/analytics/snapshot")
	fmt.Println("  GET  /api/analytics/export")
	fmt.Println("  GET  /ws/analytics")
	fmt.Println("\nPress Ctrl+C to stop")

	return server.Run(ctx)
}

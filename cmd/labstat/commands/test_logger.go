package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/labtrade/pkg/config"
	"github.com/wonny/labtrade/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Logger 기능 테스트",
	Long: `구조화된 로깅 출력을 확인합니다.

- JSON/Console 포맷
- 컴포넌트/필드 로깅
- 에러 컨텍스트 로깅

Example:
  go run ./cmd/labstat test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== labtrade Logger Test ===")

	steps := []struct {
		title string
		cfg   *config.Config
		run   func(log *logger.Logger)
	}{
		{"1. JSON Format (Production)", &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"}, logLevels},
		{"2. Console Format (Development)", &config.Config{Env: "development", LogLevel: "debug", LogFormat: "console"}, logLevels},
		{"3. Structured Logging with Fields", &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"}, logStructured},
		{"4. Error Logging", &config.Config{Env: "production", LogLevel: "error", LogFormat: "json"}, logErrors},
	}

	for _, step := range steps {
		fmt.Println(step.title)
		fmt.Println("--------------------------------")
		// 콘솔에서 바로 보이도록 stdout
		step.run(logger.NewWithWriter(step.cfg, cmd.OutOrStdout()))
		fmt.Println()
	}

	PrintSuccess("All logger tests completed!")
	return nil
}

func logLevels(log *logger.Logger) {
	log.Debug("Normalizing raw statements")
	log.Info("Snapshot computed")
	log.Warn("Records excluded during normalization")
	log.Error("Failed to fetch records")
}

func logStructured(log *logger.Logger) {
	log.WithField("owner", "lab-001").Info("Realtime session opened")

	log.WithFields(map[string]interface{}{
		"owner":    "lab-001",
		"format":   "xlsx",
		"rows":     42,
		"duration": "120ms",
	}).Info("Export rendered")

	log.WithComponent("analytics.engine").
		WithField("granularity", "week").
		Info("Snapshot built")
}

func logErrors(log *logger.Logger) {
	err := errors.New("connection timeout")
	log.WithError(err).Error("Failed to fetch records")

	log.WithError(err).
		WithFields(map[string]interface{}{
			"attempt":  3,
			"source":   "docstore",
			"endpoint": "/owners/lab-001/statements",
		}).
		Error("Document store request failed after retries")
}

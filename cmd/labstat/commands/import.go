package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/labtrade/internal/source"
	"github.com/wonny/labtrade/pkg/config"
	"github.com/wonny/labtrade/pkg/database"
	"github.com/wonny/labtrade/pkg/logger"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [records.json]",
	Short: "JSON 명세서를 PostgreSQL에 적재",
	Long: `JSON 배열 파일의 명세서 문서를 lab.statements 테이블에 적재합니다.
같은 id는 덮어쓰며, 스키마가 없으면 생성합니다.

Example:
  go run ./cmd/labstat import ./testdata/statements.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required for import")
	}
	log := logger.New(cfg).WithComponent("import")

	raws, err := source.NewFileSource(args[0]).Fetch(ctx, "")
	if err != nil {
		return err
	}

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	store := source.NewPostgresSource(db.Pool)
	inserted, skipped := 0, 0
	for _, raw := range raws {
		if raw == nil {
			skipped++
			continue
		}
		if err := store.Insert(ctx, raw); err != nil {
			log.WithError(err).Warn("Statement skipped")
			skipped++
			continue
		}
		inserted++
	}

	log.WithFields(map[string]interface{}{
		"file":     args[0],
		"inserted": inserted,
		"skipped":  skipped,
	}).Info("Import completed")

	PrintSuccess(fmt.Sprintf("%d statements imported, %d skipped in %.2fs", inserted, skipped, time.Since(start).Seconds()))
	return nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/labtrade/internal/export"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "명세서 요약 파일 내보내기",
	Long: `필터된 명세서와 합계 블록을 CSV/XLSX/PDF 파일로 저장합니다.

파일명: report_<owner>_<start>_<end>.<ext>

Example:
  go run ./cmd/labstat export --start 2024-03-01 --end 2024-03-31
  go run ./cmd/labstat export --format xlsx --dir ./reports
  go run ./cmd/labstat export --format pdf --partner clinic-a`,
	RunE: runExport,
}

var (
	exportFormat string
	exportDir    string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "file format (csv|xlsx|pdf)")
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	q, err := filterRequest().ToQuery(d.orchestrator.Location(), time.Now())
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := d.orchestrator.Export(ctx, d.cfg.Analytics.OwnerID, q, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(exportDir, res.FileName)
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	PrintSuccess(fmt.Sprintf("%s (%d rows, %d bytes) in %.2fs", path, res.Rows, len(res.Data), time.Since(start).Seconds()))
	return nil
}

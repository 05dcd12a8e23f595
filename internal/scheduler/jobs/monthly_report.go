package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/labtrade/internal/analytics"
	"github.com/wonny/labtrade/internal/export"
	"github.com/wonny/labtrade/internal/report"
	"github.com/wonny/labtrade/pkg/logger"
)

// MonthlyReportJob writes last month's XLSX report to the report directory
type MonthlyReportJob struct {
	orchestrator *report.Orchestrator
	ownerID      string
	reportDir    string
	now          func() time.Time
	logger       *logger.Logger
}

// NewMonthlyReportJob creates a new monthly report job
func NewMonthlyReportJob(orch *report.Orchestrator, ownerID, reportDir string, log *logger.Logger) *MonthlyReportJob {
	return &MonthlyReportJob{
		orchestrator: orch,
		ownerID:      ownerID,
		reportDir:    reportDir,
		now:          time.Now,
		logger:       log.WithComponent("jobs.monthly_report"),
	}
}

// Name returns the job name
func (j *MonthlyReportJob) Name() string {
	return "monthly_report"
}

// Schedule returns the cron schedule (06:00 on the 1st of every month)
func (j *MonthlyReportJob) Schedule() string {
	return "0 0 6 1 * *"
}

// Run builds the previous calendar month report
func (j *MonthlyReportJob) Run(ctx context.Context) error {
	loc := j.orchestrator.Location()
	rng := report.PreviousMonth(j.now(), loc)

	res, err := j.orchestrator.Export(ctx, j.ownerID, analytics.Query{Range: rng}, export.FormatXLSX)
	if err != nil {
		return fmt.Errorf("monthly report: %w", err)
	}

	path := j.Path(rng.Start.In(loc))
	if err := writeFile(path, res.Data); err != nil {
		return fmt.Errorf("monthly report: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"owner": j.ownerID,
		"month": rng.Start.In(loc).Format("2006-01"),
		"rows":  res.Rows,
		"path":  path,
	}).Info("Monthly report written")

	return nil
}

// Path REPORT_DIR/report_<owner>_<YYYY-MM>.xlsx
func (j *MonthlyReportJob) Path(month time.Time) string {
	name := fmt.Sprintf("report_%s_%s.%s", j.ownerID, month.Format("2006-01"), export.FormatXLSX)
	return filepath.Join(j.reportDir, name)
}

// writeFile 임시 파일에 쓰고 rename (부분 파일 방지)
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

package jobs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/wonny/labtrade/internal/analytics"
	"github.com/wonny/labtrade/internal/export"
	"github.com/wonny/labtrade/internal/ingest"
	"github.com/wonny/labtrade/internal/report"
	"github.com/wonny/labtrade/pkg/logger"
)

type stubSource struct{}

func (stubSource) Fetch(ctx context.Context, ownerID string) ([]ingest.RawRecord, error) {
	return ingest.DecodeRecords([]byte(`[
		{"id":"1","fromId":"lab","toId":"A","toName":"A치과","date":"2024-02-10","totalAmount":10000},
		{"id":"2","fromId":"lab","toId":"A","toName":"A치과","date":"2024-03-02","totalAmount":7000}
	]`))
}

func TestMonthlyReportJob(t *testing.T) {
	labels, err := export.LabelsFor(export.LocaleKO)
	require.NoError(t, err)
	orch := report.NewOrchestrator(stubSource{}, analytics.NewEngine(analytics.DefaultConfig(), zerolog.Nop()), labels, logger.Nop())

	dir := t.TempDir()
	job := NewMonthlyReportJob(orch, "lab", dir, logger.Nop())
	job.now = func() time.Time { return time.Date(2024, 3, 1, 6, 0, 0, 0, orch.Location()) }

	assert.Equal(t, "monthly_report", job.Name())
	assert.Equal(t, "0 0 6 1 * *", job.Schedule())

	require.NoError(t, job.Run(context.Background()))

	path := filepath.Join(dir, "report_lab_2024-02.xlsx")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("statements")
	require.NoError(t, err)
	// 헤더 + 2월 명세서 1건 + 빈 행 + 합계 4행
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, "2024-02-10", rows[1][0])

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

type stubCache struct {
	invalidated []string
	err         error
}

func (c *stubCache) Invalidate(ctx context.Context, ownerID string) error {
	c.invalidated = append(c.invalidated, ownerID)
	return c.err
}

func TestCacheRefreshJob(t *testing.T) {
	cache := &stubCache{}
	warmed := ""
	job := NewCacheRefreshJob(cache, func(ctx context.Context, ownerID string) (int, error) {
		warmed = ownerID
		return 12, nil
	}, "lab", logger.Nop())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{"lab"}, cache.invalidated)
	assert.Equal(t, "lab", warmed)
}

func TestCacheRefreshJob_InvalidateError(t *testing.T) {
	boom := errors.New("redis down")
	job := NewCacheRefreshJob(&stubCache{err: boom}, func(ctx context.Context, ownerID string) (int, error) {
		t.Fatal("warm must not run after a failed invalidate")
		return 0, nil
	}, "lab", logger.Nop())

	assert.ErrorIs(t, job.Run(context.Background()), boom)
}

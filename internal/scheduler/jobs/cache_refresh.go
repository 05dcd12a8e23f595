package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/labtrade/pkg/logger"
)

// Invalidator drops cached records for an owner
type Invalidator interface {
	Invalidate(ctx context.Context, ownerID string) error
}

// CacheRefreshJob drops and re-warms the owner's cached records
type CacheRefreshJob struct {
	cache   Invalidator
	warm    func(ctx context.Context, ownerID string) (int, error)
	ownerID string
	logger  *logger.Logger
}

// NewCacheRefreshJob creates a new cache refresh job.
// warm은 원본을 다시 조회하고 문서 수를 반환
func NewCacheRefreshJob(cache Invalidator, warm func(ctx context.Context, ownerID string) (int, error), ownerID string, log *logger.Logger) *CacheRefreshJob {
	return &CacheRefreshJob{
		cache:   cache,
		warm:    warm,
		ownerID: ownerID,
		logger:  log.WithComponent("jobs.cache_refresh"),
	}
}

// Name returns the job name
func (j *CacheRefreshJob) Name() string {
	return "cache_refresh"
}

// Schedule returns the cron schedule (every 10 minutes)
func (j *CacheRefreshJob) Schedule() string {
	return "0 */10 * * * *"
}

// Run executes the cache refresh
func (j *CacheRefreshJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache refresh")

	if err := j.cache.Invalidate(ctx, j.ownerID); err != nil {
		return fmt.Errorf("invalidate records cache: %w", err)
	}

	count, err := j.warm(ctx, j.ownerID)
	if err != nil {
		return fmt.Errorf("warm records cache: %w", err)
	}

	j.logger.WithField("records", count).Info("Cache refresh completed")
	return nil
}

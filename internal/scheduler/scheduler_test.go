package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/labtrade/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	failures int32 // 처음 N번 실패
	calls    atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	n := j.calls.Add(1)
	if n <= j.failures {
		return errors.New("transient failure")
	}
	return nil
}

func TestAddJob(t *testing.T) {
	s := New(logger.Nop())

	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "0 0 6 1 * *"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "0 */10 * * * *"}))

	assert.Error(t, s.AddJob(&fakeJob{name: "a", schedule: "0 */10 * * * *"}), "duplicate name")
	assert.Error(t, s.AddJob(&fakeJob{name: "bad", schedule: "not cron"}))
	assert.Equal(t, []string{"a", "b"}, s.GetAllJobs())
}

func TestRemoveJob(t *testing.T) {
	s := New(logger.Nop())
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunJobSync_Retries(t *testing.T) {
	s := New(logger.Nop(), WithRetry(2, time.Millisecond))
	job := &fakeJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJobSync(context.Background(), "flaky")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Empty(t, result.Error)
}

func TestRunJobSync_FailsAfterRetries(t *testing.T) {
	s := New(logger.Nop(), WithRetry(1, time.Millisecond))
	require.NoError(t, s.AddJob(&fakeJob{name: "broken", schedule: "@daily", failures: 100}))

	result, err := s.RunJobSync(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Contains(t, result.Error, "transient failure")

	stats := s.GetJobStats()["broken"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.FailureCount)
	require.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

func TestRunJobSync_UnknownJob(t *testing.T) {
	_, err := New(logger.Nop()).RunJobSync(context.Background(), "missing")
	assert.Error(t, err)
}

func TestNextRun(t *testing.T) {
	s := New(logger.Nop(), WithLocation(time.UTC))
	require.NoError(t, s.AddJob(&fakeJob{name: "monthly", schedule: "0 0 6 1 * *"}))

	s.Start()
	defer s.Stop()

	next, err := s.NextRun("monthly")
	require.NoError(t, err)
	assert.Equal(t, 1, next.Day())
	assert.Equal(t, 6, next.Hour())
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+5; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.Latest(3), 3)
	assert.Empty(t, h.Latest(0))
	assert.InDelta(t, 0.5, h.SuccessRate(), 0.01)
	assert.Len(t, h.Failed(), maxHistory/2)
}

package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finbot/internal/jobs"
)

func waitForStatus(t *testing.T, store *Store, jobID string, want jobs.JobStatus) *jobs.IngestMessageJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", jobID, want)
	return nil
}

func TestQueue_PublishAndProcess(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 2, store)
	defer q.Close()

	var processed atomic.Int32
	require.NoError(t, q.Start(context.Background(), func(_ context.Context, job jobs.Job) error {
		processed.Add(1)
		return nil
	}))

	job := &jobs.IngestMessageJob{UserID: "u1", Text: "500 кафе"}
	require.NoError(t, q.PublishIngestMessage(context.Background(), job))
	require.NotEmpty(t, job.JobID)

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	assert.Equal(t, int32(1), processed.Load())
	assert.NotNil(t, final.StartedAt)
	assert.NotNil(t, final.CompletedAt)
	assert.Empty(t, final.Error)
}

func TestQueue_RetriesTransientFailure(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 1, store)
	defer q.Close()

	var attempts atomic.Int32
	require.NoError(t, q.Start(context.Background(), func(_ context.Context, _ jobs.Job) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	}))

	job := &jobs.IngestMessageJob{UserID: "u1", Text: "500 кафе", MaxRetries: 2}
	require.NoError(t, q.PublishIngestMessage(context.Background(), job))

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, 1, final.RetryCount)
}

func TestQueue_NotRetryableGoesToRejected(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 1, store)
	defer q.Close()

	var attempts atomic.Int32
	require.NoError(t, q.Start(context.Background(), func(_ context.Context, _ jobs.Job) error {
		attempts.Add(1)
		return &jobs.ErrNotRetryable{Err: errors.New("not a transaction")}
	}))

	job := &jobs.IngestMessageJob{UserID: "u1", Text: "привет"}
	require.NoError(t, q.PublishIngestMessage(context.Background(), job))

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusRejected)
	assert.Equal(t, int32(1), attempts.Load(), "rejected jobs are not retried")
	assert.Equal(t, "not a transaction", final.Error)
}

func TestQueue_ExhaustedRetriesFail(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, 1, store)
	defer q.Close()

	require.NoError(t, q.Start(context.Background(), func(_ context.Context, _ jobs.Job) error {
		return errors.New("always broken")
	}))

	job := &jobs.IngestMessageJob{UserID: "u1", Text: "500 кафе", MaxRetries: 1}
	require.NoError(t, q.PublishIngestMessage(context.Background(), job))

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusFailed)
	assert.Equal(t, 1, final.RetryCount)
	assert.Equal(t, "always broken", final.Error)
}

func TestQueue_PublishAfterCloseFails(t *testing.T) {
	q := NewQueue(1, 1, nil)
	require.NoError(t, q.Close())

	err := q.PublishIngestMessage(context.Background(), &jobs.IngestMessageJob{UserID: "u1"})
	assert.Error(t, err)
}

func TestStore_ListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, user := range []string{"u1", "u1", "u2"} {
		require.NoError(t, store.SaveJob(ctx, &jobs.IngestMessageJob{
			JobID:     string(rune('a' + i)),
			UserID:    user,
			Status:    jobs.JobStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := store.ListJobs(ctx, jobs.JobFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].JobID, "newest first")

	got, err = store.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = store.ListJobs(ctx, jobs.JobFilter{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
}

package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllPartitionsOutcomes(t *testing.T) {
	boom := errors.New("provider unreachable")
	tasks := []fetchTask{
		{
			connectionID: "conn-ok",
			run: func(_ context.Context) ([]BusyPeriod, error) {
				return []BusyPeriod{busyUTC(t, "2025-11-17T10:00:00Z", "2025-11-17T11:00:00Z")}, nil
			},
		},
		{
			connectionID: "conn-bad",
			run: func(_ context.Context) ([]BusyPeriod, error) {
				return nil, boom
			},
		},
	}

	successes, failures := runAll(context.Background(), time.Second, tasks)
	require.Len(t, successes, 1)
	require.Len(t, failures, 1)
	assert.Equal(t, "conn-bad", failures[0].connectionID)
	assert.ErrorIs(t, failures[0].err, boom)
}

func TestRunAllEmpty(t *testing.T) {
	successes, failures := runAll(context.Background(), time.Second, nil)
	assert.Empty(t, successes)
	assert.Empty(t, failures)
}

func TestRunAllTimeout(t *testing.T) {
	tasks := []fetchTask{
		{
			connectionID: "conn-slow",
			run: func(ctx context.Context) ([]BusyPeriod, error) {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return []BusyPeriod{}, nil
				}
			},
		},
	}

	start := time.Now()
	successes, failures := runAll(context.Background(), 20*time.Millisecond, tasks)
	assert.Empty(t, successes)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRunAllConcurrent(t *testing.T) {
	// Two tasks each sleeping 50ms must finish well under the serial sum
	// when run concurrently.
	sleeper := func(_ context.Context) ([]BusyPeriod, error) {
		time.Sleep(50 * time.Millisecond)
		return []BusyPeriod{}, nil
	}
	tasks := []fetchTask{
		{connectionID: "a", run: sleeper},
		{connectionID: "b", run: sleeper},
		{connectionID: "c", run: sleeper},
	}

	start := time.Now()
	successes, failures := runAll(context.Background(), time.Second, tasks)
	assert.Len(t, successes, 3)
	assert.Empty(t, failures)
	assert.Less(t, time.Since(start), 140*time.Millisecond)
}

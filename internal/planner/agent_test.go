package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAgentSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	out, fromAI := runAgent(context.Background(), testLogger(), testRunnerConfig(), "test",
		func(context.Context) (int, error) {
			calls++
			return 42, nil
		},
		func() int { return -1 },
	)

	assert.True(t, fromAI)
	assert.Equal(t, 42, out)
	assert.Equal(t, 1, calls)
}

func TestRunAgentRetriesThenSucceeds(t *testing.T) {
	calls := 0
	out, fromAI := runAgent(context.Background(), testLogger(), testRunnerConfig(), "test",
		func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, ErrMalformedOutput
			}
			return 7, nil
		},
		func() int { return -1 },
	)

	assert.True(t, fromAI)
	assert.Equal(t, 7, out)
	assert.Equal(t, 3, calls)
}

func TestRunAgentExhaustsRetriesAndFallsBack(t *testing.T) {
	calls := 0
	out, fromAI := runAgent(context.Background(), testLogger(), testRunnerConfig(), "test",
		func(context.Context) (int, error) {
			calls++
			return 0, errors.New("boom")
		},
		func() int { return -1 },
	)

	assert.False(t, fromAI)
	assert.Equal(t, -1, out)
	// MAX_RETRIES=2 means three attempts total.
	assert.Equal(t, 3, calls)
}

func TestRunAgentRetriesAreSequential(t *testing.T) {
	var inFlight, maxInFlight int
	runAgent(context.Background(), testLogger(), testRunnerConfig(), "test",
		func(context.Context) (int, error) {
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			time.Sleep(2 * time.Millisecond)
			inFlight--
			return 0, ErrValidationFailed
		},
		func() int { return 0 },
	)
	assert.Equal(t, 1, maxInFlight)
}

func TestRunAgentBoundedWallClockOnHangingService(t *testing.T) {
	cfg := testRunnerConfig()
	cfg.AttemptTimeout = 20 * time.Millisecond

	start := time.Now()
	out, fromAI := runAgent(context.Background(), testLogger(), cfg, "test",
		func(ctx context.Context) (int, error) {
			<-ctx.Done() // never responds within the attempt timeout
			return 0, ctx.Err()
		},
		func() int { return 99 },
	)
	elapsed := time.Since(start)

	require.False(t, fromAI)
	assert.Equal(t, 99, out)
	// Three attempts of 20ms plus millisecond backoffs; anything near a
	// second means an attempt escaped its timeout.
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestDefaultBackoffIsExponential(t *testing.T) {
	assert.Equal(t, 2*time.Second, defaultBackoff(1))
	assert.Equal(t, 4*time.Second, defaultBackoff(2))
}

package planner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// --- Error Definitions ---

// These cover the recoverable failure classes inside an agent attempt. None
// of them ever escapes Generate: after retries they resolve to the agent's
// deterministic fallback.
var (
	ErrMalformedOutput  = errors.New("completion output is not usable JSON")
	ErrValidationFailed = errors.New("completion output failed structural validation")
)

const (
	defaultMaxRetries     = 2
	defaultAttemptTimeout = 25 * time.Second
)

// runnerConfig controls the attempt/retry/fallback loop shared by all agents.
type runnerConfig struct {
	MaxRetries     int
	AttemptTimeout time.Duration

	// Backoff returns the delay before retry number n (1-based): 2^n seconds.
	Backoff func(retry int) time.Duration

	// Sleep is context-aware and swappable in tests.
	Sleep func(ctx context.Context, d time.Duration)
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{
		MaxRetries:     defaultMaxRetries,
		AttemptTimeout: defaultAttemptTimeout,
		Backoff:        defaultBackoff,
		Sleep:          sleepCtx,
	}
}

func defaultBackoff(retry int) time.Duration {
	return time.Duration(1<<uint(retry)) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// attemptPhase is the state of one agent run.
type attemptPhase int

const (
	phaseAttempting attemptPhase = iota
	phaseSucceeded
	phaseFallingBack
)

// runAgent drives a single agent call through the attempt state machine:
// Attempting(n) -> Succeeded | FallingBack. Attempts are strictly sequential
// and each one runs under its own timeout, so the wall-clock upper bound is
// (MaxRetries+1)*AttemptTimeout plus the backoff delays. The second return
// value reports whether the result came from the completion service; false
// means the deterministic fallback was used.
//
// runAgent never returns an error. Only a panic in the fallback itself can
// escape, and that indicates a defect rather than an environmental failure.
func runAgent[T any](ctx context.Context, log zerolog.Logger, cfg runnerConfig, name string,
	attempt func(context.Context) (T, error), fallback func() T) (T, bool) {

	phase := phaseAttempting
	var out T

	for n := 0; phase == phaseAttempting; n++ {
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.AttemptTimeout)
		res, err := attempt(attemptCtx)
		cancel()

		if err == nil {
			out = res
			phase = phaseSucceeded
			break
		}

		log.Warn().
			Err(err).
			Str("agent", name).
			Int("attempt", n+1).
			Msg("agent attempt failed")

		if n >= cfg.MaxRetries {
			phase = phaseFallingBack
			break
		}
		cfg.Sleep(ctx, cfg.Backoff(n+1))
	}

	if phase == phaseFallingBack {
		log.Info().Str("agent", name).Msg("using deterministic fallback output")
		return fallback(), false
	}
	return out, true
}

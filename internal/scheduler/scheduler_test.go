package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fake runner ---
type fakeRunner struct {
	calls   atomic.Int32
	running atomic.Int32
	maxSeen atomic.Int32
	delay   time.Duration
	err     error
	panics  bool
}

func (f *fakeRunner) EvaluateAutoReleases(ctx context.Context) (*services.EvaluationSummary, error) {
	f.calls.Add(1)
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	if f.panics {
		panic("boom")
	}
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
	}
	return &services.EvaluationSummary{Evaluated: 1}, f.err
}

// --- Tests ---
func TestScheduler_RunsPasses(t *testing.T) {
	runner := &fakeRunner{}
	s := New("@every 1s", runner, time.Second)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return runner.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
}

func TestScheduler_SkipsOverlappingPasses(t *testing.T) {
	runner := &fakeRunner{delay: 2500 * time.Millisecond}
	s := New("@every 1s", runner, 5*time.Second)
	require.NoError(t, s.Start())

	time.Sleep(3500 * time.Millisecond)
	<-s.Stop().Done()

	assert.Equal(t, int32(1), runner.maxSeen.Load())
}

func TestScheduler_RecoversFromPanics(t *testing.T) {
	runner := &fakeRunner{panics: true}
	s := New("@every 1s", runner, time.Second)
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, 4*time.Second, 20*time.Millisecond)
}

func TestScheduler_HaltedPassIsLogged(t *testing.T) {
	runner := &fakeRunner{err: services.ErrEngineHalted}
	s := New("@every 1h", runner, time.Second)

	assert.NotPanics(t, s.runAutoRelease)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New("not a schedule", &fakeRunner{}, time.Second)
	assert.Error(t, s.Start())
}

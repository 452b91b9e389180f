package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
)

// AutoReleaseRunner runs one auto-release pass.
type AutoReleaseRunner interface {
	EvaluateAutoReleases(ctx context.Context) (*services.EvaluationSummary, error)
}

// Scheduler runs auto-release passes on a cron schedule. A pass still running
// when the next one is due makes the next one skip.
type Scheduler struct {
	cron     *cron.Cron
	runner   AutoReleaseRunner
	schedule string
	timeout  time.Duration
}

// New creates a Scheduler. Each pass is cancelled after timeout.
func New(schedule string, runner AutoReleaseRunner, timeout time.Duration) *Scheduler {
	l := cronLogger{}
	return &Scheduler{
		// Recover must wrap the job inside SkipIfStillRunning, which does not
		// release its slot when the job panics.
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(l), cron.Recover(l))),
		runner:   runner,
		schedule: schedule,
		timeout:  timeout,
	}
}

// Start registers the auto-release job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runAutoRelease); err != nil {
		logger.Log.Errorw("failed to schedule auto-release job", "schedule", s.schedule, "error", err)
		return err
	}
	logger.Log.Infow("scheduled auto-release job", "schedule", s.schedule)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler. The returned context is done when running jobs finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runAutoRelease() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	summary, err := s.runner.EvaluateAutoReleases(ctx)
	switch {
	case errors.Is(err, services.ErrEngineHalted):
		logger.Log.Warnw("auto-release skipped: settlement engine halted")
	case err != nil:
		logger.Log.Errorw("auto-release pass failed", "error", err)
	default:
		logger.Log.Infow("auto-release pass finished",
			"evaluated", summary.Evaluated,
			"released", summary.Released,
			"scheduled", summary.Scheduled,
			"cancelled", summary.Cancelled,
			"failed", summary.Failed,
		)
	}
}

// cronLogger routes cron logs to the global logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Log.Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Log.Errorw(msg, append(keysAndValues, "error", err)...)
}

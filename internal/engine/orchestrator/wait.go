package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/artisan/internal/core/domain"
	"go.trai.ch/artisan/internal/core/ports"
	"go.trai.ch/zerr"
)

// WaitOptions bounds the polling loop of Wait.
type WaitOptions struct {
	// Interval is the pause between two polls. Zero polls back to back.
	Interval time.Duration
	// MaxAttempts bounds the number of polls. Zero or less uses the configured default.
	MaxAttempts int
	// Timeout bounds the wall-clock duration of the loop. Zero or less disables the deadline.
	Timeout time.Duration
}

// DefaultWaitOptions returns the configured polling budget.
func (o *Orchestrator) DefaultWaitOptions() WaitOptions {
	return WaitOptions{
		Interval:    o.pollCfg.Interval,
		MaxAttempts: o.pollCfg.MaxAttempts,
		Timeout:     o.pollCfg.Timeout,
	}
}

// Wait polls taskID until it reaches a terminal state.
//
// Exhausting the attempts or the deadline fails with domain.ErrTimeout. The remote job is not
// cancelled and stays recoverable through a later Poll.
func (o *Orchestrator) Wait(ctx context.Context, taskID string, opts WaitOptions) (status *domain.TaskStatus, err error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = o.pollCfg.MaxAttempts
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = domain.DefaultPollMaxAttempts
	}

	ctx, vertex := o.telemetry.Record(ctx, "wait "+taskID, ports.WithGroup("generate"))
	defer func() {
		vertex.Complete(err)
	}()

	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = o.clock.Now().Add(opts.Timeout)
	}

	for attempt := 1; ; attempt++ {
		status, err = o.Poll(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if status.State.IsTerminal() {
			if status.Cached {
				vertex.Cached()
			}
			return status, nil
		}
		vertex.Log(domain.LogLevelInfo, fmt.Sprintf("attempt %d/%d: %s", attempt, opts.MaxAttempts, status.Message))

		if attempt >= opts.MaxAttempts {
			return nil, timeout(taskID, attempt)
		}
		if !deadline.IsZero() && !o.clock.Now().Before(deadline) {
			return nil, timeout(taskID, attempt)
		}
		if err = o.sleep(ctx, opts.Interval, deadline); err != nil {
			return nil, err
		}
	}
}

// Generate submits a task and waits for its terminal state.
func (o *Orchestrator) Generate(ctx context.Context, prompt string, imageURLs []string, opts WaitOptions) (*domain.TaskStatus, error) {
	taskID, err := o.Submit(ctx, prompt, imageURLs)
	if err != nil {
		return nil, err
	}
	return o.Wait(ctx, taskID, opts)
}

// sleep pauses for interval, cut short at deadline.
func (o *Orchestrator) sleep(ctx context.Context, interval time.Duration, deadline time.Time) error {
	if !deadline.IsZero() {
		interval = min(interval, deadline.Sub(o.clock.Now()))
	}
	if interval <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-o.clock.After(interval):
		return nil
	}
}

func timeout(taskID string, attempts int) error {
	return domain.WithKind(domain.ErrTimeout,
		zerr.With(zerr.With(zerr.New("task did not reach a terminal state"), "task_id", taskID), "attempts", attempts))
}

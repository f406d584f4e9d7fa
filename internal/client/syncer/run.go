package syncer

import (
	"context"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/registry"
)

// reload rebuilds the schedule from the pending tasks in the vault.
func (e *Engine) reload(ctx context.Context) {
	tasks, err := e.reg.PendingTasks(ctx)
	if err != nil {
		e.logger.Warn(ctx, "reload schedule", "error", err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sched.reset()
	for _, t := range tasks {
		e.sched.set(t.ID, t.NextRetryAt)
	}
}

// NextDue returns the earliest retry eligibility among pending tasks as of
// the last drain.
func (e *Engine) NextDue() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched.next()
}

// Run drives the engine until ctx is done. It drains the queue when the
// engine goes online, when new evidence is added, when the earliest retry
// becomes eligible and on every periodic tick. Nothing runs while offline.
func (e *Engine) Run(ctx context.Context) error {
	events, unsubscribe := e.reg.Subscribe(16)
	defer unsubscribe()

	e.reload(ctx)
	e.logger.Info(ctx, "sync engine started", "interval", e.interval, "base_delay", e.baseDelay, "max_retries", e.maxRetries)

	tick := e.clock.After(e.interval)
	var (
		dueAt time.Time
		due   <-chan time.Time
	)
	arm := func() {
		next, ok := e.NextDue()
		now := e.clock.Now()
		// Tasks already eligible after a drain are left to the periodic tick.
		if !ok || !e.Online() || !next.After(now) {
			due, dueAt = nil, time.Time{}
			return
		}
		if due != nil && next.Equal(dueAt) {
			return
		}
		dueAt = next
		due = e.clock.After(next.Sub(now))
	}
	drain := func(reason string) {
		sum, err := e.ProcessQueue(ctx)
		if err != nil {
			e.logger.Error(ctx, "sync drain failed", "reason", reason, "error", err)
		} else if sum.Processed > 0 {
			e.logger.Info(ctx, "sync drain finished", "reason", reason, "completed", sum.Completed, "rescheduled", sum.Rescheduled, "failed", sum.Failed)
		}
		arm()
	}

	drain("start")
	for {
		select {
		case <-ctx.Done():
			e.logger.Info(ctx, "sync engine stopped")
			return nil
		case <-e.wake:
			drain("online")
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Type == registry.EventEntryAdded {
				drain("entry_added")
			}
		case <-tick:
			tick = e.clock.After(e.interval)
			drain("periodic")
		case <-due:
			due = nil
			drain("retry")
		}
	}
}

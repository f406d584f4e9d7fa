// Package netwatch tracks whether the remote evidence store is reachable.
package netwatch

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/clock"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
)

const pingTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// Watcher pings the store every interval and reports transitions.
type Watcher struct {
	pinger   Pinger
	interval time.Duration
	clock    clock.Clock
	logger   logging.Logger
	onChange func(online bool)

	known  atomic.Bool
	online atomic.Bool
}

// New builds a Watcher. onChange is called on the first check and on every
// online/offline transition after it, from the Run goroutine.
func New(p Pinger, interval time.Duration, clk clock.Clock, l logging.Logger, onChange func(online bool)) *Watcher {
	if clk == nil {
		clk = clock.System{}
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Watcher{
		pinger:   p,
		interval: interval,
		clock:    clk,
		logger:   l.With("module", "netwatch"),
		onChange: onChange,
	}
}

// Online reports the last observed state.
func (w *Watcher) Online() bool { return w.online.Load() }

// Check pings once and reports the resulting state.
func (w *Watcher) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := w.pinger.Ping(pctx)
	cancel()

	online := err == nil
	prev := w.online.Swap(online)
	first := !w.known.Swap(true)

	if first || prev != online {
		if online {
			w.logger.Info(ctx, "evidence store reachable")
		} else {
			w.logger.Warn(ctx, "evidence store unreachable", "error", err)
		}
		if w.onChange != nil {
			w.onChange(online)
		}
	}
	return online
}

// Run checks immediately and then every interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		w.Check(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-w.clock.After(w.interval):
		}
	}
}

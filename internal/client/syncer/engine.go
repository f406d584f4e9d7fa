// Package syncer moves evidence entries from the local vault to the remote
// evidence store. Tasks are processed one at a time; failures are retried
// with exponential backoff until the retry budget is spent.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/evidencevault/internal/audit"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/registry"
	"github.com/dmitrijs2005/evidencevault/internal/client/remote"
	"github.com/dmitrijs2005/evidencevault/internal/clock"
	"github.com/dmitrijs2005/evidencevault/internal/cryptox"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/metrics"
)

const (
	DefaultBaseDelay  = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultInterval   = 5 * time.Minute
)

var (
	ErrOffline               = errors.New("offline")
	ErrTaskFailedPermanently = errors.New("sync task failed permanently")
)

type Options struct {
	CollectionID string
	BaseDelay    time.Duration
	MaxRetries   int
	// Interval is the periodic drain while Run is active.
	Interval time.Duration
	Clock    clock.Clock
	Logger   logging.Logger
	Metrics  *metrics.Vault
	Audit    audit.Recorder
}

// Outcome is the result of one task attempt.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeRescheduled Outcome = "rescheduled"
	OutcomeFailed      Outcome = "failed"
)

// Summary reports what one drain did.
type Summary struct {
	Skipped     bool
	Processed   int
	Completed   int
	Rescheduled int
	Failed      int
}

type Engine struct {
	reg    *registry.Registry
	crypto *cryptox.Service
	remote remote.Store
	master cryptox.SymmetricKey

	collectionID string
	baseDelay    time.Duration
	maxRetries   int
	interval     time.Duration

	clock   clock.Clock
	logger  logging.Logger
	metrics *metrics.Vault
	audit   audit.Recorder
	tracer  trace.Tracer

	running atomic.Bool
	online  atomic.Bool
	wake    chan struct{}

	mu    sync.Mutex
	sched *schedule
}

func New(reg *registry.Registry, crypto *cryptox.Service, store remote.Store, master cryptox.SymmetricKey, opts Options) *Engine {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Audit == nil {
		opts.Audit = audit.Nop{}
	}
	return &Engine{
		reg:          reg,
		crypto:       crypto,
		remote:       store,
		master:       master,
		collectionID: opts.CollectionID,
		baseDelay:    opts.BaseDelay,
		maxRetries:   opts.MaxRetries,
		interval:     opts.Interval,
		clock:        opts.Clock,
		logger:       opts.Logger.With("module", "syncer"),
		metrics:      opts.Metrics,
		audit:        opts.Audit,
		tracer:       otel.Tracer("github.com/dmitrijs2005/evidencevault/internal/client/syncer"),
		wake:         make(chan struct{}, 1),
		sched:        newSchedule(),
	}
}

// Online reports the last state passed to SetOnline.
func (e *Engine) Online() bool { return e.online.Load() }

// SetOnline records connectivity. Going online wakes the Run loop, which
// drains the queue immediately.
func (e *Engine) SetOnline(online bool) {
	prev := e.online.Swap(online)
	if online && !prev {
		select {
		case e.wake <- struct{}{}:
		default:
		}
	}
}

// Backoff is the delay before the next attempt of a task that has already
// failed attempts times: base * 2^attempts.
func (e *Engine) Backoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 30 {
		attempts = 30
	}
	return e.baseDelay << attempts
}

// ProcessQueue handles every due pending task, one at a time. It is a no-op
// while offline or while another drain is running.
func (e *Engine) ProcessQueue(ctx context.Context) (Summary, error) {
	return e.drain(ctx, false)
}

// ForceSync drains every pending task now, ignoring retry eligibility.
func (e *Engine) ForceSync(ctx context.Context) (Summary, error) {
	if !e.online.Load() {
		return Summary{}, ErrOffline
	}
	return e.drain(ctx, true)
}

func (e *Engine) drain(ctx context.Context, force bool) (Summary, error) {
	var sum Summary
	if !e.online.Load() {
		sum.Skipped = true
		return sum, nil
	}
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Debug(ctx, "drain already running")
		sum.Skipped = true
		return sum, nil
	}
	defer e.running.Store(false)
	defer e.reload(ctx)

	var (
		tasks []models.SyncTask
		err   error
	)
	if force {
		tasks, err = e.reg.PendingTasks(ctx)
	} else {
		tasks, err = e.reg.DueTasks(ctx, e.clock.Now())
	}
	if err != nil {
		return sum, fmt.Errorf("load sync queue: %w", err)
	}
	if len(tasks) > 0 {
		e.logger.Info(ctx, "draining sync queue", "tasks", len(tasks), "forced", force)
	}

	for _, t := range tasks {
		if ctx.Err() != nil || !e.online.Load() {
			break
		}
		out, err := e.HandleTask(ctx, t)
		sum.Processed++
		switch out {
		case OutcomeCompleted:
			sum.Completed++
		case OutcomeRescheduled:
			sum.Rescheduled++
		case OutcomeFailed:
			sum.Failed++
		}
		if err != nil && !errors.Is(err, ErrTaskFailedPermanently) {
			return sum, err
		}
	}
	return sum, nil
}

// HandleTask runs one attempt of t and records the result. A transport
// failure reschedules the task, or fails it permanently once the retry
// budget is spent; the returned error then wraps ErrTaskFailedPermanently.
// Other errors mean the attempt could not be recorded at all.
func (e *Engine) HandleTask(ctx context.Context, t models.SyncTask) (Outcome, error) {
	// An attempt that started runs to completion.
	ctx = context.WithoutCancel(ctx)

	attempt := t.Attempts + 1
	ctx, span := e.tracer.Start(ctx, "sync.task", trace.WithAttributes(
		attribute.String("task.id", t.ID),
		attribute.String("task.kind", string(t.Kind)),
		attribute.String("evidence.id", t.EvidenceID),
		attribute.Int("attempt", attempt),
	))
	defer span.End()

	started := time.Now()
	entry, err := e.reg.GetByID(ctx, t.EvidenceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entry missing")
		e.logger.Error(ctx, "sync task references missing evidence", "task_id", t.ID, "evidence_id", t.EvidenceID, "error", err)
		return "", fmt.Errorf("task %s: %w", t.ID, err)
	}

	if t.Kind == models.TaskUpload {
		if err := e.reg.MarkUploading(ctx, entry.ID); err != nil {
			return "", err
		}
	}

	remoteID, hash, existing, opErr := e.perform(ctx, t, entry)
	res := registry.UploadResult{RemoteID: remoteID, Hash: hash}

	if opErr == nil {
		if err := e.reg.CompleteTask(ctx, t.ID, res); err != nil {
			return "", err
		}
		e.record(t, attempt, "success", "", hash, started)
		e.logger.Info(ctx, "sync task completed", "task_id", t.ID, "evidence_id", t.EvidenceID, "kind", t.Kind, "attempt", attempt, "remote_id", remoteID)
		if existing {
			// the stored copy may carry metadata from an older attempt
			if _, err := e.reg.EnqueueTask(ctx, entry.ID, models.TaskStatusUpdate); err != nil {
				e.logger.Warn(ctx, "enqueue metadata refresh", "evidence_id", entry.ID, "error", err)
			}
		}
		return OutcomeCompleted, nil
	}

	span.RecordError(opErr)
	res.Error = opErr.Error()

	if attempt >= e.maxRetries || permanent(opErr) {
		span.SetStatus(codes.Error, "failed permanently")
		if _, err := e.reg.FailTaskPermanently(ctx, t.ID, res); err != nil {
			return "", err
		}
		e.record(t, attempt, "failed", opErr.Error(), "", started)
		e.logger.Error(ctx, "sync task failed permanently", "task_id", t.ID, "evidence_id", t.EvidenceID, "attempts", attempt, "error", opErr)
		return OutcomeFailed, fmt.Errorf("task %s after %d attempts: %w: %w", t.ID, attempt, ErrTaskFailedPermanently, opErr)
	}

	next := e.clock.Now().Add(e.Backoff(t.Attempts))
	if _, err := e.reg.RescheduleTask(ctx, t.ID, res, next); err != nil {
		return "", err
	}
	e.record(t, attempt, "retry", opErr.Error(), "", started)
	e.logger.Warn(ctx, "sync attempt failed", "task_id", t.ID, "evidence_id", t.EvidenceID, "attempt", attempt, "next_retry_at", next, "error", opErr)
	return OutcomeRescheduled, nil
}

// perform runs the remote call of t. existing is set when an upload found
// the package already stored.
func (e *Engine) perform(ctx context.Context, t models.SyncTask, entry *models.EvidenceEntry) (remoteID, hash string, existing bool, err error) {
	pkgID := entry.Descriptor.PackageID
	switch t.Kind {
	case models.TaskUpload:
		return e.upload(ctx, entry)
	case models.TaskStatusUpdate:
		remoteID, err = e.remote.UpdateMetadata(ctx, e.collectionID, pkgID, Metadata(entry))
		return remoteID, "", false, err
	case models.TaskDelete:
		return "", "", false, e.remote.Delete(ctx, e.collectionID, pkgID)
	}
	return "", "", false, fmt.Errorf("unknown task kind %q", t.Kind)
}

func (e *Engine) upload(ctx context.Context, entry *models.EvidenceEntry) (string, string, bool, error) {
	pkgID := entry.Descriptor.PackageID

	// A previous attempt may have landed without being acknowledged.
	remoteID, found, err := e.remote.Lookup(ctx, e.collectionID, pkgID)
	if err != nil {
		return "", "", false, err
	}
	if found {
		e.logger.Info(ctx, "package already stored remotely", "evidence_id", entry.ID, "remote_id", remoteID)
		return remoteID, entry.Descriptor.Verification.PackageHash, true, nil
	}

	key, err := cryptox.PackageKey(e.master, pkgID)
	if err != nil {
		return "", "", false, err
	}
	pkg, err := e.crypto.EncryptPackage(entry.Content, key)
	if err != nil {
		return "", "", false, err
	}
	if want := entry.Descriptor.Verification.PackageHash; want != "" && want != pkg.Hash {
		return "", "", false, fmt.Errorf("evidence %s package hash %s, descriptor says %s: %w", entry.ID, pkg.Hash, want, cryptox.ErrIntegrityMismatch)
	}

	res, err := e.remote.Upload(ctx, e.collectionID, remote.Package{
		PackageID:  pkgID,
		Nonce:      pkg.Nonce,
		Ciphertext: pkg.Ciphertext,
		Hash:       pkg.Hash,
		Algorithm:  pkg.Algorithm,
		Metadata:   Metadata(entry),
	})
	if err != nil {
		return "", "", false, err
	}
	return res.RemoteID, pkg.Hash, false, nil
}

// permanent reports errors that retrying with the same input cannot fix.
// Rejections by the evidence store are final; unauthorized calls are not.
func permanent(err error) bool {
	return errors.Is(err, cryptox.ErrIntegrityMismatch) ||
		errors.Is(err, cryptox.ErrInvalidKey) ||
		errors.Is(err, cryptox.ErrKeyNotExportable) ||
		errors.Is(err, remote.ErrRejected)
}

func (e *Engine) record(t models.SyncTask, attempt int, result, detail, hash string, started time.Time) {
	e.metrics.SyncAttempt(result, time.Since(started).Seconds())
	if detail != "" {
		detail = ": " + detail
	}
	e.audit.Record(audit.Record{
		Time:       e.clock.Now().UTC(),
		Op:         "sync_attempt",
		EvidenceID: t.EvidenceID,
		TaskID:     t.ID,
		Hash:       hash,
		Attempt:    attempt,
		Detail:     string(t.Kind) + " " + result + detail,
	})
}

// Metadata is the non-sensitive part of the descriptor shared with the
// remote store.
func Metadata(e *models.EvidenceEntry) map[string]string {
	d := e.Descriptor
	return map[string]string{
		"target_date":  d.Temporal.TargetDate,
		"content_type": string(d.Content.Type),
		"item_count":   strconv.Itoa(d.Content.ItemCount),
		"version":      d.Version,
		"package_time": d.Temporal.PackageTime.UTC().Format(time.RFC3339),
		"category":     d.Display.Category,
	}
}

// Package processor turns one day of captured content into a vault entry:
// collect, filter, package and hand off to the registry. Transport is the
// sync engine's job; a run returns as soon as the entry is queued.
package processor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/evidencevault/internal/client/metagen"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/registry"
	"github.com/dmitrijs2005/evidencevault/internal/client/review"
	"github.com/dmitrijs2005/evidencevault/internal/clock"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/cryptox"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/metrics"
)

const DefaultMaxMessages = 10

var ErrAlreadyInProgress = errors.New("processing already in progress")

// Collector finds candidate content for a target date. A nil photo means
// none was captured.
type Collector interface {
	CandidatePhoto(ctx context.Context, date string) (*models.Photo, error)
	CandidateMessages(ctx context.Context, date string, max int) ([]models.Message, error)
}

// DocumentCollector is implemented by collectors that also gather documents.
type DocumentCollector interface {
	CandidateDocuments(ctx context.Context, date string) ([]models.Document, error)
}

// Filter is the content-filter oracle.
type Filter interface {
	Evaluate(ctx context.Context, b models.EvidenceBundle) (models.FilterResult, error)
}

// ReviewQueue receives rejected bundles when manual override is allowed.
type ReviewQueue interface {
	Enqueue(ctx context.Context, b models.EvidenceBundle, verdict models.FilterResult, date string) (*review.Item, error)
}

type Reason string

const (
	ReasonProcessed        Reason = "processed"
	ReasonNoEvidence       Reason = "no_evidence"
	ReasonFilteringFailed  Reason = "filtering_failed"
	ReasonAlreadyProcessed Reason = "already_processed"
	ReasonProcessingError  Reason = "processing_error"
)

// Result is the structured outcome of a run.
type Result struct {
	Success            bool   `json:"success"`
	Reason             Reason `json:"reason"`
	TargetDate         string `json:"target_date"`
	EvidenceID         string `json:"evidence_id,omitempty"`
	ManualReviewQueued bool   `json:"manual_review_queued,omitempty"`
	Reasoning          string `json:"reasoning,omitempty"`
	// Stage is where a processing_error happened.
	Stage string `json:"stage,omitempty"`
}

type Options struct {
	MaxMessages         int
	AllowManualOverride bool
	CollectionMethod    string
	Clock               clock.Clock
	Logger              logging.Logger
	Metrics             *metrics.Vault
}

type Processor struct {
	collector Collector
	filter    Filter
	registry  *registry.Registry
	crypto    *cryptox.Service
	review    ReviewQueue

	maxMessages      int
	allowOverride    bool
	collectionMethod string

	clock   clock.Clock
	logger  logging.Logger
	metrics *metrics.Vault
	tracer  trace.Tracer

	running atomic.Bool
}

func New(c Collector, f Filter, reg *registry.Registry, crypto *cryptox.Service, rq ReviewQueue, opts Options) *Processor {
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = DefaultMaxMessages
	}
	if opts.CollectionMethod == "" {
		opts.CollectionMethod = "automatic"
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Processor{
		collector:        c,
		filter:           f,
		registry:         reg,
		crypto:           crypto,
		review:           rq,
		maxMessages:      opts.MaxMessages,
		allowOverride:    opts.AllowManualOverride,
		collectionMethod: opts.CollectionMethod,
		clock:            opts.Clock,
		logger:           opts.Logger.With("module", "processor"),
		metrics:          opts.Metrics,
		tracer:           otel.Tracer("github.com/dmitrijs2005/evidencevault/internal/client/processor"),
	}
}

// run carries state between stages.
type run struct {
	date     string
	bundle   models.EvidenceBundle
	verdict  models.FilterResult
	warnings []string
	desc     models.Descriptor
	entry    *models.EvidenceEntry
}

// ProcessDaily runs the pipeline for targetDate (YYYY-MM-DD). Expected
// outcomes come back as a Result with a nil error; a processing_error
// result is returned together with the cause. A concurrent call fails
// with ErrAlreadyInProgress.
func (p *Processor) ProcessDaily(ctx context.Context, targetDate string) (Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return Result{}, ErrAlreadyInProgress
	}
	defer p.running.Store(false)

	ctx, span := p.tracer.Start(ctx, "processor.daily", trace.WithAttributes(attribute.String("target_date", targetDate)))
	defer span.End()

	res, err := p.process(ctx, targetDate)
	res.TargetDate = targetDate
	span.SetAttributes(attribute.String("outcome", string(res.Reason)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Stage)
		p.logger.Error(ctx, "processing failed", "stage", res.Stage, "target_date", targetDate, "error", err)
	} else {
		p.logger.Info(ctx, "processing finished", "target_date", targetDate, "reason", res.Reason, "evidence_id", res.EvidenceID)
	}
	p.metrics.ProcessorRun(string(res.Reason))
	return res, err
}

func (p *Processor) process(ctx context.Context, date string) (Result, error) {
	r := &run{date: date}

	if err := p.stage(ctx, "collect", func(ctx context.Context) error { return p.collect(ctx, r) }); err != nil {
		return failed("collect", err)
	}
	if r.bundle.IsEmpty() {
		return Result{Reason: ReasonNoEvidence, Reasoning: "no content captured for " + date}, nil
	}

	if err := p.stage(ctx, "filter", func(ctx context.Context) error { return p.evaluate(ctx, r) }); err != nil {
		return failed("filter", err)
	}
	if !r.verdict.Approved {
		return p.rejected(ctx, r)
	}

	if err := p.stage(ctx, "package", func(ctx context.Context) error { return p.pack(r) }); err != nil {
		return failed("package", err)
	}

	err := p.stage(ctx, "handoff", func(ctx context.Context) error {
		e, err := p.registry.Add(ctx, r.bundle, registry.AddOptions{Descriptor: &r.desc})
		r.entry = e
		return err
	})
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		return Result{
			Reason:     ReasonAlreadyProcessed,
			EvidenceID: r.desc.PackageID,
			Reasoning:  "evidence for " + date + " is already in the vault",
		}, nil
	case err != nil:
		return failed("handoff", err)
	}

	return Result{
		Success:    true,
		Reason:     ReasonProcessed,
		EvidenceID: r.entry.ID,
		Reasoning:  r.verdict.Reasoning,
	}, nil
}

func failed(stage string, err error) (Result, error) {
	return Result{Reason: ReasonProcessingError, Stage: stage, Reasoning: err.Error()}, fmt.Errorf("%s: %w", stage, err)
}

// stage runs fn inside a span and turns a panic into an error so one bad
// bundle cannot take the process down.
func (p *Processor) stage(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	ctx, span := p.tracer.Start(ctx, "processor."+name)
	defer span.End()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in %s: %v", name, rec)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, name)
		}
	}()

	p.logger.Debug(ctx, "stage started", "stage", name)
	start := p.clock.Now()
	err = fn(ctx)
	p.logger.Debug(ctx, "stage finished", "stage", name, "elapsed", p.clock.Now().Sub(start), "error", err)
	return err
}

func (p *Processor) collect(ctx context.Context, r *run) error {
	if _, err := time.Parse(common.DateLayout, r.date); err != nil {
		return fmt.Errorf("target date %q: %w", r.date, err)
	}
	r.bundle.TargetDate = r.date

	photo, err := p.collector.CandidatePhoto(ctx, r.date)
	if err != nil {
		return fmt.Errorf("candidate photo: %w", err)
	}
	r.bundle.Photo = photo

	msgs, err := p.collector.CandidateMessages(ctx, r.date, p.maxMessages)
	if err != nil {
		return fmt.Errorf("candidate messages: %w", err)
	}
	if len(msgs) > p.maxMessages {
		r.warnings = append(r.warnings, fmt.Sprintf("messages truncated from %d to %d", len(msgs), p.maxMessages))
		msgs = msgs[:p.maxMessages]
	}
	r.bundle.Messages = msgs

	if dc, ok := p.collector.(DocumentCollector); ok {
		docs, err := dc.CandidateDocuments(ctx, r.date)
		if err != nil {
			return fmt.Errorf("candidate documents: %w", err)
		}
		r.bundle.Documents = docs
	}

	p.logger.Info(ctx, "collected", "target_date", r.date, "photo", photo != nil, "messages", len(msgs), "documents", len(r.bundle.Documents))
	return nil
}

func (p *Processor) evaluate(ctx context.Context, r *run) error {
	v, err := p.filter.Evaluate(ctx, r.bundle)
	if err != nil {
		return err
	}
	r.verdict = v
	p.logger.Info(ctx, "filtered", "target_date", r.date, "approved", v.Approved, "score", v.Score)
	return nil
}

func (p *Processor) rejected(ctx context.Context, r *run) (Result, error) {
	res := Result{Reason: ReasonFilteringFailed, Reasoning: r.verdict.Reasoning}
	if !p.allowOverride || p.review == nil {
		return res, nil
	}
	it, err := p.review.Enqueue(ctx, r.bundle, r.verdict, r.date)
	if err != nil {
		return failed("filter", fmt.Errorf("queue for manual review: %w", err))
	}
	p.logger.Info(ctx, "queued for manual review", "target_date", r.date, "review_id", it.ID)
	res.ManualReviewQueued = true
	return res, nil
}

func (p *Processor) pack(r *run) error {
	r.desc = metagen.Generate(r.bundle, metagen.Options{
		CollectionMethod: p.collectionMethod,
		FilterApproved:   r.verdict.Approved,
		FilterScore:      r.verdict.Score,
		Warnings:         r.warnings,
		Now:              p.clock.Now(),
	})
	r.desc.Verification = p.crypto.VerificationHashes(r.bundle)
	if !r.desc.Verification.IsSet() {
		return errors.New("verification hashes missing")
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/app"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/registry"
	"github.com/dmitrijs2005/evidencevault/internal/client/syncer"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/flagx"
)

// CommandValueFlags are the value-taking flags of individual commands.
var CommandValueFlags = []string{"-date", "-page", "-limit", "-type", "-status", "-from", "-to"}

// Runner executes commands against an open vault.
type Runner struct {
	app *app.App
	out io.Writer
	now func() time.Time
}

func NewRunner(a *app.App, out io.Writer) *Runner {
	return &Runner{app: a, out: out, now: time.Now}
}

// Dispatch runs cmd. flags holds the raw command line; each command picks
// the flags it owns from it.
func (r *Runner) Dispatch(ctx context.Context, cmd string, operands, flags []string) error {
	switch cmd {
	case "process":
		return r.Process(ctx, operands, flags)
	case "sync":
		return r.Sync(ctx)
	case "timeline", "l", "list":
		return r.Timeline(ctx, flags)
	case "status":
		return r.Status(ctx)
	case "retry":
		return r.Retry(ctx, operands)
	case "review":
		return r.Review(ctx, operands)
	case "verify":
		return r.Verify(ctx, operands)
	case "daemon":
		return r.Daemon(ctx)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func parse(name string, flags []string, define func(fs *flag.FlagSet)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	define(fs)
	var own []string
	fs.VisitAll(func(f *flag.Flag) { own = append(own, "-"+f.Name) })
	return fs.Parse(flagx.FilterArgs(flags, own))
}

// Process runs the daily pipeline for -date, the first operand, or
// yesterday.
func (r *Runner) Process(ctx context.Context, operands, flags []string) error {
	var date string
	if err := parse("process", flags, func(fs *flag.FlagSet) {
		fs.StringVar(&date, "date", "", "target date (YYYY-MM-DD)")
	}); err != nil {
		return err
	}
	if date == "" && len(operands) > 0 {
		date = operands[0]
	}
	if date == "" {
		date = r.now().AddDate(0, 0, -1).Format(common.DateLayout)
	}

	res, err := r.app.Processor.ProcessDaily(ctx, date)
	if err != nil && res.Reason == "" {
		return err
	}
	fmt.Fprintf(r.out, "%s: %s", date, res.Reason)
	if res.EvidenceID != "" {
		fmt.Fprintf(r.out, " (%s)", res.EvidenceID)
	}
	if res.ManualReviewQueued {
		fmt.Fprint(r.out, ", queued for manual review")
	}
	if res.Reasoning != "" {
		fmt.Fprintf(r.out, "\n  %s", res.Reasoning)
	}
	fmt.Fprintln(r.out)
	return err
}

// Sync pings the evidence store and drains every pending task.
func (r *Runner) Sync(ctx context.Context) error {
	if !r.app.CheckOnline(ctx) {
		return syncer.ErrOffline
	}
	sum, err := r.app.Engine.ForceSync(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "processed %d: %d completed, %d rescheduled, %d failed\n",
		sum.Processed, sum.Completed, sum.Rescheduled, sum.Failed)
	return nil
}

func (r *Runner) Timeline(ctx context.Context, flags []string) error {
	var (
		q             registry.TimelineQuery
		ctype, status string
	)
	if err := parse("timeline", flags, func(fs *flag.FlagSet) {
		fs.IntVar(&q.Page, "page", 1, "page number")
		fs.IntVar(&q.Limit, "limit", registry.DefaultPageLimit, "entries per page")
		fs.StringVar(&ctype, "type", "", "content type")
		fs.StringVar(&status, "status", "", "upload status")
		fs.StringVar(&q.From, "from", "", "first target date")
		fs.StringVar(&q.To, "to", "", "last target date")
	}); err != nil {
		return err
	}
	q.ContentType = models.ContentType(ctype)
	q.UploadStatus = models.UploadStatus(status)

	page, err := r.app.Registry.QueryTimeline(ctx, q)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tID\tTYPE\tSUMMARY\tUPLOAD")
	for _, e := range page.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.TargetDate, e.EvidenceID, e.ContentType, e.Subtitle, e.UploadStatus)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%d of %d", len(page.Entries), page.TotalCount)
	if page.HasMore {
		fmt.Fprint(r.out, " (more)")
	}
	fmt.Fprintln(r.out)
	return nil
}

func (r *Runner) Status(ctx context.Context) error {
	stats, err := r.app.Registry.Statistics(ctx)
	if err != nil {
		return err
	}
	pending, err := r.app.Registry.PendingTasks(ctx)
	if err != nil {
		return err
	}
	failed, err := r.app.Registry.FailedTasks(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "entries:   %d (%d photos, %d messages, %d documents, %d bytes)\n",
		stats.TotalEntries, stats.PhotoCount, stats.MessageCount, stats.DocumentCount, stats.TotalBytes)
	fmt.Fprintf(r.out, "pending:   %d\n", len(pending))
	fmt.Fprintf(r.out, "failed:    %d\n", len(failed))
	for _, t := range failed {
		fmt.Fprintf(r.out, "  %s %s %s after %d attempts: %s\n", t.ID, t.Kind, t.EvidenceID, t.Attempts, t.LastError)
	}
	return nil
}

// Retry revives one failed task, or every failed task with "all".
func (r *Runner) Retry(ctx context.Context, operands []string) error {
	if len(operands) == 0 {
		return errors.New("usage: retry <task-id>|all")
	}
	ids := operands
	if operands[0] == "all" {
		failed, err := r.app.Registry.FailedTasks(ctx)
		if err != nil {
			return err
		}
		ids = nil
		for _, t := range failed {
			ids = append(ids, t.ID)
		}
	}
	for _, id := range ids {
		if _, err := r.app.Registry.RetryFailedTask(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "task %s pending again\n", id)
	}
	return nil
}

func (r *Runner) Review(ctx context.Context, operands []string) error {
	if len(operands) >= 2 && operands[0] == "dismiss" {
		if err := r.app.Review.Dismiss(ctx, operands[1]); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "dismissed %s\n", operands[1])
		return nil
	}

	date := ""
	if len(operands) > 0 {
		date = operands[0]
	}
	items, err := r.app.Review.List(ctx, date)
	if err != nil {
		return err
	}
	for _, it := range items {
		fmt.Fprintf(r.out, "%s  %d items  %s\n", it.ID, it.Bundle.ItemCount(), it.Filter.Reasoning)
	}
	if len(items) == 0 {
		fmt.Fprintln(r.out, "manual review queue is empty")
	}
	return nil
}

func (r *Runner) Verify(ctx context.Context, operands []string) error {
	if len(operands) == 0 {
		return errors.New("usage: verify <evidence-id>")
	}
	e, err := r.app.Verify(ctx, operands[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s ok (%s)\n", e.ID, strings.TrimSpace(e.Descriptor.Verification.PackageHash))
	return nil
}

func (r *Runner) Daemon(ctx context.Context) error {
	fmt.Fprintln(r.out, "vault daemon running, interrupt to stop")
	return r.app.Run(ctx)
}

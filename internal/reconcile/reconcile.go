// Package reconcile makes Float's logged time match the confirmed week.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Tiliavir/floatsync/internal/confirm"
	"github.com/Tiliavir/floatsync/internal/config"
	"github.com/Tiliavir/floatsync/internal/float"
	"github.com/Tiliavir/floatsync/internal/timecalc"
)

// ErrRemoteFetch wraps a failure to read the existing logged time.
var ErrRemoteFetch = errors.New("fetching logged time")

// API is the part of the Float client the reconciler needs.
type API interface {
	ListLoggedTime(ctx context.Context, q float.Query) ([]float.LoggedTime, error)
	CreateLoggedTime(ctx context.Context, lt float.NewLoggedTime) error
	DeleteLoggedTime(ctx context.Context, id string) error
}

// Options configures a reconciliation run.
type Options struct {
	PeopleID  string
	ProjectID string
	Hours     float64
	DryRun    bool
}

// OptionsFromConfig builds Options for cfg.
func OptionsFromConfig(cfg *config.Config, dryRun bool) Options {
	return Options{
		PeopleID:  cfg.PeopleID,
		ProjectID: cfg.ProjectID,
		Hours:     cfg.Hours,
		DryRun:    dryRun,
	}
}

// Failure is a create or delete call that did not succeed for one date.
type Failure struct {
	Action Action
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("failed to %s logged time for %s: %v", f.Action.Kind, f.Action.Date, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Report holds counters and failures for a run.
type Report struct {
	Created   int
	Deleted   int
	Unchanged int
	Failures  []*Failure
}

// Err joins every failure, or returns nil if there were none.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Reconciler applies confirmations to Float.
type Reconciler struct {
	api    API
	opts   Options
	logger hclog.Logger
	out    io.Writer
}

// New returns a Reconciler printing progress to out. A nil logger discards output.
func New(api API, opts Options, logger hclog.Logger, out io.Writer) *Reconciler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.Hours <= 0 {
		opts.Hours = config.DefaultHours
	}
	return &Reconciler{api: api, opts: opts, logger: logger.Named("reconcile"), out: out}
}

// Fetch reads logged time for days and indexes it by date.
func (r *Reconciler) Fetch(ctx context.Context, days []time.Time) (map[string]string, error) {
	if len(days) == 0 {
		return map[string]string{}, nil
	}
	records, err := r.api.ListLoggedTime(ctx, float.Query{
		From:      days[0],
		To:        days[len(days)-1],
		PeopleID:  r.opts.PeopleID,
		ProjectID: r.opts.ProjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}
	r.logger.Debug("fetched logged time", "records", len(records))
	return Index(records), nil
}

// Run fetches the remote state, plans, and applies. The returned error is
// ErrRemoteFetch-wrapped when nothing was attempted, otherwise Report.Err().
func (r *Reconciler) Run(ctx context.Context, confirmations confirm.Confirmations, days []time.Time) (Report, error) {
	index, err := r.Fetch(ctx, days)
	if err != nil {
		return Report{}, err
	}
	report := r.Apply(ctx, Plan(confirmations, index))
	return report, report.Err()
}

// Apply issues every create and delete concurrently and waits for all of them.
// A failed call does not stop the others.
func (r *Reconciler) Apply(ctx context.Context, actions []Action) Report {
	errs := make([]error, len(actions))

	if !r.opts.DryRun {
		var wg sync.WaitGroup
		for i, a := range actions {
			if a.Kind == Noop {
				continue
			}
			wg.Add(1)
			go func(i int, a Action) {
				defer wg.Done()
				errs[i] = r.execute(ctx, a)
			}(i, a)
		}
		wg.Wait()
	}

	var report Report
	for i, a := range actions {
		if errs[i] != nil {
			f := &Failure{Action: a, Err: errs[i]}
			report.Failures = append(report.Failures, f)
			fmt.Fprintf(r.out, "  ! Error:    %s (%s): %v\n", Label(a.Date), a.Kind, errs[i])
			r.logger.Warn("reconciliation failed", "date", a.Date, "action", a.Kind.String(), "error", errs[i])
			continue
		}
		switch a.Kind {
		case Create:
			fmt.Fprintf(r.out, "  ✓ Created:  %s (%sh)\n", Label(a.Date), strconv.FormatFloat(r.opts.Hours, 'f', -1, 64))
			report.Created++
		case Delete:
			fmt.Fprintf(r.out, "  ✗ Deleted:  %s (%s)\n", Label(a.Date), a.ID)
			report.Deleted++
		default:
			fmt.Fprintf(r.out, "  – Skipped:  %s (in sync)\n", Label(a.Date))
			report.Unchanged++
		}
	}
	return report
}

func (r *Reconciler) execute(ctx context.Context, a Action) error {
	r.logger.Debug("applying", "date", a.Date, "action", a.Kind.String())
	switch a.Kind {
	case Create:
		return r.api.CreateLoggedTime(ctx, float.NewLoggedTime{
			Date:      a.Date,
			Billable:  1,
			Hours:     r.opts.Hours,
			PeopleID:  r.opts.PeopleID,
			ProjectID: r.opts.ProjectID,
		})
	case Delete:
		return r.api.DeleteLoggedTime(ctx, a.ID)
	}
	return nil
}

// Label renders an ISO date as shown in prompts, falling back to the date itself.
func Label(date string) string {
	t, err := time.Parse(timecalc.DateLayout, date)
	if err != nil {
		return date
	}
	return timecalc.PromptLabel(t)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/floatsync/internal/config"
	"github.com/Tiliavir/floatsync/internal/confirm"
	"github.com/Tiliavir/floatsync/internal/errreport"
	"github.com/Tiliavir/floatsync/internal/float"
	"github.com/Tiliavir/floatsync/internal/reconcile"
	"github.com/Tiliavir/floatsync/internal/timecalc"
)

var (
	syncDryRun bool
	verbose    bool
)

func newLogger(verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "floatsync",
		Level:  level,
		Output: os.Stderr,
	})
}

func runSync(cmd *cobra.Command, args []string) error {
	now := time.Now()
	logger := newLogger(verbose)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Debug("config loaded", "api_url", cfg.BaseURL, "people_id", cfg.PeopleID, "project_id", cfg.ProjectID)
	reporter := errreport.New(cfg.BugsnagAPIKey, version, logger)

	days := timecalc.Weekdays(now)
	dryTag := ""
	if syncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Week %s (%s → %s)%s\n\n", timecalc.ISOWeekLabel(now),
		timecalc.ISODate(days[0]), timecalc.ISODate(days[len(days)-1]), dryTag)

	ctx := context.Background()
	report, err := syncWeek(ctx, cfg, confirm.New(os.Stdin, os.Stdout), days, syncDryRun, os.Stdout, logger)
	if code, msg := earlyExit(err, report); code != 0 {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(code)
	}

	printSummary(os.Stdout, report)
	if len(report.Failures) > 0 {
		reporter.Failures(report.Failures)
		fmt.Fprintln(os.Stderr, "Fix these days in Float manually:")
		for _, f := range report.Failures {
			fmt.Fprintf(os.Stderr, "  %v\n", f)
		}
		os.Exit(2)
	}
	return nil
}

// syncWeek asks about every day first and only then talks to Float, so an
// aborted prompt never leaves a half-reconciled week.
func syncWeek(ctx context.Context, cfg *config.Config, c confirm.Confirmer, days []time.Time, dryRun bool, out io.Writer, logger hclog.Logger) (reconcile.Report, error) {
	confirmations, err := c.Confirm(ctx, days)
	if err != nil {
		return reconcile.Report{}, err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Reconciling with Float...")
	client := float.NewClient(ctx, cfg.BaseURL, cfg.AccessToken, logger)
	r := reconcile.New(client, reconcile.OptionsFromConfig(cfg, dryRun), logger, out)
	return r.Run(ctx, confirmations, days)
}

// earlyExit returns a non-zero exit code and message when err stopped the run
// before any per-day result worth summarising.
func earlyExit(err error, report reconcile.Report) (int, string) {
	switch {
	case err == nil:
		return 0, ""
	case errors.Is(err, confirm.ErrInputAborted):
		return 1, "Aborted: no changes were made."
	case errors.Is(err, reconcile.ErrRemoteFetch):
		return 1, fmt.Sprintf("Failed to fetch logged time: %v", err)
	case len(report.Failures) == 0:
		return 1, err.Error()
	}
	return 0, ""
}

func printSummary(out io.Writer, report reconcile.Report) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d created\n", report.Created)
	fmt.Fprintf(out, "  %d deleted\n", report.Deleted)
	fmt.Fprintf(out, "  %d unchanged\n", report.Unchanged)
	if len(report.Failures) > 0 {
		fmt.Fprintf(out, "  %d errors\n", len(report.Failures))
	}
}

// Package errreport forwards reconciliation failures to Bugsnag.
package errreport

import (
	"github.com/bugsnag/bugsnag-go"
	"github.com/hashicorp/go-hclog"

	"github.com/Tiliavir/floatsync/internal/reconcile"
)

// Reporter sends failures to Bugsnag. The zero value is disabled.
type Reporter struct {
	enabled bool
	logger  hclog.Logger
}

// Option adjusts the Bugsnag configuration.
type Option func(*bugsnag.Configuration)

// WithEndpoint sends notifications and sessions to url instead of bugsnag.com.
func WithEndpoint(url string) Option {
	return func(c *bugsnag.Configuration) {
		c.Endpoints = bugsnag.Endpoints{Notify: url, Sessions: url}
	}
}

// New configures Bugsnag when apiKey is set and returns a disabled Reporter
// otherwise. Call it once at startup. A nil logger discards output.
func New(apiKey, version string, logger hclog.Logger, opts ...Option) *Reporter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("bugsnag")
	if apiKey == "" {
		return &Reporter{logger: logger}
	}

	cfg := bugsnag.Configuration{
		APIKey:              apiKey,
		AppVersion:          version,
		ReleaseStage:        "production",
		ProjectPackages:     []string{"main", "github.com/Tiliavir/floatsync*"},
		Synchronous:         true,
		AutoCaptureSessions: false,
		Logger:              logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
		// The default handler re-executes the binary under panicwrap, which
		// would start a second interactive run.
		PanicHandler: func() {},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	bugsnag.Configure(cfg)
	return &Reporter{enabled: true, logger: logger}
}

// Enabled reports whether failures are sent anywhere.
func (r *Reporter) Enabled() bool {
	return r != nil && r.enabled
}

// Failures notifies one event per failed date.
func (r *Reporter) Failures(failures []*reconcile.Failure) {
	if !r.Enabled() {
		return
	}
	for _, f := range failures {
		err := bugsnag.Notify(f, bugsnag.MetaData{
			"logged_time": {
				"date":   f.Action.Date,
				"action": f.Action.Kind.String(),
				"id":     f.Action.ID,
			},
		})
		if err != nil {
			r.logger.Debug("notify failed", "date", f.Action.Date, "error", err)
		}
	}
}

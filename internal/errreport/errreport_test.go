package errreport_test

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/floatsync/internal/errreport"
	"github.com/Tiliavir/floatsync/internal/reconcile"
)

// startMarkerEnv names a file every start of this test binary appends to, so a
// re-executed copy leaves a second line behind.
const startMarkerEnv = "FLOATSYNC_ERRREPORT_START_MARKER"

func TestMain(m *testing.M) {
	if path := os.Getenv(startMarkerEnv); path != "" {
		appendStart(path)
	}
	os.Exit(m.Run())
}

func appendStart(path string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "start pid=%d\n", os.Getpid())
}

func failures() []*reconcile.Failure {
	return []*reconcile.Failure{
		{Action: reconcile.Action{Kind: reconcile.Create, Date: "2024-02-05"}, Err: errors.New("boom")},
		{Action: reconcile.Action{Kind: reconcile.Delete, Date: "2024-02-09", ID: "id-2"}, Err: errors.New("forbidden")},
	}
}

func TestNew_DisabledWithoutKey(t *testing.T) {
	r := errreport.New("", "dev", nil)
	assert.False(t, r.Enabled())

	// Must not panic or try to send anything.
	r.Failures(failures())
}

func TestReporter_NilIsDisabled(t *testing.T) {
	var r *errreport.Reporter
	assert.False(t, r.Enabled())
	r.Failures(nil)
}

func TestNew_WithKeyNotifiesWithoutReexecuting(t *testing.T) {
	var notified atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notified.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	marker := filepath.Join(t.TempDir(), "starts")
	t.Setenv(startMarkerEnv, marker)
	appendStart(marker)

	r := errreport.New("00000000000000000000000000000000", "dev", nil, errreport.WithEndpoint(srv.URL))
	require.True(t, r.Enabled())
	r.Failures(failures())

	assert.Equal(t, int32(2), notified.Load(), "one notification per failed date")

	// A re-executed copy would append its own line shortly after starting.
	time.Sleep(500 * time.Millisecond)
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	starts := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, starts, 1, "configuring Bugsnag must not start another copy of the program: %v", starts)
}

func TestFailures_LogsDeliveryErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Level: hclog.Debug, Output: &buf})

	r := errreport.New("00000000000000000000000000000000", "dev", logger, errreport.WithEndpoint(srv.URL))
	r.Failures(failures()[:1])

	assert.Contains(t, buf.String(), "bugsnag: notify failed")
	assert.Contains(t, buf.String(), "date=2024-02-05")
	assert.Contains(t, buf.String(), "500")
}

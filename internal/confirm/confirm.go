// Package confirm asks, for each day of the week, whether the user worked it.
package confirm

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// ErrInputAborted is returned when the session ends before every day is answered.
var ErrInputAborted = errors.New("input aborted before all days were confirmed")

// Confirmations maps an ISO date (YYYY-MM-DD) to whether the user worked that day.
type Confirmations map[string]bool

// Confirmer collects a yes/no answer for every day. It returns either a
// complete set of confirmations or an error, never a partial set.
type Confirmer interface {
	Confirm(ctx context.Context, days []time.Time) (Confirmations, error)
}

// New returns the interactive TUI when both in and out are terminals and the
// line-based Prompter otherwise.
func New(in, out *os.File) Confirmer {
	if term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())) {
		return NewTUI(in, out)
	}
	return NewPrompter(in, out)
}

func aborted(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(ErrInputAborted, ctxErr)
	}
	if err == nil || errors.Is(err, io.EOF) {
		return ErrInputAborted
	}
	return errors.Join(ErrInputAborted, err)
}

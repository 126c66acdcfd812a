package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/floatsync/internal/timecalc"
)

// Prompter asks one line-based yes/no question per day.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm asks about each day in order. Unrecognised answers are asked again.
func (p *Prompter) Confirm(ctx context.Context, days []time.Time) (Confirmations, error) {
	answers := make(Confirmations, len(days))
	for _, day := range days {
		for {
			if ctx.Err() != nil {
				return nil, aborted(ctx, nil)
			}
			fmt.Fprintf(p.out, "? Worked %s? (y/n) ", timecalc.PromptLabel(day))

			line, err := p.in.ReadString('\n')
			if err != nil && line == "" {
				fmt.Fprintln(p.out)
				return nil, aborted(ctx, err)
			}
			answer, ok := parseAnswer(line)
			if ok {
				answers[timecalc.ISODate(day)] = answer
				break
			}
			if err != nil {
				// Trailing garbage without a newline: nothing more will come.
				fmt.Fprintln(p.out)
				return nil, aborted(ctx, err)
			}
			fmt.Fprintln(p.out, "  Please answer y or n.")
		}
	}
	return answers, nil
}

func parseAnswer(line string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}

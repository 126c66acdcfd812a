package confirm_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/floatsync/internal/confirm"
	"github.com/Tiliavir/floatsync/internal/timecalc"
)

func week() []time.Time {
	return timecalc.Weekdays(time.Date(2024, 2, 7, 9, 0, 0, 0, time.UTC))
}

func TestPrompter_Confirm(t *testing.T) {
	var out bytes.Buffer
	p := confirm.NewPrompter(strings.NewReader("y\nn\nYES\n yes \nNo\n"), &out)

	got, err := p.Confirm(context.Background(), week())
	require.NoError(t, err)
	assert.Equal(t, confirm.Confirmations{
		"2024-02-05": true,
		"2024-02-06": false,
		"2024-02-07": true,
		"2024-02-08": true,
		"2024-02-09": false,
	}, got)
	assert.Contains(t, out.String(), "Mon, 05/02/24")
	assert.Contains(t, out.String(), "Fri, 09/02/24")
}

func TestPrompter_ReasksOnInvalidAnswer(t *testing.T) {
	var out bytes.Buffer
	p := confirm.NewPrompter(strings.NewReader("maybe\n\ny\nn\nn\nn\nn\n"), &out)

	got, err := p.Confirm(context.Background(), week())
	require.NoError(t, err)
	assert.True(t, got["2024-02-05"])
	assert.Equal(t, 2, strings.Count(out.String(), "Please answer y or n."))
}

func TestPrompter_LastAnswerWithoutNewline(t *testing.T) {
	p := confirm.NewPrompter(strings.NewReader("y\ny\ny\ny\nn"), &bytes.Buffer{})

	got, err := p.Confirm(context.Background(), week())
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.False(t, got["2024-02-09"])
}

func TestPrompter_InputAborted(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"closed mid-week", "y\nn\n"},
		{"garbage then eof", "y\nn\ny\nwhat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := confirm.NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.Confirm(context.Background(), week())
			assert.True(t, errors.Is(err, confirm.ErrInputAborted), "err = %v", err)
			assert.Nil(t, got)
		})
	}
}

func TestPrompter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := confirm.NewPrompter(strings.NewReader("y\ny\ny\ny\ny\n"), &bytes.Buffer{})
	got, err := p.Confirm(ctx, week())
	assert.True(t, errors.Is(err, confirm.ErrInputAborted))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, got)
}

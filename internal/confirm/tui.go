package confirm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/floatsync/internal/timecalc"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	yesStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	noStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("39")).Foreground(lipgloss.Color("0")).Padding(0, 1)
	optionStyle   = lipgloss.NewStyle().Padding(0, 1)
)

type keyMap struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Select key.Binding
	Abort  key.Binding
}

var defaultKeys = keyMap{
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:     key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
	Toggle: key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab"), key.WithHelp("←/→", "toggle")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Abort:  key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d", "esc", "q"), key.WithHelp("q", "abort")),
}

// TUI asks the questions in a full-screen bubbletea program.
type TUI struct {
	in  io.Reader
	out io.Writer
}

// NewTUI returns a TUI reading keys from in and rendering to out.
func NewTUI(in io.Reader, out io.Writer) *TUI {
	return &TUI{in: in, out: out}
}

// Confirm runs the program until every day is answered or the user aborts.
func (t *TUI) Confirm(ctx context.Context, days []time.Time) (Confirmations, error) {
	p := tea.NewProgram(newModel(days),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return nil, aborted(ctx, nil)
		}
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	m, ok := final.(model)
	if !ok || m.aborted || !m.done() {
		return nil, ErrInputAborted
	}
	return m.answers, nil
}

type model struct {
	days    []time.Time
	answers Confirmations
	idx     int
	choice  bool
	aborted bool
	keys    keyMap
}

func newModel(days []time.Time) model {
	return model{
		days:    days,
		answers: make(Confirmations, len(days)),
		choice:  true,
		keys:    defaultKeys,
	}
}

func (m model) done() bool {
	return m.idx >= len(m.days)
}

func (m model) Init() tea.Cmd {
	if m.done() {
		return tea.Quit
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done() {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Abort):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Yes):
		return m.answer(true)
	case key.Matches(keyMsg, m.keys.No):
		return m.answer(false)
	case key.Matches(keyMsg, m.keys.Toggle):
		m.choice = !m.choice
	case key.Matches(keyMsg, m.keys.Select):
		return m.answer(m.choice)
	}
	return m, nil
}

func (m model) answer(worked bool) (tea.Model, tea.Cmd) {
	m.answers[timecalc.ISODate(m.days[m.idx])] = worked
	m.idx++
	m.choice = true
	if m.done() {
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	if len(m.days) > 0 {
		b.WriteString(titleStyle.Render("Which days did you work in " + timecalc.ISOWeekLabel(m.days[0]) + "?"))
		b.WriteString("\n\n")
	}
	for i, day := range m.days {
		label := timecalc.PromptLabel(day)
		switch {
		case i < m.idx:
			if m.answers[timecalc.ISODate(day)] {
				b.WriteString(yesStyle.Render("  ✓ " + label))
			} else {
				b.WriteString(noStyle.Render("  ✗ " + label))
			}
		case i == m.idx:
			yes, no := optionStyle.Render("Yes"), optionStyle.Render("No")
			if m.choice {
				yes = selectedStyle.Render("Yes")
			} else {
				no = selectedStyle.Render("No")
			}
			b.WriteString("  ? " + label + "  " + yes + " " + no)
		default:
			b.WriteString(mutedStyle.Render("    " + label))
		}
		b.WriteString("\n")
	}
	if !m.done() && !m.aborted {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.help()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) help() string {
	bindings := []key.Binding{m.keys.Yes, m.keys.No, m.keys.Toggle, m.keys.Select, m.keys.Abort}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

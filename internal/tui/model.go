// Package tui implements a full-screen interactive classification flow on
// top of bubbletea. It drives the same locator and session store as the
// line-based prompter.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"htscompass/internal/catalog"
	"htscompass/internal/locator"
	"htscompass/internal/model"
	"htscompass/internal/session"
)

type phase int

const (
	phaseQuery phase = iota
	phaseLoading
	phaseQuestion
	phaseDone
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFFF"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true)
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	resolvedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
)

// Model is the bubbletea model for a classification session.
type Model struct {
	ctx      context.Context
	table    *catalog.Table
	locator  *locator.Locator
	sessions *session.Store

	input     textinput.Model
	phase     phase
	sessionID string
	question  *model.Question
	cursor    int
	remaining int
	final     string
	err       error
}

// NewModel creates the TUI model, optionally pre-filling the query.
func NewModel(ctx context.Context, table *catalog.Table, loc *locator.Locator, sessions *session.Store, query string) Model {
	input := textinput.New()
	input.Placeholder = "HTS code or product description"
	input.SetValue(query)
	input.Focus()
	return Model{
		ctx:      ctx,
		table:    table,
		locator:  loc,
		sessions: sessions,
		input:    input,
		phase:    phaseQuery,
	}
}

// Run starts the interactive flow and blocks until it finishes.
func Run(ctx context.Context, table *catalog.Table, loc *locator.Locator, sessions *session.Store, query string) error {
	_, err := tea.NewProgram(NewModel(ctx, table, loc, sessions, query)).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

type startedMsg struct {
	err       error
	final     string
	sessionID string
	question  *model.Question
	remaining int
}

type answeredMsg struct {
	err       error
	final     string
	question  *model.Question
	remaining int
}

func (m Model) startCmd(query string) tea.Cmd {
	return func() tea.Msg {
		set, kind, err := m.locator.Locate(m.ctx, query)
		if err != nil {
			return startedMsg{err: err}
		}
		if len(set) == 0 {
			return startedMsg{final: errorStyle.Render(fmt.Sprintf("No matching entries for %q.", query))}
		}
		if kind == locator.MatchExact {
			return startedMsg{final: m.recordView(set[0])}
		}

		sess, err := m.sessions.Create(query, set)
		if err != nil {
			return startedMsg{err: err}
		}
		if sess.Status == model.StatusResolved {
			return startedMsg{final: m.recordView(*sess.ResolvedIndex)}
		}
		q, err := m.sessions.Question(sess.ID)
		if err != nil {
			return startedMsg{err: err}
		}
		if q == nil {
			return startedMsg{final: m.exhaustedView(sess.ID)}
		}
		return startedMsg{sessionID: sess.ID, question: q, remaining: len(sess.Candidates)}
	}
}

func (m Model) answerCmd(label string) tea.Cmd {
	return func() tea.Msg {
		sess, err := m.sessions.Answer(m.sessionID, label)
		if err != nil {
			return answeredMsg{err: err}
		}
		if sess.Status == model.StatusResolved {
			return answeredMsg{final: m.recordView(*sess.ResolvedIndex)}
		}
		q, err := m.sessions.Question(m.sessionID)
		if err != nil {
			return answeredMsg{err: err}
		}
		if q == nil {
			return answeredMsg{final: m.exhaustedView(m.sessionID)}
		}
		return answeredMsg{question: q, remaining: len(sess.Candidates)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.phase = phaseDone
			return m, nil
		}
		if msg.final != "" {
			m.final = msg.final
			m.phase = phaseDone
			return m, nil
		}
		m.sessionID = msg.sessionID
		m.question = msg.question
		m.remaining = msg.remaining
		m.cursor = 0
		m.phase = phaseQuestion
		return m, nil

	case answeredMsg:
		if msg.err != nil {
			m.err = msg.err
			m.phase = phaseDone
			return m, nil
		}
		if msg.final != "" {
			m.final = msg.final
			m.phase = phaseDone
			return m, nil
		}
		m.question = msg.question
		m.remaining = msg.remaining
		m.cursor = 0
		return m, nil
	}

	if m.phase == phaseQuery {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	switch m.phase {
	case phaseQuery:
		if msg.String() == "enter" {
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.phase = phaseLoading
			return m, m.startCmd(query)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseQuestion:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.question.Options)-1 {
				m.cursor++
			}
		case "enter":
			return m, m.answerCmd(m.question.Options[m.cursor].Label)
		}
		return m, nil

	case phaseDone:
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("htscompass") + "\n\n")

	switch m.phase {
	case phaseQuery:
		b.WriteString("What are you importing?\n\n")
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(countStyle.Render("enter to search, esc to quit"))

	case phaseLoading:
		b.WriteString("Searching the catalog...")

	case phaseQuestion:
		b.WriteString(m.question.Prompt + "\n\n")
		for i, opt := range m.question.Options {
			cursor := "  "
			line := fmt.Sprintf("%s %s", opt.Label, countStyle.Render(fmt.Sprintf("(%d)", opt.ExpectedCount)))
			if i == m.cursor {
				cursor = cursorStyle.Render("> ")
				line = cursorStyle.Render(opt.Label) + " " + countStyle.Render(fmt.Sprintf("(%d)", opt.ExpectedCount))
			}
			b.WriteString(cursor + line + "\n")
		}
		b.WriteString("\n" + countStyle.Render(fmt.Sprintf("%d candidates remaining", m.remaining)))

	case phaseDone:
		if m.err != nil {
			b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
		} else {
			b.WriteString(m.final + "\n")
		}
		b.WriteString("\n" + countStyle.Render("press any key to exit"))
	}

	return b.String()
}

func (m Model) recordView(idx int) string {
	rec, err := m.table.Record(idx)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	var b strings.Builder
	b.WriteString(resolvedStyle.Render("Resolved: "+rec.RawCode) + "\n\n")
	fmt.Fprintf(&b, "%s\n", rec.BaseDescription)
	fmt.Fprintf(&b, "%s\n\n", rec.SpecPath())
	fmt.Fprintf(&b, "General: %s   Special: %s   Column 2: %s",
		rec.GeneralRate, rec.SpecialRate, rec.Column2Rate)
	return b.String()
}

func (m Model) exhaustedView(sessionID string) string {
	sess, err := m.sessions.Get(sessionID)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	var b strings.Builder
	b.WriteString("No further question can narrow these candidates:\n\n")
	for _, idx := range sess.Candidates {
		rec, recErr := m.table.Record(idx)
		if recErr != nil {
			continue
		}
		fmt.Fprintf(&b, "  %s  %s\n", rec.RawCode, countStyle.Render(rec.SpecPath()))
	}
	return b.String()
}

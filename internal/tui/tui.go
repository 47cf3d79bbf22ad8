package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/wikigen/internal/engine"
	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/models"
)

type sessionState int

const (
	stateBrowsing sessionState = iota
	stateEditing
	stateError
)

// entry is one row of the field list.
type entry struct {
	topic string
	field models.Field
}

type model struct {
	state    sessionState
	pipeline *engine.Pipeline
	store    models.Store

	entries []entry
	cursor  int
	values  models.Fields

	textInput textinput.Model
	textArea  textarea.Model
	viewport  viewport.Model

	// shown is the id of the pass currently displayed in the preview.
	shown  uint64
	page   string
	status string
	err    error
	width  int
	height int
}

var (
	topicStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2)
)

// NewModel builds the editor over store. Every change is written through to
// store and triggers a pass on p.
func NewModel(p *engine.Pipeline, store models.Store) (model, error) {
	values, err := models.LoadFields(store)
	if err != nil {
		return model{}, err
	}

	var entries []entry
	for _, t := range models.Topics {
		for _, f := range t.Fields {
			entries = append(entries, entry{topic: t.Title, field: f})
		}
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(8)

	return model{
		state:     stateBrowsing,
		pipeline:  p,
		store:     store,
		entries:   entries,
		values:    values,
		textInput: ti,
		textArea:  ta,
		viewport:  viewport.New(60, 20),
	}, nil
}

func (m model) Init() tea.Cmd {
	return m.render()
}

// renderedMsg carries the result of one render pass.
type renderedMsg struct {
	pass engine.Pass
	err  error
}

type errMsg struct {
	err error
}

func (m model) current() models.Field {
	return m.entries[m.cursor].field
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.state == stateEditing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listWidth := m.listWidth()
		m.viewport.Width = max(msg.Width-listWidth-4, 20)
		m.viewport.Height = max(msg.Height-14, 5)
		m.textArea.SetWidth(max(msg.Width-4, 20))
		m.textInput.Width = max(msg.Width-8, 20)
		return m, nil

	case renderedMsg:
		if msg.err != nil {
			logger.Error("render pass failed", "pass", msg.pass.ID, "err", msg.err)
			m.status = "render failed: " + msg.err.Error()
		}
		// Passes can finish out of order; keep the newest one on screen.
		if msg.pass.ID < m.shown || (msg.err != nil && msg.pass.Output == "") {
			return m, nil
		}
		m.shown = msg.pass.ID
		m.page = msg.pass.Output
		m.viewport.SetContent(m.page)
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	return m.forward(msg)
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == stateError {
		if msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", " ":
		f := m.current()
		if len(f.Choices) > 0 {
			return m.set(f.ID, nextChoice(f.Choices, m.values.Get(f.ID)))
		}
		return m.startEditing()
	case "ctrl+r":
		if err := m.store.Clear(); err != nil {
			return m, func() tea.Msg { return errMsg{err} }
		}
		m.values = models.Fields{}
		m.status = "all fields cleared"
		logger.Info("fields cleared")
		return m, m.render()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) startEditing() (tea.Model, tea.Cmd) {
	f := m.current()
	m.state = stateEditing
	m.status = ""
	if f.Multiline {
		m.textArea.SetValue(m.values.Get(f.ID))
		return m, m.textArea.Focus()
	}
	m.textInput.SetValue(m.values.Get(f.ID))
	m.textInput.CursorEnd()
	return m, m.textInput.Focus()
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.current()
	if msg.Type == tea.KeyEsc || (!f.Multiline && msg.Type == tea.KeyEnter) {
		m.state = stateBrowsing
		m.textArea.Blur()
		m.textInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	var value string
	if f.Multiline {
		m.textArea, cmd = m.textArea.Update(msg)
		value = m.textArea.Value()
	} else {
		m.textInput, cmd = m.textInput.Update(msg)
		value = m.textInput.Value()
	}
	if value == m.values.Get(f.ID) {
		return m, cmd
	}
	next, renderCmd := m.set(f.ID, value)
	return next, tea.Batch(cmd, renderCmd)
}

// forward hands non-key messages, such as cursor blinks, to the focused
// editor.
func (m model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state != stateEditing {
		return m, nil
	}
	var cmd tea.Cmd
	if m.current().Multiline {
		m.textArea, cmd = m.textArea.Update(msg)
	} else {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

// set writes one field through to the store and starts a render pass.
func (m model) set(id, value string) (model, tea.Cmd) {
	if err := m.store.Write(id, value); err != nil {
		return m, func() tea.Msg { return errMsg{fmt.Errorf("save %s: %w", id, err)} }
	}
	values := models.Fields{}
	for k, v := range m.values {
		values[k] = v
	}
	values[id] = value
	m.values = values
	return m, m.render()
}

// render starts a pass now and finishes it in the background.
func (m model) render() tea.Cmd {
	id := m.pipeline.Begin()
	return func() tea.Msg {
		pass, err := m.pipeline.RunPass(context.Background(), id)
		return renderedMsg{pass: pass, err: err}
	}
}

func nextChoice(choices []string, current string) string {
	i := slices.Index(choices, current)
	return choices[(i+1)%len(choices)]
}

func (m model) listWidth() int {
	return max(m.width/3, 28)
}

func (m model) View() string {
	if m.state == stateError {
		return fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.\n", m.err)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.listWidth()).Render(m.renderList()),
		previewStyle.Render(m.viewport.View()),
	)

	var editor, help string
	f := m.current()
	switch {
	case m.state == stateEditing && f.Multiline:
		editor = topicStyle.Render(f.Label) + "\n" + m.textArea.View()
		help = "Esc: done"
	case m.state == stateEditing:
		editor = topicStyle.Render(f.Label) + "\n" + m.textInput.View()
		help = "Enter/Esc: done"
	default:
		help = "↑/↓: move • Enter: edit • Ctrl+R: clear all • PgUp/PgDn: scroll preview • q: quit"
	}
	if f.Help != "" {
		help = f.Help + "\n" + help
	}
	if m.status != "" {
		help = m.status + "\n" + help
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, editor, helpStyle.Render(help)) + "\n"
}

func (m model) renderList() string {
	var b strings.Builder
	topic := ""
	for i, e := range m.entries {
		if e.topic != topic {
			if topic != "" {
				b.WriteString("\n")
			}
			topic = e.topic
			b.WriteString(topicStyle.Render(topic) + "\n")
		}
		label := e.field.Label
		if i == m.cursor {
			label = cursorStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		b.WriteString(label + " " + valueStyle.Render(summary(m.values.Get(e.field.ID))) + "\n")
	}
	return b.String()
}

// summary shortens a raw value to its first line.
func summary(v string) string {
	first, _, multi := strings.Cut(strings.TrimSpace(v), "\n")
	if r := []rune(first); len(r) > 24 {
		return string(r[:24]) + "…"
	}
	if multi {
		first += " …"
	}
	return first
}

// Run starts the editor and blocks until the user quits.
func Run(p *engine.Pipeline, store models.Store) error {
	m, err := NewModel(p, store)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

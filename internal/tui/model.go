// Package tui provides the Bubble Tea vocabulary typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/keypress/internal/keymap"
	"github.com/verte-zerg/keypress/internal/model"
	"github.com/verte-zerg/keypress/internal/session"
)

const clockLayout = "15:04:05"

// Dispatcher performs the side effects requested by a transition.
type Dispatcher interface {
	Dispatch(intents []session.Intent)
}

// Recorder persists practice history.
type Recorder interface {
	InsertAttempt(ctx context.Context, a model.Attempt) (int64, error)
}

// Options wires the model's collaborators. Nil fields are replaced by no-ops.
type Options struct {
	Dispatcher Dispatcher
	Recorder   Recorder
	Logger     *zap.Logger
	RunID      string
	Now        func() time.Time
}

type tickMsg time.Time

// Model implements the Bubble Tea typing UI.
type Model struct {
	state session.State
	keys  keymap.KeyMap
	help  help.Model

	dispatcher Dispatcher
	recorder   Recorder
	logger     *zap.Logger
	runID      string
	now        func() time.Time

	width  int
	height int
	clock  time.Time

	completed int
	misses    int
	errMsg    string
}

var (
	typedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#059669"))
	remainingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
	cursorStyle      = remainingStyle.Underline(true)
	translationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	headerStyle      = lipgloss.NewStyle().Bold(true)
	buttonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#059669")).Padding(0, 1)
	clockStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model around an initial session.
func NewModel(state session.State, opts Options) *Model {
	m := &Model{
		state:      state,
		keys:       keymap.Default(),
		help:       help.New(),
		dispatcher: opts.Dispatcher,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		runID:      opts.RunID,
		now:        opts.Now,
	}
	if m.dispatcher == nil {
		m.dispatcher = nopDispatcher{}
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.clock = m.now()
	return m
}

// State returns the current session state.
func (m *Model) State() session.State {
	return m.state
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.clock = time.Time(msg)
		return m, tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		ev, ok := m.keys.Translate(msg, m.state)
		if !ok {
			return m, nil
		}
		m.apply(ev)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) apply(ev session.Event) {
	prev := m.state
	next, intents, err := session.Reduce(prev, ev)
	if err != nil {
		m.errMsg = err.Error()
		m.logger.Warn("event rejected", zap.String("event", fmt.Sprintf("%T", ev)), zap.Error(err))
		return
	}
	m.errMsg = ""
	m.state = next
	m.record(prev, ev, intents)
	m.dispatcher.Dispatch(intents)
}

// record turns outcome intents into history rows for the word that was
// current before the transition.
func (m *Model) record(prev session.State, ev session.Event, intents []session.Intent) {
	for _, intent := range intents {
		attempt := model.Attempt{
			RunID: m.runID,
			Level: prev.Level(),
			Word:  prev.Current().Name,
			At:    m.now(),
		}
		switch intent.(type) {
		case session.PlayCorrect:
			m.completed++
			attempt.Kind = model.AttemptHit
			attempt.Typed = prev.Current().Name
		case session.PlayWrong:
			m.misses++
			attempt.Kind = model.AttemptMiss
			attempt.Typed = prev.Input()
			if ch, ok := ev.(session.Character); ok {
				attempt.Typed += ch.Key
			}
		default:
			continue
		}
		if m.recorder == nil {
			continue
		}
		if _, err := m.recorder.InsertAttempt(context.Background(), attempt); err != nil {
			m.logger.Warn("failed to record attempt",
				zap.String("word", attempt.Word),
				zap.String("kind", string(attempt.Kind)),
				zap.Error(err),
			)
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := m.width * 7 / 10
	current := m.state.Current()
	word := wrapStyledRunes(buildWordRunes(current.Name, m.state.Input(), m.state.Running()), contentWidth)
	translation := wrapStyledRunes(buildTextRunes(current.Translation(), translationStyle), contentWidth)

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderHeader(),
		"",
		word,
		translation,
		"",
		clockStyle.Render("Time: "+m.clock.Format(clockLayout)),
	)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) renderHeader() string {
	button := "Start"
	if m.state.Running() {
		button = "Pause"
	}
	info := fmt.Sprintf("%s  Chapter %d/%d  %s",
		m.state.Level(),
		m.state.Chapter(),
		m.state.ChapterCount(),
		m.state.Pronunciation().Short(),
	)
	return headerStyle.Render(info) + "  " + buttonStyle.Render(button)
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Word %d/%d", m.state.WordIndex()+1, m.state.Len()),
		fmt.Sprintf("Completed %d", m.completed),
		fmt.Sprintf("Misses %d", m.misses),
	}
	lines := []string{footerStyle.Render(strings.Join(segments, "  "))}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch([]session.Intent) {}

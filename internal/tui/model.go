// Package tui provides the Bubble Tea copy-training interface.
package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuicw/internal/model"
	"github.com/verte-zerg/tuicw/internal/player"
	"github.com/verte-zerg/tuicw/internal/session"
)

// eventBuffer must absorb every progress event of one session without
// blocking the playback goroutine, or timing would drift.
const eventBuffer = 1024

type progressMsg struct {
	gen int
	ch  rune
}

type doneMsg struct {
	gen     int
	rec     model.SessionRecord
	outcome player.Outcome
	err     error
}

var (
	playedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea copy-training UI. The playback engine
// runs in its own goroutine; its progress and completion arrive as
// messages over the events channel.
type Model struct {
	ctrl     *session.Controller
	settings model.Settings
	events   chan tea.Msg

	input  textinput.Model
	played []rune

	transcriptMu sync.Mutex
	transcript   string

	playing bool
	// gen identifies the current session; events from a cancelled
	// predecessor that are still in flight carry an older value and are
	// dropped.
	gen     int
	lastRec *model.SessionRecord
	errMsg  string

	width  int
	height int
}

// NewModel constructs a copy-training TUI model.
func NewModel(ctrl *session.Controller, settings model.Settings) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type what you hear"
	input.CharLimit = 0
	input.Focus()
	return &Model{
		ctrl:     ctrl,
		settings: settings,
		events:   make(chan tea.Msg, eventBuffer),
		input:    input,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.startSession()
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case progressMsg:
		if msg.gen == m.gen {
			m.played = append(m.played, msg.ch)
		}
		return m, m.waitForEvent()
	case doneMsg:
		if msg.gen != m.gen {
			return m, m.waitForEvent()
		}
		m.playing = false
		rec := msg.rec
		m.lastRec = &rec
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("playback failed: %v", msg.err)
		}
		return m, m.waitForEvent()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.ctrl.Stop()
			return m, tea.Quit
		case tea.KeyEsc:
			if m.playing {
				m.ctrl.Stop()
				return m, nil
			}
			m.ctrl.Stop()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.playing {
				// Early submit: stop playback, grade what was heard.
				m.ctrl.Stop()
				return m, nil
			}
			m.startSession()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.setTranscript(m.input.Value())
		return m, cmd
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(playedStyle.Render(string(m.played)))
	if m.playing {
		b.WriteString(pendingStyle.Render("▌"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if !m.playing && m.lastRec != nil {
		b.WriteString(scoreStyle.Render(fmt.Sprintf("Score %.1f / 10", m.lastRec.Score)))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(m.renderFooter()))

	content := b.String()
	if m.width == 0 || m.height == 0 {
		return content
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	boxed := lipgloss.NewStyle().Width(contentWidth).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxed)
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("%d WPM", m.settings.WPM),
		fmt.Sprintf("groups of %d", m.settings.GroupSize),
	}
	if m.playing {
		segments = append(segments, "enter: grade early", "esc: stop")
	} else {
		segments = append(segments, "enter: next session", "esc: quit")
	}
	return strings.Join(segments, "  ")
}

func (m *Model) startSession() {
	// Finalize any running session against the transcript as it stands
	// before the input is cleared for the next one.
	m.ctrl.Stop()

	m.played = nil
	m.errMsg = ""
	m.lastRec = nil
	m.playing = true
	m.gen++
	gen := m.gen
	m.input.SetValue("")
	m.setTranscript("")

	m.ctrl.Start(session.Callbacks{
		Progress: func(r rune) {
			m.events <- progressMsg{gen: gen, ch: r}
		},
		Transcript: m.getTranscript,
		Done: func(rec model.SessionRecord, outcome player.Outcome, err error) {
			m.events <- doneMsg{gen: gen, rec: rec, outcome: outcome, err: err}
		},
	})
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// setTranscript and getTranscript bridge the Update loop and the
// playback goroutine, which reads the transcript at finalization.
func (m *Model) setTranscript(s string) {
	m.transcriptMu.Lock()
	m.transcript = s
	m.transcriptMu.Unlock()
}

func (m *Model) getTranscript() string {
	m.transcriptMu.Lock()
	defer m.transcriptMu.Unlock()
	return m.transcript
}

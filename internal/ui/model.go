// Package ui is the terminal shell of the demo: three buttons wired to the
// sampler and the MIDI gateway, and a pane showing the console lines.
package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leandrodaf/pianomidi/internal/console"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"github.com/leandrodaf/pianomidi/sdk/midi"
)

const maxLines = 200

type button int

const (
	noButton button = iota - 1
	playButton
	logButton
	listenButton
)

var labels = [...]string{
	playButton:   "Press to play",
	logButton:    "Log MIDI inputs",
	listenButton: "Listen to MIDI messages",
}

// Rows of the view before the first button.
const headerRows = 2

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("#7D56F4")).Foreground(lipgloss.Color("#FFFFFF"))
	pressedStyle  = buttonStyle.Background(lipgloss.Color("#00A86B"))
	disabledStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("#333333")).Foreground(lipgloss.Color("#666666"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Gateway is the part of the MIDI gateway the shell drives.
type Gateway interface {
	Access() contracts.Access
	LogPorts(access contracts.Access)
	AttachLogger(access contracts.Access)
}

// Config wires the shell to its collaborators.
type Config struct {
	Sampler      contracts.Sampler
	Gateway      Gateway
	Note         string             // Note played by the play button.
	SamplerReady <-chan struct{}    // Closed when the sampler finished loading.
	MIDIResult   <-chan midi.Result // Resolution of the MIDI access request.
	Lines        <-chan console.Line
}

// SamplerReadyMsg reports that the sampler finished loading.
type SamplerReadyMsg struct{}

// MIDIResultMsg carries the resolution of the MIDI access request.
type MIDIResultMsg midi.Result

// LineMsg carries one console line.
type LineMsg console.Line

// Model is the Bubble Tea model of the shell.
type Model struct {
	cfg Config

	isLoaded  bool
	midiReady bool
	pressed   button
	lines     []console.Line
	height    int
}

// New returns the shell model.
func New(cfg Config) Model {
	return Model{cfg: cfg, pressed: noButton}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitSampler(m.cfg.SamplerReady),
		waitMIDI(m.cfg.MIDIResult),
		waitLine(m.cfg.Lines),
	)
}

func waitSampler(ready <-chan struct{}) tea.Cmd {
	if ready == nil {
		return nil
	}
	return func() tea.Msg {
		<-ready
		return SamplerReadyMsg{}
	}
}

func waitMIDI(results <-chan midi.Result) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		return MIDIResultMsg(<-results)
	}
}

func waitLine(lines <-chan console.Line) tea.Cmd {
	if lines == nil {
		return nil
	}
	return func() tea.Msg {
		l, ok := <-lines
		if !ok {
			return nil
		}
		return LineMsg(l)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SamplerReadyMsg:
		m.isLoaded = true
	case MIDIResultMsg:
		if msg.Err == nil {
			m.midiReady = true
		}
	case LineMsg:
		m.lines = append(m.lines, console.Line(msg))
		if len(m.lines) > maxLines {
			m.lines = m.lines[len(m.lines)-maxLines:]
		}
		return m, waitLine(m.cfg.Lines)
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.release()
			return m, tea.Quit
		case "l":
			m.click(logButton)
		case "m":
			m.click(listenButton)
		}
	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		b := m.hit(msg.X, msg.Y)
		if !m.enabled(b) {
			return
		}
		m.pressed = b
		if b == playButton {
			m.cfg.Sampler.TriggerAttack(m.cfg.Note)
		}
	case tea.MouseActionRelease:
		b := m.hit(msg.X, msg.Y)
		pressed := m.pressed
		m.release()
		if pressed != playButton && pressed != noButton && pressed == b {
			m.click(b)
		}
	}
}

// release ends a press in progress, releasing the note if it was the play button.
func (m *Model) release() {
	if m.pressed == playButton {
		m.cfg.Sampler.TriggerRelease(m.cfg.Note)
	}
	m.pressed = noButton
}

func (m *Model) click(b button) {
	if !m.enabled(b) {
		return
	}
	switch b {
	case logButton:
		m.cfg.Gateway.LogPorts(m.cfg.Gateway.Access())
	case listenButton:
		m.cfg.Gateway.AttachLogger(m.cfg.Gateway.Access())
	}
}

func (m Model) enabled(b button) bool {
	switch b {
	case playButton:
		return m.isLoaded
	case logButton:
		return m.midiReady
	case listenButton:
		return true
	}
	return false
}

// hit returns the button rendered at cell (x, y). Buttons sit on every other
// row below the header.
func (m Model) hit(x, y int) button {
	row := y - headerRows
	if row < 0 || row%2 != 0 {
		return noButton
	}
	b := button(row / 2)
	if b > listenButton || x < 0 || x >= lipgloss.Width(buttonStyle.Render(labels[b])) {
		return noButton
	}
	return b
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Piano MIDI demo"))
	s.WriteString("\n\n")
	for b := playButton; b <= listenButton; b++ {
		style := buttonStyle
		switch {
		case !m.enabled(b):
			style = disabledStyle
		case m.pressed == b:
			style = pressedStyle
		}
		s.WriteString(style.Render(labels[b]))
		s.WriteString("\n\n")
	}
	s.WriteString(helpStyle.Render("click a button · l: log inputs · m: listen · q: quit"))
	s.WriteString("\n\n")

	for _, l := range m.visibleLines() {
		if l.Error {
			s.WriteString(errorStyle.Render(l.Text))
		} else {
			s.WriteString(l.Text)
		}
		s.WriteString("\n")
	}
	return s.String()
}

// visibleLines returns the tail of the log that fits below the buttons.
func (m Model) visibleLines() []console.Line {
	if m.height <= 0 {
		return m.lines
	}
	room := m.height - (headerRows + 2*len(labels) + 2)
	if room <= 0 {
		return nil
	}
	if len(m.lines) > room {
		return m.lines[len(m.lines)-room:]
	}
	return m.lines
}

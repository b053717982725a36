package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/pianomidi/internal/console"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"github.com/leandrodaf/pianomidi/sdk/midi"
)

type fakeSampler struct {
	calls []string
}

func (f *fakeSampler) Load(map[string]string, func()) error { return nil }
func (f *fakeSampler) TriggerAttack(note string)            { f.calls = append(f.calls, "attack "+note) }
func (f *fakeSampler) TriggerRelease(note string)           { f.calls = append(f.calls, "release "+note) }
func (f *fakeSampler) Readiness() contracts.Readiness       { return contracts.Readiness{} }

type fakeGateway struct {
	access   contracts.Access
	logged   int
	attached int
}

func (f *fakeGateway) Access() contracts.Access { return f.access }

func (f *fakeGateway) LogPorts(a contracts.Access) {
	if a != nil {
		f.logged++
	}
}

func (f *fakeGateway) AttachLogger(a contracts.Access) {
	f.attached++
}

func newTestModel() (Model, *fakeSampler, *fakeGateway) {
	s := &fakeSampler{}
	g := &fakeGateway{access: midi.NewVirtualAccess(contracts.PortInfo{})}
	return New(Config{Sampler: s, Gateway: g, Note: "A1"}), s, g
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

// Button rows: play at y=2, log at y=4, listen at y=6.

func TestPlayDisabledUntilLoaded(t *testing.T) {
	m, s, _ := newTestModel()

	m = update(t, m, press(1, 2))
	m = update(t, m, release(1, 2))
	assert.Empty(t, s.calls)
	assert.False(t, m.enabled(playButton))

	m = update(t, m, SamplerReadyMsg{})
	m = update(t, m, press(1, 2))
	assert.Equal(t, []string{"attack A1"}, s.calls)
	m = update(t, m, release(1, 2))
	assert.Equal(t, []string{"attack A1", "release A1"}, s.calls)
	assert.True(t, m.isLoaded)
}

func TestPlayReleasedOutsideButton(t *testing.T) {
	m, s, _ := newTestModel()
	m = update(t, m, SamplerReadyMsg{})

	m = update(t, m, press(0, 2))
	update(t, m, release(40, 20))
	assert.Equal(t, []string{"attack A1", "release A1"}, s.calls)
}

func TestLogInputsNeedsMIDI(t *testing.T) {
	m, _, g := newTestModel()

	m = update(t, m, press(1, 4))
	m = update(t, m, release(1, 4))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.Zero(t, g.logged)

	m = update(t, m, MIDIResultMsg{Err: errors.New("denied")})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.Zero(t, g.logged)
	assert.False(t, m.midiReady)

	m = update(t, m, MIDIResultMsg{Access: g.access})
	m = update(t, m, press(1, 4))
	m = update(t, m, release(1, 4))
	assert.Equal(t, 1, g.logged)
	update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.Equal(t, 2, g.logged)
}

func TestListenAlwaysEnabled(t *testing.T) {
	m, _, g := newTestModel()

	m = update(t, m, press(2, 6))
	m = update(t, m, release(2, 6))
	update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.Equal(t, 2, g.attached)
}

func TestClickNeedsPressAndReleaseOnSameButton(t *testing.T) {
	m, _, g := newTestModel()

	m = update(t, m, press(2, 6))
	update(t, m, release(2, 2))
	assert.Zero(t, g.attached)
}

func TestHit(t *testing.T) {
	m, _, _ := newTestModel()
	assert.Equal(t, playButton, m.hit(0, 2))
	assert.Equal(t, logButton, m.hit(5, 4))
	assert.Equal(t, listenButton, m.hit(len(labels[listenButton])+1, 6))
	assert.Equal(t, noButton, m.hit(len(labels[listenButton])+2, 6))
	assert.Equal(t, noButton, m.hit(0, 3))
	assert.Equal(t, noButton, m.hit(0, 0))
	assert.Equal(t, noButton, m.hit(0, 8))
}

func TestLinesAreKeptAndTrimmed(t *testing.T) {
	m, _, _ := newTestModel()
	for i := 0; i < maxLines+5; i++ {
		m = update(t, m, LineMsg{Text: "MIDI ready!"})
	}
	m = update(t, m, LineMsg{Text: "Failed to get MIDI access - denied", Error: true})

	require.Len(t, m.lines, maxLines)
	assert.Equal(t, console.Line{Text: "Failed to get MIDI access - denied", Error: true}, m.lines[maxLines-1])
	assert.Contains(t, m.View(), "Failed to get MIDI access - denied")
}

func TestVisibleLinesFitWindow(t *testing.T) {
	m, _, _ := newTestModel()
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})
	for _, text := range []string{"one", "two", "three"} {
		m = update(t, m, LineMsg{Text: text})
	}
	assert.Equal(t, []console.Line{{Text: "two"}, {Text: "three"}}, m.visibleLines())
}

func TestViewShowsButtons(t *testing.T) {
	m, _, _ := newTestModel()
	v := m.View()
	for _, l := range labels {
		assert.Contains(t, v, l)
	}
}

func TestQuitReleasesHeldNote(t *testing.T) {
	m, s, _ := newTestModel()
	m = update(t, m, SamplerReadyMsg{})
	m = update(t, m, press(1, 2))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"attack A1", "release A1"}, s.calls)
}

func TestInitWaitsOnChannels(t *testing.T) {
	ready := make(chan struct{})
	close(ready)
	results := make(chan midi.Result, 1)
	results <- midi.Result{Err: errors.New("denied")}

	assert.Equal(t, SamplerReadyMsg{}, waitSampler(ready)())
	assert.Equal(t, MIDIResultMsg{Err: errors.New("denied")}, waitMIDI(results)())
	assert.Nil(t, waitLine(nil))

	c := console.NewChan(1)
	c.Log("MIDI ready!")
	assert.Equal(t, LineMsg{Text: "MIDI ready!"}, waitLine(c.Lines())())
}

//go:build windows
// +build windows

package midiwindows

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/leandrodaf/pianomidi/internal/midi/midiport"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"go.uber.org/multierr"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIIN windows.Handle

// Constants for callback flags
const (
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// Struct representing MIDI device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// The callback is created once: the runtime limits how many can exist.
// dwInstance carries a key into openPorts instead of a Go pointer.
var (
	callbackOnce sync.Once
	callback     uintptr
	openPorts    sync.Map // uintptr -> *inputPort
	nextKey      uintptr
	nextKeyMu    sync.Mutex
)

var errMMSystem = errors.New("winmm call failed")

type inputPort struct {
	*midiport.Port
	key    uintptr
	handle HMIDIIN
	logger contracts.Logger
}

// Backend grants access to the WinMM MIDI inputs of the machine.
type Backend struct {
	logger contracts.Logger
}

// NewMIDIBackend returns the WinMM backend.
func NewMIDIBackend(options *contracts.ClientOptions) (contracts.Backend, error) {
	return &Backend{logger: options.Logger.Named("winmm")}, nil
}

// RequestAccess opens and starts every MIDI input present at this moment.
func (b *Backend) RequestAccess(ctx context.Context) (contracts.Access, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	callbackOnce.Do(func() { callback = windows.NewCallback(midiInCallback) })

	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)

	a := &access{logger: b.logger}
	origin := time.Now()
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			b.logger.Warn(fmt.Sprintf("Failed to get information for MIDI device %d", i))
			continue
		}

		p := &inputPort{
			Port: midiport.New(contracts.PortInfo{
				Type:         contracts.PortTypeInput,
				ID:           fmt.Sprintf("input-%d", i),
				Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
				Name:         windows.UTF16ToString(caps.szPname[:]),
				Version:      fmt.Sprintf("%d.%d", caps.vDriverVersion>>8, caps.vDriverVersion&0xFF),
			}, origin),
			logger: b.logger,
		}
		if err := p.open(i); err != nil {
			b.logger.Warn("Skipping MIDI device",
				b.logger.Field().Int("device", int(i)),
				b.logger.Field().Error("error", err))
			continue
		}
		a.ports = append(a.ports, p)
	}
	b.logger.Info("MIDI devices opened", b.logger.Field().Int("count", len(a.ports)))
	return a, nil
}

func (p *inputPort) open(deviceID uint32) error {
	nextKeyMu.Lock()
	nextKey++
	p.key = nextKey
	nextKeyMu.Unlock()
	openPorts.Store(p.key, p)

	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS
	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&p.handle)),
		uintptr(deviceID),
		callback,
		p.key,
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		openPorts.Delete(p.key)
		return fmt.Errorf("%w: midiInOpen(%d): %v", errMMSystem, deviceID, err)
	}

	r1, _, err = procMidiInStart.Call(uintptr(p.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(p.handle))
		openPorts.Delete(p.key)
		return fmt.Errorf("%w: midiInStart(%d): %v", errMMSystem, deviceID, err)
	}
	return nil
}

func (p *inputPort) close() error {
	defer openPorts.Delete(p.key)
	p.SetMessageHandler(nil)

	var err error
	if r1, _, e := procMidiInStop.Call(uintptr(p.handle)); r1 != 0 {
		err = multierr.Append(err, fmt.Errorf("%w: midiInStop: %v", errMMSystem, e))
	}
	if r1, _, e := procMidiInClose.Call(uintptr(p.handle)); r1 != 0 {
		err = multierr.Append(err, fmt.Errorf("%w: midiInClose: %v", errMMSystem, e))
	}
	p.handle = 0
	return err
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	v, ok := openPorts.Load(dwInstance)
	if !ok {
		return 0
	}
	p := v.(*inputPort)

	switch wMsg {
	case MIM_OPEN:
		p.logger.Debug("MIDI device opened", p.logger.Field().String("id", p.Info().ID))
	case MIM_CLOSE:
		p.logger.Debug("MIDI device closed", p.logger.Field().String("id", p.Info().ID))
	case MIM_DATA, MIM_MOREDATA:
		status := byte(dwParam1 & 0xFF)
		packed := [3]byte{status, byte((dwParam1 >> 8) & 0xFF), byte((dwParam1 >> 16) & 0xFF)}
		p.Deliver(packed[:shortMessageLen(status)])
	case MIM_ERROR, MIM_LONGERROR:
		p.logger.Error(fmt.Sprintf("MIDI error: msg=0x%X", wMsg))
	default:
		p.logger.Warn(fmt.Sprintf("Unknown MIDI message: 0x%X", wMsg))
	}

	return 0
}

type access struct {
	logger    contracts.Logger
	mu        sync.Mutex
	ports     []*inputPort
	closeOnce sync.Once
}

func (a *access) Inputs() []contracts.InputPort {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]contracts.InputPort, len(a.ports))
	for i, p := range a.ports {
		out[i] = p
	}
	return out
}

// Close stops and closes every device.
func (a *access) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for _, p := range a.ports {
			err = multierr.Append(err, p.close())
		}
		a.logger.Info("MIDI devices closed")
	})
	return err
}

package midi

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/pianomidi/internal/midi/mididarwin"
	"github.com/leandrodaf/pianomidi/internal/midi/midilinux"
	"github.com/leandrodaf/pianomidi/internal/midi/midiwindows"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system is not supported by the MIDI gateway.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// backendInitializers maps OS names to corresponding MIDI backend initializers.
var backendInitializers = map[string]func(*contracts.ClientOptions) (contracts.Backend, error){
	"darwin":  mididarwin.NewMIDIBackend,  // macOS (CoreMIDI).
	"windows": midiwindows.NewMIDIBackend, // Windows (WinMM).
	"linux":   midilinux.NewMIDIBackend,   // Linux (ALSA through rtmidi).
}

// NewBackend returns the MIDI backend of the current operating system.
// On an unsupported OS the returned backend denies every request with ErrUnsupportedOS.
func NewBackend(opts *contracts.ClientOptions) (contracts.Backend, error) {
	if initializer, exists := backendInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	err := fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
	return contracts.BackendFunc(func(context.Context) (contracts.Access, error) {
		return nil, err
	}), nil
}

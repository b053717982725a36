//go:build !windows
// +build !windows

package midiwindows

import (
	"context"
	"errors"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// ErrUnavailable is returned by the backend on systems without WinMM.
var ErrUnavailable = errors.New("WinMM is not available on this platform")

type dummyBackend struct {
	logger contracts.Logger
}

// NewMIDIBackend initializes a dummy backend for non-Windows systems.
func NewMIDIBackend(options *contracts.ClientOptions) (contracts.Backend, error) {
	options.Logger.Debug("Using dummy WinMM backend for non-Windows system")
	return &dummyBackend{logger: options.Logger}, nil
}

// RequestAccess logs a warning and denies access.
func (b *dummyBackend) RequestAccess(context.Context) (contracts.Access, error) {
	b.logger.Warn("RequestAccess called on dummy WinMM backend")
	return nil, ErrUnavailable
}

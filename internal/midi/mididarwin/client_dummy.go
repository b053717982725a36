//go:build !darwin
// +build !darwin

package mididarwin

import (
	"context"
	"errors"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// ErrUnavailable is returned by the backend on systems without CoreMIDI.
var ErrUnavailable = errors.New("CoreMIDI is not available on this platform")

type dummyBackend struct {
	logger contracts.Logger
}

// NewMIDIBackend returns a backend that always denies access.
func NewMIDIBackend(options *contracts.ClientOptions) (contracts.Backend, error) {
	options.Logger.Debug("Using dummy CoreMIDI backend for non-macOS system")
	return &dummyBackend{logger: options.Logger}, nil
}

func (b *dummyBackend) RequestAccess(context.Context) (contracts.Access, error) {
	b.logger.Warn("RequestAccess called on dummy CoreMIDI backend")
	return nil, ErrUnavailable
}

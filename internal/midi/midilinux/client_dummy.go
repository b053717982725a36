//go:build !linux || !cgo
// +build !linux !cgo

package midilinux

import (
	"context"
	"errors"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// ErrUnavailable is returned by the backend when rtmidi was not compiled in.
var ErrUnavailable = errors.New("rtmidi is not available on this platform")

type dummyBackend struct {
	logger contracts.Logger
}

// NewMIDIBackend initializes a dummy backend for builds without rtmidi.
func NewMIDIBackend(options *contracts.ClientOptions) (contracts.Backend, error) {
	options.Logger.Debug("Using dummy rtmidi backend")
	return &dummyBackend{logger: options.Logger}, nil
}

func (b *dummyBackend) RequestAccess(context.Context) (contracts.Access, error) {
	b.logger.Warn("RequestAccess called on dummy rtmidi backend")
	return nil, ErrUnavailable
}

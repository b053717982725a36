//go:build linux && cgo
// +build linux,cgo

package midilinux

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/pianomidi/internal/midi/midiport"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/multierr"
)

// Backend grants access to the ALSA sequencer inputs through rtmidi.
type Backend struct {
	logger contracts.Logger
}

// NewMIDIBackend returns the rtmidi backend.
func NewMIDIBackend(options *contracts.ClientOptions) (contracts.Backend, error) {
	return &Backend{logger: options.Logger.Named("rtmidi")}, nil
}

// RequestAccess opens the rtmidi driver and listens to every input present at
// this moment.
func (b *Backend) RequestAccess(ctx context.Context) (contracts.Access, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	ins, err := drv.Ins()
	if err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("listing MIDI inputs: %w", err)
	}

	a := &access{logger: b.logger, drv: drv}
	origin := time.Now()
	for _, in := range ins {
		port := midiport.New(contracts.PortInfo{
			Type: contracts.PortTypeInput,
			ID:   fmt.Sprintf("input-%d", in.Number()),
			Name: in.String(),
		}, origin)

		stop, err := b.listen(in, port)
		if err != nil {
			b.logger.Warn("Skipping MIDI input",
				b.logger.Field().String("name", in.String()),
				b.logger.Field().Error("error", err))
			continue
		}
		a.ports = append(a.ports, port)
		a.stops = append(a.stops, stop)
		a.ins = append(a.ins, in)
	}
	b.logger.Info("MIDI inputs opened", b.logger.Field().Int("count", len(a.ports)))
	return a, nil
}

func (b *Backend) listen(in drivers.In, port *midiport.Port) (func(), error) {
	if err := in.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", in.String(), err)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		port.Deliver(msg.Bytes())
	}, midi.UseSysEx(), midi.HandleError(func(listenErr error) {
		b.logger.Warn("MIDI listener error",
			b.logger.Field().String("name", in.String()),
			b.logger.Field().Error("error", listenErr))
	}))
	if err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("listen %q: %w", in.String(), err)
	}
	return stop, nil
}

type access struct {
	logger    contracts.Logger
	drv       *rtmididrv.Driver
	mu        sync.Mutex
	ports     []*midiport.Port
	ins       []drivers.In
	stops     []func()
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

// Close stops the listeners and closes the ports and the driver.
func (a *access) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, p := range a.ports {
			p.SetMessageHandler(nil)
			a.stops[i]()
			err = multierr.Append(err, a.ins[i].Close())
		}
		err = multierr.Append(err, a.drv.Close())
		a.logger.Info("MIDI inputs closed")
	})
	return err
}

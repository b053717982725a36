//go:build darwin
// +build darwin

package mididarwin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/pianomidi/internal/midi/midiport"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrCreateClient        = errors.New("error creating CoreMIDI client")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI source")
	ErrCreateInputPort     = errors.New("error creating input port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Backend grants access to the CoreMIDI sources of the machine.
type Backend struct {
	logger     contracts.Logger
	clientName string
}

// NewMIDIBackend returns the CoreMIDI backend.
func NewMIDIBackend(options *contracts.ClientOptions) (contracts.Backend, error) {
	return &Backend{
		logger:     options.Logger.Named("coremidi"),
		clientName: options.BackendConfig.ClientName,
	}, nil
}

// RequestAccess creates the CoreMIDI client and connects one input port per
// source present at this moment.
func (b *Backend) RequestAccess(ctx context.Context) (contracts.Access, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := coremidi.NewClient(b.clientName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateClient, err)
	}
	b.logger.Info("MIDI client successfully created")

	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}

	a := &access{logger: b.logger}
	origin := time.Now()
	for i, source := range sources {
		entity := source.Entity()
		port := midiport.New(contracts.PortInfo{
			Type:         contracts.PortTypeInput,
			ID:           fmt.Sprintf("input-%d", i),
			Manufacturer: entity.Manufacturer(),
			Name:         source.Name(),
		}, origin)

		conn, err := connect(client, source, port)
		if err != nil {
			b.logger.Warn("Skipping MIDI source",
				b.logger.Field().String("name", source.Name()),
				b.logger.Field().Error("error", err))
			continue
		}
		a.ports = append(a.ports, port)
		a.conns = append(a.conns, conn)
	}
	b.logger.Info("MIDI sources connected", b.logger.Field().Int("count", len(a.ports)))
	return a, nil
}

func connect(client coremidi.Client, source coremidi.Source, port *midiport.Port) (internalPortConnection, error) {
	in, err := coremidi.NewInputPort(client, source.Name(), func(_ coremidi.Source, packet coremidi.Packet) {
		port.Deliver(packet.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	conn, err := in.Connect(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}
	return conn, nil
}

type access struct {
	logger    contracts.Logger
	mu        sync.Mutex
	ports     []*midiport.Port
	conns     []internalPortConnection
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

// Close detaches every handler and disconnects from the sources.
func (a *access) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, p := range a.ports {
			p.SetMessageHandler(nil)
			a.conns[i].Disconnect()
		}
		a.logger.Info("MIDI sources disconnected")
	})
	return nil
}

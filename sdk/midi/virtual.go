package midi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/pianomidi/internal/midi/midiport"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// VirtualAccess is an in-process MIDI session whose messages are injected
// with Send. It stands in for hardware in tests and demos.
type VirtualAccess struct {
	mu     sync.Mutex
	ports  []*midiport.Port
	closed bool
}

// NewVirtualAccess creates a session with one input port per info.
// Empty Type and ID fields are filled in.
func NewVirtualAccess(infos ...contracts.PortInfo) *VirtualAccess {
	origin := time.Now()
	v := &VirtualAccess{}
	for i, info := range infos {
		if info.Type == "" {
			info.Type = contracts.PortTypeInput
		}
		if info.ID == "" {
			info.ID = fmt.Sprintf("virtual-%d", i)
		}
		v.ports = append(v.ports, midiport.New(info, origin))
	}
	return v
}

// Inputs returns the virtual input ports.
func (v *VirtualAccess) Inputs() []contracts.InputPort {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]contracts.InputPort, len(v.ports))
	for i, p := range v.ports {
		out[i] = p
	}
	return out
}

// Send delivers data on input port index, stamped with timestamp milliseconds.
func (v *VirtualAccess) Send(index int, timestamp float64, data []byte) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrNoAccess
	}
	if index < 0 || index >= len(v.ports) {
		v.mu.Unlock()
		return fmt.Errorf("virtual input %d out of range [0,%d)", index, len(v.ports))
	}
	p := v.ports[index]
	v.mu.Unlock()

	p.DeliverAt(timestamp, data)
	return nil
}

// Close detaches every handler. Later Sends fail.
func (v *VirtualAccess) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range v.ports {
		p.SetMessageHandler(nil)
	}
	v.closed = true
	return nil
}

// StaticBackend grants a (or denies with err when a is nil) on every request.
func StaticBackend(a contracts.Access, err error) contracts.Backend {
	return contracts.BackendFunc(func(ctx context.Context) (contracts.Access, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if a == nil {
			return nil, err
		}
		return a, nil
	})
}

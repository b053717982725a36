package contracts

import "context"

// PortTypeInput is the PortInfo.Type of input ports.
const PortTypeInput = "input"

// MessageEvent is a raw MIDI message delivered by an input port.
type MessageEvent struct {
	Timestamp float64 // Milliseconds elapsed since the access session started.
	Data      []byte  // Raw message bytes, status byte first.
}

// MessageHandler receives the messages of one input port.
type MessageHandler func(MessageEvent)

// InputPort is a logical endpoint through which MIDI messages are received.
type InputPort interface {
	Info() PortInfo
	// SetMessageHandler replaces the port's handler. Passing nil detaches it.
	SetMessageHandler(h MessageHandler)
}

// Access is a granted MIDI session. It owns the OS resources behind its ports.
type Access interface {
	Inputs() []InputPort // Input ports in the order the host enumerated them.
	Close() error        // Releases the session and every port.
}

// Backend requests access to the host MIDI system.
type Backend interface {
	RequestAccess(ctx context.Context) (Access, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context) (Access, error)

// RequestAccess calls f(ctx).
func (f BackendFunc) RequestAccess(ctx context.Context) (Access, error) {
	return f(ctx)
}

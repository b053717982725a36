package midi

import (
	"context"
	"errors"
	"sync"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

var (
	// ErrNoAccess is returned when an operation needs access that was never granted.
	ErrNoAccess = errors.New("MIDI access not granted")
	// ErrNilAccess is the denial reason when a backend grants nothing.
	ErrNilAccess = errors.New("backend returned no MIDI access")
)

// Result is the resolution of an access request: either Access or Err is set.
type Result struct {
	Access contracts.Access
	Err    error
}

// OK reports whether access was granted.
func (r Result) OK() bool { return r.Err == nil }

// Gateway requests access to the host MIDI system once and exposes the
// granted input ports.
//
// Its state moves Uninitialized (unrequested) -> Pending -> Ready or Failed
// (denied) and never goes back.
type Gateway struct {
	logger  contracts.Logger
	console contracts.Console
	backend contracts.Backend

	mu     sync.Mutex
	state  contracts.Readiness
	access contracts.Access
	done   chan struct{} // closed once the request resolved
}

// NewGateway creates a gateway with the specified options.
// Without WithBackend it uses the backend of the current operating system.
func NewGateway(opts ...contracts.Option) (*Gateway, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	backend := options.Backend
	if backend == nil {
		if backend, err = NewBackend(&options); err != nil {
			return nil, err
		}
	}

	return &Gateway{
		logger:  options.Logger.Named("gateway"),
		console: options.Console,
		backend: backend,
	}, nil
}

// RequestAccess asks the backend for access in the background. The returned
// channel receives exactly one Result. Only the first call reaches the
// backend; later calls receive the same resolution.
//
// Cancelling ctx while the request is pending denies access with ctx's error.
func (g *Gateway) RequestAccess(ctx context.Context) <-chan Result {
	g.mu.Lock()
	if g.done == nil {
		g.done = make(chan struct{})
		g.state = contracts.Readiness{State: contracts.Pending}
		g.logger.Debug("Requesting MIDI access")
		go g.request(ctx)
	}
	done := g.done
	g.mu.Unlock()

	out := make(chan Result, 1)
	go func() {
		<-done
		out <- g.result()
	}()
	return out
}

func (g *Gateway) request(ctx context.Context) {
	type reply struct {
		access contracts.Access
		err    error
	}
	replies := make(chan reply, 1)
	go func() {
		access, err := g.backend.RequestAccess(ctx)
		replies <- reply{access, err}
	}()

	select {
	case r := <-replies:
		if r.err == nil && r.access == nil {
			r.err = ErrNilAccess
		}
		if r.err != nil {
			g.onFailure(r.err)
			return
		}
		g.onSuccess(r.access)
	case <-ctx.Done():
		g.onFailure(ctx.Err())
		// The backend may still grant access; release it.
		go func() {
			if r := <-replies; r.access != nil {
				_ = r.access.Close()
			}
		}()
	}
}

func (g *Gateway) onSuccess(access contracts.Access) {
	g.mu.Lock()
	g.access = access
	g.state = contracts.Readiness{State: contracts.Ready}
	g.mu.Unlock()

	g.logger.Info("MIDI access granted", g.logger.Field().Int("inputs", len(access.Inputs())))
	g.console.Log(ReadyLine)
	close(g.done)
}

func (g *Gateway) onFailure(err error) {
	g.mu.Lock()
	g.state = contracts.Readiness{State: contracts.Failed, Reason: err}
	g.mu.Unlock()

	g.logger.Error("MIDI access denied", g.logger.Field().Error("error", err))
	g.console.Error(FormatFailure(err))
	close(g.done)
}

func (g *Gateway) result() Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Result{Access: g.access, Err: g.state.Reason}
}

// State returns the current readiness of the gateway.
func (g *Gateway) State() contracts.Readiness {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Access returns the granted access, or nil before the gateway is Ready.
func (g *Gateway) Access() contracts.Access {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.access
}

// ListPorts describes every input port of access in enumeration order.
func (g *Gateway) ListPorts(access contracts.Access) []contracts.PortInfo {
	if access == nil {
		return nil
	}
	inputs := access.Inputs()
	infos := make([]contracts.PortInfo, len(inputs))
	for i, in := range inputs {
		infos[i] = in.Info()
	}
	return infos
}

// LogPorts writes one console line per input port of access.
func (g *Gateway) LogPorts(access contracts.Access) {
	for _, info := range g.ListPorts(access) {
		g.console.Log(FormatPort(info))
	}
}

// AttachLogger makes every current input port of access write its messages
// to the console. Calling it again replaces the handlers instead of adding
// new ones; ports that appear later are not attached.
func (g *Gateway) AttachLogger(access contracts.Access) {
	if access == nil {
		g.logger.Debug("AttachLogger called without MIDI access")
		return
	}
	for _, in := range access.Inputs() {
		in.SetMessageHandler(g.logMessage)
		g.logger.Debug("Logging MIDI input", g.logger.Field().String("id", in.Info().ID))
	}
}

func (g *Gateway) logMessage(ev contracts.MessageEvent) {
	g.console.Log(FormatMessage(ev))
}

// Close releases the granted access.
func (g *Gateway) Close() error {
	access := g.Access()
	if access == nil {
		return ErrNoAccess
	}
	return access.Close()
}

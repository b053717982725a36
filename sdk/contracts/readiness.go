package contracts

// State is the lifecycle of a resource that becomes usable asynchronously.
type State int

const (
	// Uninitialized means nothing was requested yet ("unrequested" for the MIDI gateway).
	Uninitialized State = iota
	// Pending means the asynchronous operation started and has not resolved.
	Pending
	// Ready means the resource can be used.
	Ready
	// Failed means the operation resolved with an error ("denied" for the MIDI gateway).
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Readiness is a State plus the reason of a failure.
type Readiness struct {
	State  State
	Reason error // Set only when State is Failed.
}

// IsReady reports whether the resource can be used.
func (r Readiness) IsReady() bool {
	return r.State == Ready
}

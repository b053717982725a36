// Package midiport holds the input port shared by the OS backends.
package midiport

import (
	"sync/atomic"
	"time"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// Port is an input port whose handler can be replaced while messages arrive.
type Port struct {
	info    contracts.PortInfo
	origin  time.Time
	handler atomic.Value // holds contracts.MessageHandler
}

// New returns an input port. Timestamps are measured from origin.
func New(info contracts.PortInfo, origin time.Time) *Port {
	p := &Port{info: info, origin: origin}
	p.handler.Store(contracts.MessageHandler(nil))
	return p
}

// Info returns the port description.
func (p *Port) Info() contracts.PortInfo { return p.info }

// SetMessageHandler replaces the current handler. Only the last one set is called.
func (p *Port) SetMessageHandler(h contracts.MessageHandler) {
	p.handler.Store(h)
}

// Deliver copies data and hands it to the current handler, stamped with the
// time elapsed since origin.
func (p *Port) Deliver(data []byte) {
	p.DeliverAt(float64(time.Since(p.origin).Microseconds())/1000, data)
}

// DeliverAt is Deliver with an explicit timestamp in milliseconds.
func (p *Port) DeliverAt(timestamp float64, data []byte) {
	h, _ := p.handler.Load().(contracts.MessageHandler)
	if h == nil || data == nil {
		return
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	h(contracts.MessageEvent{Timestamp: timestamp, Data: buf})
}

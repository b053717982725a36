package contracts

// PortInfo describes a MIDI port as reported by the host MIDI system.
type PortInfo struct {
	Type         string // Port direction, "input" for every port the gateway exposes.
	ID           string // Identifier unique within one access session.
	Manufacturer string // Device manufacturer, empty when the driver does not report one.
	Name         string // Port name.
	Version      string // Driver version, empty when the driver does not report one.
}

package midi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// ReadyLine is written to the console when access is granted.
const ReadyLine = "MIDI ready!"

// FormatMessage renders a received message as one console line, e.g.
//
//	MIDI message received at timestamp 12[3 bytes]: 0x90 0x3c 0x7f
//
// The timestamp is rounded to the nearest millisecond and every byte is
// followed by a space.
func FormatMessage(ev contracts.MessageEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "MIDI message received at timestamp %s[%d bytes]: ",
		strconv.FormatFloat(math.Round(ev.Timestamp), 'f', 0, 64), len(ev.Data))
	for _, c := range ev.Data {
		b.WriteString("0x")
		b.WriteString(strconv.FormatUint(uint64(c), 16))
		b.WriteByte(' ')
	}
	return b.String()
}

// FormatPort renders a port description as one console line.
func FormatPort(info contracts.PortInfo) string {
	return fmt.Sprintf("Input port [type:'%s'] id:'%s' manufacturer:'%s' name:'%s' version:'%s'",
		info.Type, info.ID, info.Manufacturer, info.Name, info.Version)
}

// FormatFailure renders the console line for a denied access request.
func FormatFailure(err error) string {
	return "Failed to get MIDI access - " + err.Error()
}

package midiwindows

// shortMessageLen is the byte length of a short MIDI message given its status
// byte. WinMM packs short messages into one DWORD without a length.
func shortMessageLen(status byte) int {
	switch {
	case status < 0x80:
		return 1
	case status < 0xC0, status >= 0xE0 && status < 0xF0:
		return 3
	case status < 0xE0:
		return 2
	case status == 0xF1, status == 0xF3:
		return 2
	case status == 0xF2:
		return 3
	}
	return 1
}

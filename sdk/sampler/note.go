package sampler

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownNote is returned for note names that are not in scientific pitch notation.
var ErrUnknownNote = errors.New("unknown note name")

var pitchClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// ParseNote converts a note name such as "A1", "C#4" or "Bb-1" to its MIDI
// note number (C4 = 60, A1 = 33).
func ParseNote(name string) (int, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
	}
	pc, ok := pitchClasses[upper(name[0])]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
	}

	rest := name[1:]
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			pc++
		} else {
			pc--
		}
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
	}
	midi := 12*(octave+1) + pc
	if midi < 0 || midi > 127 {
		return 0, fmt.Errorf("%w: %q out of MIDI range", ErrUnknownNote, name)
	}
	return midi, nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// Package console implements contracts.Console, the user-facing output of the program.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// Stream writes log lines to out and error lines to err, one line per call.
type Stream struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewStream returns a console writing to out and err.
func NewStream(out, err io.Writer) *Stream {
	return &Stream{out: out, err: err}
}

func (s *Stream) Log(line string)   { s.write(s.out, line) }
func (s *Stream) Error(line string) { s.write(s.err, line) }

func (s *Stream) write(w io.Writer, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(w, line)
}

// Line is one console line.
type Line struct {
	Text  string
	Error bool
}

// Chan forwards lines to a buffered channel. Lines are dropped when the
// buffer is full so MIDI callbacks never block on a slow reader.
type Chan struct {
	lines chan Line
}

// NewChan returns a console with room for size pending lines.
func NewChan(size int) *Chan {
	return &Chan{lines: make(chan Line, size)}
}

// Lines is the receiving side of the console.
func (c *Chan) Lines() <-chan Line { return c.lines }

func (c *Chan) Log(line string)   { c.send(Line{Text: line}) }
func (c *Chan) Error(line string) { c.send(Line{Text: line, Error: true}) }

func (c *Chan) send(l Line) {
	select {
	case c.lines <- l:
	default:
	}
}

// Logged mirrors console lines into the diagnostics logger.
type Logged struct {
	logger contracts.Logger
}

// NewLogged returns a console that writes every line to logger.
func NewLogged(logger contracts.Logger) *Logged {
	return &Logged{logger: logger}
}

func (l *Logged) Log(line string) {
	l.logger.Info("console", l.logger.Field().String("line", line))
}

func (l *Logged) Error(line string) {
	l.logger.Error("console", l.logger.Field().String("line", line))
}

type tee []contracts.Console

// Tee returns a console that writes every line to each of consoles.
func Tee(consoles ...contracts.Console) contracts.Console {
	return tee(consoles)
}

func (t tee) Log(line string) {
	for _, c := range t {
		c.Log(line)
	}
}

func (t tee) Error(line string) {
	for _, c := range t {
		c.Error(line)
	}
}

package sampler

import (
	"io/fs"
	"os"
	"time"

	"github.com/leandrodaf/pianomidi/internal/audio"
	"github.com/leandrodaf/pianomidi/internal/logger"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

const (
	// DefaultSampleRate is the output rate of the rendered stream.
	DefaultSampleRate = 44100
	// DefaultRelease is how long a released note takes to fade out.
	DefaultRelease = 100 * time.Millisecond
)

// Options configures a Sampler.
type Options struct {
	Logger     contracts.Logger
	Decoder    contracts.Decoder
	Sink       contracts.AudioSink
	Files      fs.FS // Sample file references are resolved in Files.
	SampleRate int
	Release    time.Duration
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the diagnostics logger.
func WithLogger(l contracts.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithDecoder replaces the MP3 decoder.
func WithDecoder(d contracts.Decoder) Option {
	return func(o *Options) { o.Decoder = d }
}

// WithSink replaces the audio output.
func WithSink(s contracts.AudioSink) Option {
	return func(o *Options) { o.Sink = s }
}

// WithSampleFS resolves sample file references in fsys.
func WithSampleFS(fsys fs.FS) Option {
	return func(o *Options) { o.Files = fsys }
}

// WithBaseDir resolves sample file references relative to dir.
func WithBaseDir(dir string) Option {
	return func(o *Options) { o.Files = os.DirFS(dir) }
}

// WithSampleRate sets the output sample rate.
func WithSampleRate(rate int) Option {
	return func(o *Options) { o.SampleRate = rate }
}

// WithRelease sets the fade-out time of released notes.
func WithRelease(d time.Duration) Option {
	return func(o *Options) { o.Release = d }
}

func applyDefaultOptions(opts ...Option) Options {
	o := Options{Release: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = logger.NewNopLogger()
	}
	if o.Decoder == nil {
		o.Decoder = audio.MP3Decoder{}
	}
	if o.Sink == nil {
		o.Sink = &audio.OtoSink{}
	}
	if o.Files == nil {
		o.Files = os.DirFS(".")
	}
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Release < 0 {
		o.Release = DefaultRelease
	}
	return o
}

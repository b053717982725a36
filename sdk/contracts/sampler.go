package contracts

import (
	"context"
	"io"
)

// PCM is decoded audio as interleaved stereo float32 samples in [-1, 1].
type PCM struct {
	SampleRate int
	Samples    []float32
}

// Frames returns the number of stereo frames.
func (p *PCM) Frames() int {
	return len(p.Samples) / 2
}

// Decoder decodes an encoded audio file.
type Decoder interface {
	Decode(r io.Reader) (*PCM, error)
}

// AudioSink plays interleaved float32 little-endian frames read from r.
// Play blocks until ctx is done.
type AudioSink interface {
	Play(ctx context.Context, r io.Reader, sampleRate, channels int) error
}

// Sampler plays back pre-recorded notes on trigger.
type Sampler interface {
	// Load decodes the files of sampleMap (note name -> file reference) in the
	// background and calls onReady once every file has been decoded.
	Load(sampleMap map[string]string, onReady func()) error
	TriggerAttack(note string)
	TriggerRelease(note string)
	Readiness() Readiness
}

package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// DefaultBufferSize keeps the delay between a trigger and the sound short.
const DefaultBufferSize = 30 * time.Millisecond

// OtoSink plays a float32 little-endian stream on the default output device.
// Only one OtoSink may play per process because oto allows a single context.
type OtoSink struct {
	BufferSize time.Duration
}

// Play opens the device and pulls from r until ctx is done.
func (s *OtoSink) Play(ctx context.Context, r io.Reader, sampleRate, channels int) error {
	bufferSize := s.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return fmt.Errorf("oto: %w", err)
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return nil
	}

	player := otoCtx.NewPlayer(r)
	player.Play()
	<-ctx.Done()
	player.Pause()
	if err := player.Err(); err != nil {
		return fmt.Errorf("oto player: %w", err)
	}
	return otoCtx.Suspend()
}

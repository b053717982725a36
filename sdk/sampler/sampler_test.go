package sampler

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
	"testing/fstest"
	"time"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constDecoder returns a constant-level sample whose length is the file size in frames.
type constDecoder struct {
	rate int
	err  error
}

func (d constDecoder) Decode(r io.Reader) (*contracts.PCM, error) {
	if d.err != nil {
		return nil, d.err
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	samples := make([]float32, 2*len(raw))
	for i := range samples {
		samples[i] = 0.5
	}
	return &contracts.PCM{SampleRate: d.rate, Samples: samples}, nil
}

func files(frames int) fstest.MapFS {
	return fstest.MapFS{"A1.mp3": &fstest.MapFile{Data: make([]byte, frames)}}
}

func newLoaded(t *testing.T, opts ...Option) *Sampler {
	t.Helper()
	s := New(append([]Option{
		WithDecoder(constDecoder{rate: 100}),
		WithSampleFS(files(1000)),
		WithSampleRate(100),
		WithRelease(100 * time.Millisecond),
	}, opts...)...)
	ready := make(chan struct{})
	require.NoError(t, s.Load(map[string]string{"A1": "A1.mp3"}, func() { close(ready) }))
	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("sampler did not become ready")
	}
	return s
}

func TestLoadCallsOnReadyOnce(t *testing.T) {
	s := New(WithDecoder(constDecoder{rate: 44100}), WithSampleFS(files(10)))
	assert.Equal(t, contracts.Uninitialized, s.Readiness().State)

	calls := make(chan struct{}, 2)
	require.NoError(t, s.Load(map[string]string{"A1": "A1.mp3"}, func() { calls <- struct{}{} }))
	assert.ErrorIs(t, s.Load(map[string]string{"A1": "A1.mp3"}, func() { calls <- struct{}{} }), ErrAlreadyLoaded)

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("onReady not called")
	}
	assert.True(t, s.Readiness().IsReady())
	assert.Never(t, func() bool { return len(calls) > 0 }, 50*time.Millisecond, 10*time.Millisecond)
}

func TestLoadFailureNeverCallsOnReady(t *testing.T) {
	cases := map[string]*Sampler{
		"decode error": New(WithDecoder(constDecoder{err: errors.New("bad frame")}), WithSampleFS(files(10))),
		"missing file": New(WithDecoder(constDecoder{rate: 44100}), WithSampleFS(fstest.MapFS{})),
		"empty sample": New(WithDecoder(constDecoder{rate: 44100}), WithSampleFS(files(0))),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			require.NoError(t, s.Load(map[string]string{"A1": "A1.mp3"}, func() { called = true }))
			require.Eventually(t, func() bool { return s.Readiness().State == contracts.Failed }, time.Second, 5*time.Millisecond)
			assert.Error(t, s.Readiness().Reason)
			assert.False(t, called)
		})
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	s := New(WithDecoder(constDecoder{rate: 44100}), WithSampleFS(files(10)))
	require.NoError(t, s.Load(nil, nil))
	require.Eventually(t, func() bool { return s.Readiness().State == contracts.Failed }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, s.Readiness().Reason, ErrNoSamples)

	s = New(WithDecoder(constDecoder{rate: 44100}), WithSampleFS(files(10)))
	require.NoError(t, s.Load(map[string]string{"piano": "A1.mp3"}, nil))
	require.Eventually(t, func() bool { return s.Readiness().State == contracts.Failed }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, s.Readiness().Reason, ErrUnknownNote)
}

func TestAttackBeforeLoadIsSilent(t *testing.T) {
	s := New(WithDecoder(constDecoder{rate: 100}), WithSampleFS(files(10)))
	s.TriggerAttack("A1")

	out := make([]float32, 8)
	s.Render(out)
	assert.Equal(t, make([]float32, 8), out)
	assert.Zero(t, s.Sounding())
}

func TestAttackRenders(t *testing.T) {
	s := newLoaded(t)
	s.TriggerAttack("A1")

	out := make([]float32, 8)
	s.Render(out)
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, out)
	assert.Equal(t, 1, s.Sounding())
}

func TestInvalidNotesAreIgnored(t *testing.T) {
	s := newLoaded(t)
	s.TriggerAttack("X9")
	s.TriggerRelease("X9")
	s.TriggerRelease("C4")
	assert.Zero(t, s.Sounding())
}

func TestReleaseFadesOut(t *testing.T) {
	// 100 Hz output with a 100 ms release fades over 10 frames.
	s := newLoaded(t)
	s.TriggerAttack("A1")
	s.TriggerRelease("A1")

	out := make([]float32, 2*12)
	s.Render(out)
	assert.InDelta(t, 0.5, out[0], 1e-6)
	assert.Less(t, out[10], out[0])
	assert.InDelta(t, 0, out[2*11], 1e-6)
	assert.Zero(t, s.Sounding())
}

func TestReleaseWithoutFade(t *testing.T) {
	s := newLoaded(t, WithRelease(0))
	s.TriggerAttack("A1")
	s.TriggerRelease("A1")

	out := make([]float32, 4)
	s.Render(out)
	assert.Equal(t, make([]float32, 4), out)
	assert.Zero(t, s.Sounding())
}

func TestVoiceEndsWithSample(t *testing.T) {
	s := newLoaded(t, WithSampleFS(files(4)))
	s.TriggerAttack("A1")

	out := make([]float32, 2*8)
	s.Render(out)
	assert.Zero(t, s.Sounding())
	assert.Equal(t, float32(0), out[2*7])
}

func TestRepitchFromNearestSample(t *testing.T) {
	s := newLoaded(t)
	s.TriggerAttack("A2") // one octave up plays the A1 sample twice as fast

	s.mu.Lock()
	v := s.voices[45]
	s.mu.Unlock()
	require.NotNil(t, v)
	assert.InDelta(t, 2.0, v.step, 1e-9)
}

func TestNearest(t *testing.T) {
	s := &Sampler{keys: []int{33, 45, 60}}
	assert.Equal(t, 33, s.nearest(20))
	assert.Equal(t, 33, s.nearest(39))
	assert.Equal(t, 45, s.nearest(40))
	assert.Equal(t, 60, s.nearest(60))
	assert.Equal(t, 60, s.nearest(100))
}

func TestReadEncodesFloat32(t *testing.T) {
	s := newLoaded(t)
	s.TriggerAttack("A1")

	p := make([]byte, 4*4+3)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(p[4:])))

	n, err = s.Read(make([]byte, 7))
	assert.NoError(t, err)
	assert.Zero(t, n)
}

type recordingSink struct {
	rate, channels int
	read           int
}

func (r *recordingSink) Play(ctx context.Context, src io.Reader, sampleRate, channels int) error {
	r.rate, r.channels = sampleRate, channels
	n, err := src.Read(make([]byte, 64))
	r.read = n
	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func TestStartStreamsToSink(t *testing.T) {
	sink := &recordingSink{}
	s := New(WithSink(sink), WithSampleRate(48000))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 48000, sink.rate)
	assert.Equal(t, 2, sink.channels)
	assert.Equal(t, 64, sink.read)
}

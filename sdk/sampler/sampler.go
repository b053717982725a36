// Package sampler plays pre-recorded notes on trigger, repitching the nearest
// loaded sample for notes that were not recorded.
package sampler

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

var (
	// ErrAlreadyLoaded is returned by Load after the first call.
	ErrAlreadyLoaded = errors.New("sampler already loaded")
	// ErrNoSamples is the failure reason of a Load with an empty sample map.
	ErrNoSamples = errors.New("no samples to load")
)

const channels = 2

// Sampler renders triggered notes as a stereo float32 stream.
// It implements io.Reader so it can feed an audio sink directly.
type Sampler struct {
	options Options
	logger  contracts.Logger

	mu        sync.Mutex
	readiness contracts.Readiness
	buffers   map[int]*contracts.PCM // by MIDI note number
	keys      []int                  // sorted keys of buffers
	voices    map[int]*voice         // sounding voices by MIDI note number
}

var _ contracts.Sampler = (*Sampler)(nil)

// New creates a sampler with the specified options.
func New(opts ...Option) *Sampler {
	o := applyDefaultOptions(opts...)
	return &Sampler{
		options: o,
		logger:  o.Logger.Named("sampler"),
		voices:  make(map[int]*voice),
	}
}

// Load decodes every file of sampleMap in the background. onReady is called
// exactly once, after all files were decoded. When any file fails the sampler
// stays unusable and onReady is never called.
func (s *Sampler) Load(sampleMap map[string]string, onReady func()) error {
	s.mu.Lock()
	if s.readiness.State != contracts.Uninitialized {
		s.mu.Unlock()
		return ErrAlreadyLoaded
	}
	s.readiness = contracts.Readiness{State: contracts.Pending}
	s.mu.Unlock()

	files := make(map[string]string, len(sampleMap))
	for note, ref := range sampleMap {
		files[note] = ref
	}
	go s.load(files, onReady)
	return nil
}

func (s *Sampler) load(files map[string]string, onReady func()) {
	buffers, err := s.decodeAll(files)
	if err != nil {
		s.mu.Lock()
		s.readiness = contracts.Readiness{State: contracts.Failed, Reason: err}
		s.mu.Unlock()
		s.logger.Error("Failed to load samples", s.logger.Field().Error("error", err))
		return
	}

	keys := make([]int, 0, len(buffers))
	for k := range buffers {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	s.mu.Lock()
	s.buffers = buffers
	s.keys = keys
	s.readiness = contracts.Readiness{State: contracts.Ready}
	s.mu.Unlock()

	s.logger.Info("Samples loaded", s.logger.Field().Int("count", len(buffers)))
	if onReady != nil {
		onReady()
	}
}

func (s *Sampler) decodeAll(files map[string]string) (map[int]*contracts.PCM, error) {
	if len(files) == 0 {
		return nil, ErrNoSamples
	}
	buffers := make(map[int]*contracts.PCM, len(files))
	for note, ref := range files {
		midi, err := ParseNote(note)
		if err != nil {
			return nil, err
		}
		pcm, err := s.decode(ref)
		if err != nil {
			return nil, fmt.Errorf("decoding %s (%s): %w", ref, note, err)
		}
		if pcm.SampleRate <= 0 || pcm.Frames() < 2 {
			return nil, fmt.Errorf("decoding %s (%s): empty sample", ref, note)
		}
		buffers[midi] = pcm
		s.logger.Debug("Sample decoded",
			s.logger.Field().String("note", note),
			s.logger.Field().Int("frames", pcm.Frames()),
			s.logger.Field().Int("sampleRate", pcm.SampleRate))
	}
	return buffers, nil
}

func (s *Sampler) decode(ref string) (*contracts.PCM, error) {
	f, err := s.options.Files.Open(ref)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.options.Decoder.Decode(f)
}

// Readiness returns the load state of the sampler.
func (s *Sampler) Readiness() contracts.Readiness {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readiness
}

// TriggerAttack starts note from the beginning of its sample. It does nothing
// before the samples are loaded or when note is not a valid note name.
func (s *Sampler) TriggerAttack(note string) {
	midi, err := ParseNote(note)
	if err != nil {
		s.logger.Debug("Ignoring attack", s.logger.Field().Error("error", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.readiness.IsReady() {
		s.logger.Debug("Ignoring attack before samples are loaded", s.logger.Field().String("note", note))
		return
	}
	base := s.nearest(midi)
	s.voices[midi] = newVoice(s.buffers[base], midi-base, s.options.SampleRate)
}

// TriggerRelease fades note out over the release time.
func (s *Sampler) TriggerRelease(note string) {
	midi, err := ParseNote(note)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voices[midi]
	if !ok || v.releasing {
		return
	}
	v.release(int(s.options.Release.Seconds() * float64(s.options.SampleRate)))
}

// nearest returns the loaded note closest to midi, the lower one on ties.
func (s *Sampler) nearest(midi int) int {
	i := sort.SearchInts(s.keys, midi)
	switch {
	case i == len(s.keys):
		return s.keys[i-1]
	case s.keys[i] == midi || i == 0:
		return s.keys[i]
	case midi-s.keys[i-1] <= s.keys[i]-midi:
		return s.keys[i-1]
	}
	return s.keys[i]
}

// Render mixes the sounding voices into out as interleaved stereo frames.
// Finished voices are dropped.
func (s *Sampler) Render(out []float32) {
	for i := range out {
		out[i] = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for midi, v := range s.voices {
		for i := 0; i+1 < len(out); i += channels {
			l, r, ok := v.next()
			if !ok {
				delete(s.voices, midi)
				break
			}
			out[i] += l
			out[i+1] += r
		}
	}
}

// Sounding returns the number of voices still producing sound.
func (s *Sampler) Sounding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// Read fills p with float32 little-endian stereo frames. It never blocks and
// produces silence when no note sounds.
func (s *Sampler) Read(p []byte) (int, error) {
	frames := len(p) / (4 * channels)
	if frames == 0 {
		return 0, nil
	}
	buf := make([]float32, frames*channels)
	s.Render(buf)
	for i, f := range buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(f))
	}
	return len(buf) * 4, nil
}

// Start streams the sampler to the audio sink until ctx is done.
func (s *Sampler) Start(ctx context.Context) error {
	s.logger.Info("Starting audio output", s.logger.Field().Int("sampleRate", s.options.SampleRate))
	if err := s.options.Sink.Play(ctx, s, s.options.SampleRate, channels); err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	return nil
}

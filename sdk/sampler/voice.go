package sampler

import (
	"math"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// voice plays one buffer from its start, repitched by step source frames per
// output frame.
type voice struct {
	buf       *contracts.PCM
	pos       float64
	step      float64
	gain      float32
	fade      float32 // gain removed per frame once released
	releasing bool
}

func newVoice(buf *contracts.PCM, semitones int, outRate int) *voice {
	return &voice{
		buf:  buf,
		step: float64(buf.SampleRate) / float64(outRate) * math.Pow(2, float64(semitones)/12),
		gain: 1,
	}
}

func (v *voice) release(frames int) {
	v.releasing = true
	if frames <= 0 {
		v.gain = 0
		return
	}
	v.fade = v.gain / float32(frames)
}

// next returns the next stereo frame, false once the voice is silent for good.
func (v *voice) next() (float32, float32, bool) {
	i := int(v.pos)
	if v.gain <= 0 || i+1 >= v.buf.Frames() {
		return 0, 0, false
	}
	frac := float32(v.pos - float64(i))
	s := v.buf.Samples
	l := s[2*i] + (s[2*i+2]-s[2*i])*frac
	r := s[2*i+1] + (s[2*i+3]-s[2*i+1])*frac

	l, r = l*v.gain, r*v.gain
	v.pos += v.step
	if v.releasing {
		v.gain -= v.fade
	}
	return l, r, true
}

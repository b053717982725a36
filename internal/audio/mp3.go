// Package audio decodes sample files and plays rendered audio on the default device.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/leandrodaf/pianomidi/sdk/contracts"
)

// MP3Decoder decodes MP3 files to stereo float32 PCM.
type MP3Decoder struct{}

// Decode reads the whole stream. go-mp3 always yields 16-bit little-endian stereo.
func (MP3Decoder) Decode(r io.Reader) (*contracts.PCM, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}
	return &contracts.PCM{
		SampleRate: d.SampleRate(),
		Samples:    int16ToFloat(raw),
	}, nil
}

func int16ToFloat(raw []byte) []float32 {
	out := make([]float32, len(raw)/2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / 32768
	}
	return out
}

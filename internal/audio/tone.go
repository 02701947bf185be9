package audio

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	sampleRate = 22050
	bitDepth   = 16
	// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
	wavFormatPCM = 1
)

type segment struct {
	freq     float64
	duration float64
	square   bool
}

var toneSegments = map[Tone][]segment{
	ToneClick:   {{freq: 1800, duration: 0.015}},
	ToneCorrect: {{freq: 880, duration: 0.08}, {freq: 1320, duration: 0.12}},
	ToneWrong:   {{freq: 196, duration: 0.22, square: true}},
}

// synthesize renders a tone as 16-bit mono samples.
func synthesize(tone Tone) []int {
	var samples []int
	for _, seg := range toneSegments[tone] {
		samples = append(samples, renderSegment(seg)...)
	}
	return samples
}

func renderSegment(seg segment) []int {
	n := int(seg.duration * sampleRate)
	out := make([]int, n)
	for i := range out {
		t := float64(i) / sampleRate
		v := math.Sin(2 * math.Pi * seg.freq * t)
		if seg.square {
			if v >= 0 {
				v = 0.6
			} else {
				v = -0.6
			}
		}
		// Linear fade-out avoids a pop at the end of each segment.
		env := 1 - float64(i)/float64(n)
		out[i] = int(v * env * 0.5 * math.MaxInt16)
	}
	return out
}

// writeWAV encodes a tone as a PCM WAV file.
func writeWAV(w io.WriteSeeker, tone Tone) error {
	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           synthesize(tone),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode %s tone: %w", tone, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish %s tone: %w", tone, err)
	}
	return nil
}

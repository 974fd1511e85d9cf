// Package engine provides sample sources for the playback driver.
package engine

import (
	"math"
	"sync/atomic"
)

// ToneGenerator produces a fixed-frequency sine wave as interleaved
// 16-bit stereo frames. It implements the driver's Mixer contract: the
// driver serializes MixFrames against other callers with its lock, so
// the generator itself keeps no mutex around the phase state.
type ToneGenerator struct {
	sampleRate int
	frequency  float64
	amplitude  float64

	phase       float64
	framesMixed atomic.Int64
}

// NewToneGenerator creates a sine source. Amplitude is linear in
// [0, 1] relative to full scale.
func NewToneGenerator(sampleRate int, frequency, amplitude float64) *ToneGenerator {
	return &ToneGenerator{
		sampleRate: sampleRate,
		frequency:  frequency,
		amplitude:  amplitude,
	}
}

// MixFrames fills out with the next frames of the tone. The channel
// count is derived from the buffer shape; every channel carries the
// same signal.
func (g *ToneGenerator) MixFrames(frames int, out []int16) {
	if frames <= 0 || len(out) == 0 {
		return
	}

	channels := len(out) / frames
	step := 2 * math.Pi * g.frequency / float64(g.sampleRate)

	idx := 0
	for i := 0; i < frames; i++ {
		sample := int16(g.amplitude * math.Sin(g.phase) * math.MaxInt16)
		g.phase += step
		if g.phase >= 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
		for c := 0; c < channels; c++ {
			out[idx] = sample
			idx++
		}
	}

	g.framesMixed.Add(int64(frames))
}

// FramesMixed returns the total number of frames produced so far.
func (g *ToneGenerator) FramesMixed() int64 {
	return g.framesMixed.Load()
}

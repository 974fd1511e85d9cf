package engine

import (
	"math"
	"testing"
)

func TestToneGeneratorFillsWholeBuffer(t *testing.T) {
	gen := NewToneGenerator(44100, 440, 0.5)

	out := make([]int16, 1024*2)
	gen.MixFrames(1024, out)

	nonZero := 0
	for _, s := range out {
		if s != 0 {
			nonZero++
		}
	}
	if nonZero < len(out)/2 {
		t.Errorf("Expected a mostly non-silent buffer, got %d non-zero of %d", nonZero, len(out))
	}

	if gen.FramesMixed() != 1024 {
		t.Errorf("Expected 1024 frames mixed, got %d", gen.FramesMixed())
	}
}

func TestToneGeneratorStereoInterleaving(t *testing.T) {
	gen := NewToneGenerator(44100, 440, 0.5)

	out := make([]int16, 512*2)
	gen.MixFrames(512, out)

	for i := 0; i < len(out); i += 2 {
		if out[i] != out[i+1] {
			t.Fatalf("Expected identical left/right samples at frame %d, got %d and %d",
				i/2, out[i], out[i+1])
		}
	}
}

func TestToneGeneratorAmplitude(t *testing.T) {
	gen := NewToneGenerator(48000, 1000, 0.25)

	// A full second so the wave reaches its crest many times
	out := make([]int16, 48000*2)
	gen.MixFrames(48000, out)

	var peak int16
	for _, s := range out {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}

	amplitude := 0.25
	want := int16(amplitude * math.MaxInt16)
	if peak > want {
		t.Errorf("Peak %d exceeds requested amplitude %d", peak, want)
	}
	if peak < want-(want/10) {
		t.Errorf("Peak %d well below requested amplitude %d", peak, want)
	}
}

func TestToneGeneratorPhaseContinuity(t *testing.T) {
	a := NewToneGenerator(44100, 440, 0.5)
	b := NewToneGenerator(44100, 440, 0.5)

	// One large fill must equal two consecutive small fills
	whole := make([]int16, 2048*2)
	a.MixFrames(2048, whole)

	split := make([]int16, 2048*2)
	b.MixFrames(1024, split[:1024*2])
	b.MixFrames(1024, split[1024*2:])

	for i := range whole {
		if whole[i] != split[i] {
			t.Fatalf("Discontinuity at sample %d: %d vs %d", i, whole[i], split[i])
		}
	}
}

func TestToneGeneratorEmptyFill(t *testing.T) {
	gen := NewToneGenerator(44100, 440, 0.5)

	gen.MixFrames(0, nil)

	if gen.FramesMixed() != 0 {
		t.Errorf("Expected no frames mixed, got %d", gen.FramesMixed())
	}
}

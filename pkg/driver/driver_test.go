package driver

import "testing"

func TestClosestPowerOfTwo(t *testing.T) {
	cases := []struct {
		name      string
		latencyMS int
		mixRate   int
		want      int
	}{
		{"15ms at 44100", 15, 44100, 512},
		{"50ms at 44100", 50, 44100, 2048},
		{"100ms at 44100", 100, 44100, 4096},
		{"15ms at 48000", 15, 48000, 512},
		{"50ms at 48000", 50, 48000, 2048},
		{"100ms at 48000", 100, 48000, 4096},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frames := closestPowerOfTwo(tc.latencyMS * tc.mixRate / 1000)
			if frames != tc.want {
				t.Errorf("Expected %d buffer frames, got %d", tc.want, frames)
			}
		})
	}

	t.Run("Exact Power Of Two", func(t *testing.T) {
		if got := closestPowerOfTwo(2048); got != 2048 {
			t.Errorf("Expected 2048, got %d", got)
		}
	})

	t.Run("Equidistant Rounds Up", func(t *testing.T) {
		if got := closestPowerOfTwo(3); got != 4 {
			t.Errorf("Expected 4, got %d", got)
		}
	})

	t.Run("Tiny Values", func(t *testing.T) {
		for _, v := range []int{0, 1} {
			if got := closestPowerOfTwo(v); got != 1 {
				t.Errorf("closestPowerOfTwo(%d): expected 1, got %d", v, got)
			}
		}
	})
}

func TestSpeakerModeString(t *testing.T) {
	if SpeakerModeStereo.String() != "stereo" {
		t.Errorf("Expected \"stereo\", got %q", SpeakerModeStereo.String())
	}
	if SpeakerMode(99).String() != "unknown" {
		t.Errorf("Expected \"unknown\", got %q", SpeakerMode(99).String())
	}
}

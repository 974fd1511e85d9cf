// Package driver bridges a mixing engine to a PCM playback device.
//
// A Driver owns one opened playback sink and one worker goroutine that
// periodically pulls mixed frames from the engine and pushes them to the
// device. Format negotiation is rigid: the device must accept exactly
// 16-bit signed native-endian stereo at (close to) the requested rate,
// or initialization fails.
package driver

import "errors"

// Sentinel errors surfaced by Init. All failures happen at
// initialization; there is no runtime error channel.
var (
	// ErrCantOpenDevice means the playback sink could not be opened
	// (missing, busy, or permission denied). No retry, no fallback.
	ErrCantOpenDevice = errors.New("cannot open audio device")

	// ErrInvalidParameter means the device refused or altered the
	// requested sample format, channel count, or sample rate beyond
	// tolerance.
	ErrInvalidParameter = errors.New("invalid audio parameter")
)

// SpeakerMode identifies the output channel layout.
type SpeakerMode int

const (
	SpeakerModeStereo SpeakerMode = iota
)

// String returns string representation of the speaker mode
func (m SpeakerMode) String() string {
	switch m {
	case SpeakerModeStereo:
		return "stereo"
	default:
		return "unknown"
	}
}

// Mixer is the engine-side producer. MixFrames must fully populate out
// (frames interleaved frames, len(out) = frames * channels) before
// returning; partial fills are not supported. It is invoked from the
// driver's worker goroutine while the driver lock is held.
type Mixer interface {
	MixFrames(frames int, out []int16)
}

// Driver is the engine-facing contract of an audio output backend.
type Driver interface {
	Name() string

	// Init opens and negotiates the device and spawns the worker. The
	// worker produces no audio until Start is called.
	Init() error

	// Start enables playback. Idempotent.
	Start()

	// GetMixRate returns the sample rate negotiated at Init. It may
	// differ from the requested rate; callers must query it rather
	// than assume the requested value.
	GetMixRate() int

	GetSpeakerMode() SpeakerMode

	// Lock and Unlock expose the driver's mutex to callers that mutate
	// mixer-visible state outside the worker's fill step. Safe no-ops
	// before Init and after Finish.
	Lock()
	Unlock()

	// Finish stops the worker, releases the playback buffer and closes
	// the device. A second call is a no-op.
	Finish()
}

// closestPowerOfTwo returns the power of two nearest to v, preferring
// the larger one when equidistant.
func closestPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	next := 1
	for next < v {
		next <<= 1
	}
	prev := next >> 1
	if next-v > v-prev {
		return prev
	}
	return next
}

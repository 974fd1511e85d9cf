// Package audio provides measurement helpers for the playback path.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/osspcm/ossplay/pkg/driver"
)

// Levels is a snapshot of output loudness.
type Levels struct {
	Timestamp int64   `json:"timestamp"`
	RMS       float32 `json:"rms"`      // RMS level in dBFS
	Peak      float32 `json:"peak"`     // Peak level in dBFS
	Clipping  bool    `json:"clipping"` // True if clipping detected
}

// Spectrum is a magnitude spectrum of the most recent output window.
type Spectrum struct {
	Timestamp  int64     `json:"timestamp"`
	SampleRate int       `json:"sample_rate"`
	Magnitudes []float32 `json:"magnitudes"` // dB per bin
	FreqStep   float32   `json:"freq_step"`  // Frequency per bin in Hz
}

const silenceFloorDB = -100.0

// PlaybackMonitor measures the frames handed to the device: RMS, peak
// and clipping per fill, plus a Hann-windowed FFT over the newest
// fftSize samples.
type PlaybackMonitor struct {
	mu sync.RWMutex

	sampleRate int
	fftSize    int

	currentRMS  float32
	currentPeak float32
	isClipping  bool
	clipCount   int64
	sampleCount int64

	buffer       []int16
	hann         []float64
	spectrum     []float32
	spectrumTime time.Time
}

// NewPlaybackMonitor creates a monitor. fftSize must be a power of two.
func NewPlaybackMonitor(sampleRate, fftSize int) *PlaybackMonitor {
	return &PlaybackMonitor{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		hann:       window.Hann(fftSize),
		spectrum:   make([]float32, fftSize/2),
	}
}

// Process ingests one buffer of interleaved output samples.
func (m *PlaybackMonitor) Process(samples []int16) {
	if len(samples) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.measureLevels(samples)

	m.buffer = append(m.buffer, samples...)
	if len(m.buffer) >= m.fftSize {
		m.measureSpectrum()
		// Keep only the newest samples
		if len(m.buffer) > m.fftSize {
			copy(m.buffer, m.buffer[len(m.buffer)-m.fftSize:])
			m.buffer = m.buffer[:m.fftSize]
		}
	}

	m.sampleCount += int64(len(samples))
}

func (m *PlaybackMonitor) measureLevels(samples []int16) {
	var sumSquares float64
	var peak int16
	clipping := false

	for _, sample := range samples {
		if sample < 0 {
			sample = -sample
		}
		if sample > peak {
			peak = sample
		}
		if sample >= 32000 { // ~98% of full scale
			clipping = true
			m.clipCount++
		}
		sumSquares += float64(sample) * float64(sample)
	}

	rms := math.Sqrt(sumSquares / float64(len(samples)))
	if rms > 0 {
		m.currentRMS = float32(20.0 * math.Log10(rms/32768.0))
	} else {
		m.currentRMS = silenceFloorDB
	}

	if peak > 0 {
		m.currentPeak = float32(20.0 * math.Log10(float64(peak)/32768.0))
	} else {
		m.currentPeak = silenceFloorDB
	}

	m.isClipping = clipping
}

func (m *PlaybackMonitor) measureSpectrum() {
	windowed := make([]float64, m.fftSize)
	for i := 0; i < m.fftSize; i++ {
		windowed[i] = float64(m.buffer[i]) / 32768.0 * m.hann[i]
	}

	bins := fft.FFTReal(windowed)

	for i := 0; i < len(m.spectrum); i++ {
		magnitude := math.Hypot(real(bins[i]), imag(bins[i]))
		if magnitude > 0 {
			m.spectrum[i] = float32(20.0 * math.Log10(magnitude))
		} else {
			m.spectrum[i] = silenceFloorDB
		}
	}

	m.spectrumTime = time.Now()
}

// CurrentLevels returns the levels of the most recent buffer.
func (m *PlaybackMonitor) CurrentLevels() Levels {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Levels{
		Timestamp: time.Now().UnixMilli(),
		RMS:       m.currentRMS,
		Peak:      m.currentPeak,
		Clipping:  m.isClipping,
	}
}

// CurrentSpectrum returns the most recent spectrum measurement.
func (m *PlaybackMonitor) CurrentSpectrum() Spectrum {
	m.mu.RLock()
	defer m.mu.RUnlock()

	magnitudes := make([]float32, len(m.spectrum))
	copy(magnitudes, m.spectrum)

	return Spectrum{
		Timestamp:  m.spectrumTime.UnixMilli(),
		SampleRate: m.sampleRate,
		Magnitudes: magnitudes,
		FreqStep:   float32(m.sampleRate) / float32(m.fftSize),
	}
}

// ClipCount returns the number of clipped samples seen so far.
func (m *PlaybackMonitor) ClipCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clipCount
}

// SampleCount returns the number of samples processed so far.
func (m *PlaybackMonitor) SampleCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sampleCount
}

// Tap wraps a mixer so every buffer it fills also feeds the monitor.
// The monitor work runs on the driver's worker goroutine under the
// driver lock, so it must stay cheap relative to the buffer period.
func Tap(mixer driver.Mixer, monitor *PlaybackMonitor) driver.Mixer {
	return &tapMixer{mixer: mixer, monitor: monitor}
}

type tapMixer struct {
	mixer   driver.Mixer
	monitor *PlaybackMonitor
}

func (t *tapMixer) MixFrames(frames int, out []int16) {
	t.mixer.MixFrames(frames, out)
	t.monitor.Process(out)
}

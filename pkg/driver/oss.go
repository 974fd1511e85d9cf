package driver

import (
	"fmt"
	"sync"
	"time"

	"github.com/osspcm/ossplay/pkg/logging"
)

const (
	// DefaultMixRate is the sample rate requested from the device when
	// the config does not set one.
	DefaultMixRate = 44100

	// DefaultLatencyMS is the default requested output latency.
	DefaultLatencyMS = 15

	// DefaultDevice is the conventional OSS PCM sink.
	DefaultDevice = "/dev/dsp"

	// rateTolerance is the allowable deviation, in Hz, between the
	// requested and the negotiated sample rate.
	rateTolerance = 500

	// writeFailureLimit is the number of consecutive device write
	// failures after which the worker stops producing audio.
	writeFailureLimit = 3

	stereoChannels = 2
)

// OSSConfig configures an OSSDriver. Zero values fall back to the
// package defaults.
type OSSConfig struct {
	Device    string
	MixRate   int
	LatencyMS int

	// OpenDevice and Clock are injection points for tests. Nil selects
	// the real OSS device and the system clock.
	OpenDevice OpenDeviceFunc
	Clock      Clock
}

// OSSDriver drives an OSS PCM playback sink from a dedicated worker
// goroutine. Lifecycle: NewOSSDriver -> Init -> Start -> Finish. There
// is no pause; the only exit from playback is Finish.
type OSSDriver struct {
	config OSSConfig
	mixer  Mixer

	device       Device
	samples      []int16
	bufferFrames int
	mixRate      int
	speakerMode  SpeakerMode
	channels     int
	clock        Clock

	// mu guards mixer-visible state shared with the worker's fill
	// step. Exposed through Lock/Unlock; nil until Init succeeds.
	mu *sync.Mutex

	stateMu      sync.RWMutex
	active       bool
	exitThread   bool
	threadExited bool
	running      bool

	wg sync.WaitGroup
}

// NewOSSDriver creates a driver that pulls frames from mixer. The mixer
// is not invoked until the driver is initialized and started.
func NewOSSDriver(config OSSConfig, mixer Mixer) *OSSDriver {
	if config.Device == "" {
		config.Device = DefaultDevice
	}
	if config.MixRate == 0 {
		config.MixRate = DefaultMixRate
	}
	if config.LatencyMS == 0 {
		config.LatencyMS = DefaultLatencyMS
	}
	if config.OpenDevice == nil {
		config.OpenDevice = OpenOSSDevice
	}
	if config.Clock == nil {
		config.Clock = SystemClock()
	}

	return &OSSDriver{
		config: config,
		mixer:  mixer,
	}
}

// Name returns the backend identifier
func (d *OSSDriver) Name() string {
	return "OSS"
}

// Init sizes and allocates the playback buffer, opens and negotiates
// the device, and spawns the worker goroutine. The worker writes
// silence until Start is called. Any negotiation mismatch aborts
// initialization; there is no degraded-mode fallback.
func (d *OSSDriver) Init() error {
	d.mixRate = d.config.MixRate
	d.speakerMode = SpeakerModeStereo
	d.channels = stereoChannels
	d.clock = d.config.Clock

	d.bufferFrames = closestPowerOfTwo(d.config.LatencyMS * d.mixRate / 1000)
	d.samples = make([]int16, d.bufferFrames*d.channels)

	dev, err := d.config.OpenDevice(d.config.Device)
	if err != nil {
		logging.Errorf("oss", "cannot open %s: %v", d.config.Device, err)
		return fmt.Errorf("%w: %s: %v", ErrCantOpenDevice, d.config.Device, err)
	}

	if err := dev.NegotiateFormat(); err != nil {
		dev.Close()
		logging.Errorf("oss", "device rejected 16-bit sample format: %v", err)
		return fmt.Errorf("%w: sample format: %v", ErrInvalidParameter, err)
	}

	gotChannels, err := dev.NegotiateChannels(d.channels)
	if err != nil {
		dev.Close()
		logging.Errorf("oss", "unable to set channels: %v", err)
		return fmt.Errorf("%w: channels: %v", ErrInvalidParameter, err)
	}
	if gotChannels != d.channels {
		dev.Close()
		logging.Errorf("oss", "got %d channels instead of %d", gotChannels, d.channels)
		return fmt.Errorf("%w: got %d channels instead of %d", ErrInvalidParameter, gotChannels, d.channels)
	}

	gotRate, err := dev.NegotiateRate(d.mixRate)
	if err != nil {
		dev.Close()
		logging.Errorf("oss", "unable to set sample rate: %v", err)
		return fmt.Errorf("%w: sample rate: %v", ErrInvalidParameter, err)
	}
	if diff := gotRate - d.mixRate; diff > rateTolerance || diff < -rateTolerance {
		dev.Close()
		logging.Errorf("oss", "got sample rate %d Hz instead of %d Hz", gotRate, d.mixRate)
		return fmt.Errorf("%w: got sample rate %d instead of %d", ErrInvalidParameter, gotRate, d.mixRate)
	}
	if gotRate != d.mixRate {
		logging.Warnf("oss", "device adjusted sample rate from %d Hz to %d Hz", d.mixRate, gotRate)
	}
	// The negotiated rate is the session mix rate from here on.
	d.mixRate = gotRate

	d.device = dev
	d.mu = &sync.Mutex{}

	d.stateMu.Lock()
	d.active = false
	d.exitThread = false
	d.threadExited = false
	d.running = true
	d.stateMu.Unlock()

	d.wg.Add(1)
	go d.run()

	logging.Infof("oss", "%s: %d Hz %s, %d frame buffer (%d ms requested)",
		d.config.Device, d.mixRate, d.speakerMode, d.bufferFrames, d.config.LatencyMS)

	return nil
}

// run is the worker loop: optional fill, write, sleep. The cadence is
// computed once from the negotiated parameters; the device's own
// blocking write absorbs timing error beyond that.
func (d *OSSDriver) run() {
	defer d.wg.Done()

	period := time.Duration(d.bufferFrames) * time.Second / time.Duration(d.mixRate)

	writeFailures := 0
	dead := false

	for !d.exitRequested() {
		if !dead {
			if d.isActive() && d.mixer != nil {
				d.mu.Lock()
				d.mixer.MixFrames(d.bufferFrames, d.samples)
				d.mu.Unlock()
			}

			if err := d.device.Write(d.samples); err != nil {
				writeFailures++
				logging.Errorf("oss", "device write failed (%d consecutive): %v", writeFailures, err)
				if writeFailures >= writeFailureLimit {
					logging.Errorf("oss", "disabling playback after %d failed writes", writeFailures)
					dead = true
				}
			} else {
				writeFailures = 0
			}
		}

		d.clock.Sleep(period)
	}

	d.stateMu.Lock()
	d.threadExited = true
	d.stateMu.Unlock()
}

// Start enables playback. Idempotent; does not touch the device or the
// buffer itself.
func (d *OSSDriver) Start() {
	d.stateMu.Lock()
	d.active = true
	d.stateMu.Unlock()
}

// GetMixRate returns the sample rate fixed at successful Init.
func (d *OSSDriver) GetMixRate() int {
	return d.mixRate
}

// GetSpeakerMode returns the channel layout fixed at successful Init.
func (d *OSSDriver) GetSpeakerMode() SpeakerMode {
	return d.speakerMode
}

// Lock serializes external mutation of mixer-visible state against the
// worker's fill step. No-op if the driver was never initialized.
func (d *OSSDriver) Lock() {
	if d.mu == nil {
		return
	}
	d.mu.Lock()
}

// Unlock releases the driver lock. No-op if the driver was never
// initialized.
func (d *OSSDriver) Unlock() {
	if d.mu == nil {
		return
	}
	d.mu.Unlock()
}

// Finish signals the worker to exit, waits for it to acknowledge,
// releases the playback buffer and closes the device. Pending buffered
// audio is not drained. Safe to call again afterwards.
func (d *OSSDriver) Finish() {
	d.stateMu.Lock()
	if !d.running {
		d.stateMu.Unlock()
		return
	}
	d.exitThread = true
	d.stateMu.Unlock()

	d.wg.Wait()

	d.samples = nil

	if d.device != nil {
		if err := d.device.Close(); err != nil {
			logging.Warnf("oss", "closing device: %v", err)
		}
		d.device = nil
	}

	d.mu = nil

	d.stateMu.Lock()
	d.active = false
	d.running = false
	d.stateMu.Unlock()

	logging.Info("oss", "playback stopped")
}

func (d *OSSDriver) isActive() bool {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()
	return d.active
}

func (d *OSSDriver) exitRequested() bool {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()
	return d.exitThread
}

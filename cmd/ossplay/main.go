package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osspcm/ossplay/pkg/audio"
	"github.com/osspcm/ossplay/pkg/config"
	"github.com/osspcm/ossplay/pkg/driver"
	"github.com/osspcm/ossplay/pkg/engine"
	"github.com/osspcm/ossplay/pkg/logging"
)

var (
	configPath = flag.String("config", "ossplay.yaml", "Configuration file path")
	version    = flag.Bool("version", false, "Show version information")
)

const (
	Version = "0.1.0-dev"
	Build   = "development"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("ossplay version %s (%s)\n", Version, Build)
		os.Exit(0)
	}

	// Load configuration, falling back to defaults when the default
	// config file is absent
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || isFlagSet("config") {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = config.Default()
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logging.InitGlobalLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseGlobalLogger()

	logging.Infof("main", "ossplay version %s starting...", Version)
	logging.Infof("main", "Output device: %s (%d Hz, %d ms latency)",
		cfg.Audio.Device, cfg.Audio.SampleRate, cfg.Audio.LatencyMS)

	tone := engine.NewToneGenerator(cfg.Audio.SampleRate, cfg.Tone.Frequency, cfg.Tone.Amplitude)

	var mixer driver.Mixer = tone
	var monitor *audio.PlaybackMonitor
	if cfg.Monitor.Enable {
		monitor = audio.NewPlaybackMonitor(cfg.Audio.SampleRate, cfg.Monitor.FFTSize)
		mixer = audio.Tap(tone, monitor)
	}

	drv := driver.NewOSSDriver(driver.OSSConfig{
		Device:    cfg.Audio.Device,
		MixRate:   cfg.Audio.SampleRate,
		LatencyMS: cfg.Audio.LatencyMS,
	}, mixer)

	if err := drv.Init(); err != nil {
		logging.Errorf("main", "Failed to initialize %s driver: %v", drv.Name(), err)
		os.Exit(1)
	}

	drv.Start()
	logging.Infof("main", "Playing %g Hz tone at %d Hz mix rate", cfg.Tone.Frequency, drv.GetMixRate())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if monitor == nil {
				continue
			}
			levels := monitor.CurrentLevels()
			logging.Infof("monitor", "rms %.1f dBFS, peak %.1f dBFS, %d frames mixed",
				levels.RMS, levels.Peak, tone.FramesMixed())

		case <-sigChan:
			logging.Info("main", "Shutting down...")
			drv.Finish()
			logging.Info("main", "ossplay stopped")
			return
		}
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

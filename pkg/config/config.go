package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the ossplay configuration
type Config struct {
	Audio struct {
		// Device is the OSS PCM sink the driver opens for playback.
		Device string `yaml:"device"`

		// LatencyMS is the requested output latency in milliseconds.
		// The playback buffer is sized to the closest power of two
		// frame count that satisfies it at the configured sample rate.
		LatencyMS int `yaml:"latency_ms"`

		SampleRate int `yaml:"sample_rate"`
	} `yaml:"audio"`

	Tone struct {
		Frequency float64 `yaml:"frequency"`
		Amplitude float64 `yaml:"amplitude"`
	} `yaml:"tone"`

	Monitor struct {
		Enable  bool `yaml:"enable"`
		FFTSize int  `yaml:"fft_size"`
	} `yaml:"monitor"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		Console    bool   `yaml:"console"`
		Structured bool   `yaml:"structured"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

// Default returns a configuration with all defaults applied, for callers
// that run without a config file.
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	if c.Audio.Device == "" {
		c.Audio.Device = "/dev/dsp"
	}
	if c.Audio.LatencyMS == 0 {
		c.Audio.LatencyMS = 15
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Tone.Frequency == 0 {
		c.Tone.Frequency = 440
	}
	if c.Tone.Amplitude == 0 {
		c.Tone.Amplitude = 0.25
	}
	if c.Monitor.FFTSize == 0 {
		c.Monitor.FFTSize = 2048
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSize == 0 {
		c.Logging.MaxSize = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAge == 0 {
		c.Logging.MaxAge = 28
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Audio.LatencyMS < 0 {
		return fmt.Errorf("audio latency_ms must be positive, got %d", c.Audio.LatencyMS)
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("audio sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Tone.Frequency <= 0 {
		return fmt.Errorf("tone frequency must be positive, got %g", c.Tone.Frequency)
	}
	if c.Tone.Amplitude < 0 || c.Tone.Amplitude > 1 {
		return fmt.Errorf("tone amplitude must be in [0, 1], got %g", c.Tone.Amplitude)
	}
	if c.Monitor.Enable && c.Monitor.FFTSize&(c.Monitor.FFTSize-1) != 0 {
		return fmt.Errorf("monitor fft_size must be a power of two, got %d", c.Monitor.FFTSize)
	}
	return nil
}

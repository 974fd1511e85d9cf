package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ossplay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
audio:
  device: /dev/dsp1
  latency_ms: 50
  sample_rate: 48000
tone:
  frequency: 880
  amplitude: 0.5
monitor:
  enable: true
  fft_size: 4096
logging:
  level: debug
  console: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/dsp1", cfg.Audio.Device)
	assert.Equal(t, 50, cfg.Audio.LatencyMS)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, 880.0, cfg.Tone.Frequency)
	assert.Equal(t, 0.5, cfg.Tone.Amplitude)
	assert.True(t, cfg.Monitor.Enable)
	assert.Equal(t, 4096, cfg.Monitor.FFTSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/dsp", cfg.Audio.Device)
	assert.Equal(t, 15, cfg.Audio.LatencyMS)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 440.0, cfg.Tone.Frequency)
	assert.Equal(t, 0.25, cfg.Tone.Amplitude)
	assert.Equal(t, 2048, cfg.Monitor.FFTSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Logging.MaxSize)
	assert.Equal(t, 3, cfg.Logging.MaxBackups)
	assert.Equal(t, 28, cfg.Logging.MaxAge)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "audio: [not a mapping\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "/dev/dsp", cfg.Audio.Device)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"Defaults Valid", func(c *Config) {}, true},
		{"Negative Latency", func(c *Config) { c.Audio.LatencyMS = -1 }, false},
		{"Negative Sample Rate", func(c *Config) { c.Audio.SampleRate = -44100 }, false},
		{"Negative Tone Frequency", func(c *Config) { c.Tone.Frequency = -5 }, false},
		{"Amplitude Above Unity", func(c *Config) { c.Tone.Amplitude = 1.5 }, false},
		{"Non Power Of Two FFT", func(c *Config) {
			c.Monitor.Enable = true
			c.Monitor.FFTSize = 1000
		}, false},
		{"FFT Unchecked When Disabled", func(c *Config) {
			c.Monitor.Enable = false
			c.Monitor.FFTSize = 1000
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

package driver

import (
	"fmt"
	"sync"
	"time"
)

// MockDevice implements Device in memory for testing. Negotiation
// behavior is configured through the exported fields before the device
// is handed to a driver.
type MockDevice struct {
	// RefuseFormat makes NegotiateFormat fail.
	RefuseFormat bool

	// ChannelOverride, when nonzero, is reported as the configured
	// channel count regardless of the request.
	ChannelOverride int

	// RateOffset is added to the requested sample rate in the reply.
	RateOffset int

	// WriteErr, when set, is returned by every Write.
	WriteErr error

	mu     sync.Mutex
	writes [][]int16
	closed bool
}

// NewMockDevice creates a mock device that accepts every request as-is.
func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

// Open is an OpenDeviceFunc returning this mock regardless of path.
func (m *MockDevice) Open(path string) (Device, error) {
	return m, nil
}

func (m *MockDevice) NegotiateFormat() error {
	if m.RefuseFormat {
		return fmt.Errorf("16-bit signed not supported")
	}
	return nil
}

func (m *MockDevice) NegotiateChannels(want int) (int, error) {
	if m.ChannelOverride != 0 {
		return m.ChannelOverride, nil
	}
	return want, nil
}

func (m *MockDevice) NegotiateRate(want int) (int, error) {
	return want + m.RateOffset, nil
}

func (m *MockDevice) Write(samples []int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}

	buf := make([]int16, len(samples))
	copy(buf, samples)
	m.writes = append(m.writes, buf)
	return nil
}

func (m *MockDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// WriteCount returns how many buffers have been written so far.
func (m *MockDevice) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// LastWrite returns a copy of the most recent buffer, or nil.
func (m *MockDevice) LastWrite() []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.writes) == 0 {
		return nil
	}
	last := m.writes[len(m.writes)-1]
	buf := make([]int16, len(last))
	copy(buf, last)
	return buf
}

// Closed reports whether Close has been called.
func (m *MockDevice) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// FakeClock replaces the worker's pacing delay with a short fixed yield
// so cycles run quickly in tests while the requested delay stays
// observable.
type FakeClock struct {
	mu     sync.Mutex
	sleeps int
	last   time.Duration
}

func (c *FakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.sleeps++
	c.last = d
	c.mu.Unlock()

	time.Sleep(time.Millisecond)
}

// Sleeps returns how many worker cycles have completed a delay.
func (c *FakeClock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}

// LastDelay returns the most recently requested delay.
func (c *FakeClock) LastDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

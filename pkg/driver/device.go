package driver

// Device is an opened PCM playback sink. The negotiation methods mirror
// the OSS ioctl handshake: the caller states what it wants and the
// device reports what it actually configured; validating the reply is
// the driver's job.
type Device interface {
	// NegotiateFormat requests 16-bit signed native-endian samples and
	// fails if the device cannot honor exactly that.
	NegotiateFormat() error

	// NegotiateChannels requests an interleaved channel count and
	// returns the count the device configured.
	NegotiateChannels(want int) (int, error)

	// NegotiateRate requests a sample rate in Hz and returns the rate
	// the device configured.
	NegotiateRate(want int) (int, error)

	// Write pushes one buffer of interleaved samples. It may block
	// until the device's internal queue has room.
	Write(samples []int16) error

	Close() error
}

// OpenDeviceFunc opens the playback sink at the given path.
type OpenDeviceFunc func(path string) (Device, error)

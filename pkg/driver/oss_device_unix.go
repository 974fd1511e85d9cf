//go:build linux || freebsd

package driver

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// OSS ioctl requests and sample formats, from <sys/soundcard.h>.
const (
	sndctlDSPSetFmt   = 0xC0045005
	sndctlDSPChannels = 0xC0045006
	sndctlDSPSpeed    = 0xC0045002

	afmtS16LE = 0x00000010
	afmtS16BE = 0x00000020
)

// afmtS16NE resolves AFMT_S16_NE for the running machine.
func afmtS16NE() uint32 {
	probe := uint32(0x01020304)
	if (*[4]byte)(unsafe.Pointer(&probe))[0] == 0x04 {
		return afmtS16LE
	}
	return afmtS16BE
}

// ossDevice wraps an OSS character device such as /dev/dsp.
type ossDevice struct {
	file *os.File
}

// OpenOSSDevice opens the OSS PCM sink at path in write-only mode.
func OpenOSSDevice(path string) (Device, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return &ossDevice{file: f}, nil
}

func (d *ossDevice) ioctl(req uintptr, val *uint32) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), req, uintptr(unsafe.Pointer(val)))
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *ossDevice) NegotiateFormat() error {
	want := afmtS16NE()
	got := want
	if err := d.ioctl(sndctlDSPSetFmt, &got); err != nil {
		return fmt.Errorf("SNDCTL_DSP_SETFMT: %w", err)
	}
	if got != want {
		return fmt.Errorf("device offered sample format %#x instead of %#x", got, want)
	}
	return nil
}

func (d *ossDevice) NegotiateChannels(want int) (int, error) {
	val := uint32(want)
	if err := d.ioctl(sndctlDSPChannels, &val); err != nil {
		return 0, fmt.Errorf("SNDCTL_DSP_CHANNELS: %w", err)
	}
	return int(val), nil
}

func (d *ossDevice) NegotiateRate(want int) (int, error) {
	val := uint32(want)
	if err := d.ioctl(sndctlDSPSpeed, &val); err != nil {
		return 0, fmt.Errorf("SNDCTL_DSP_SPEED: %w", err)
	}
	return int(val), nil
}

// Write pushes interleaved native-endian samples to the device. The
// write blocks while the device's internal queue is full, which paces
// the caller.
func (d *ossDevice) Write(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	for len(buf) > 0 {
		n, err := d.file.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

func (d *ossDevice) Close() error {
	return d.file.Close()
}

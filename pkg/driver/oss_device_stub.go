//go:build !linux && !freebsd

package driver

import "errors"

// OpenOSSDevice fails on platforms without OSS; Init reports the usual
// open error and the driver stays unusable.
func OpenOSSDevice(path string) (Device, error) {
	return nil, errors.New("OSS playback is not supported on this platform")
}

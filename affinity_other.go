//go:build !linux

package mapstress

import "errors"

var errPinUnsupported = errors.New("mapstress: thread pinning is not supported on this platform")

func pinToCPU(int) error {
	return errPinUnsupported
}

//go:build !linux

package host

import "runtime"

// Pin locks the calling goroutine to its OS thread. Restricting the thread to a
// CPU is only supported on Linux; any cpu >= 0 fails with ErrPinUnsupported.
func Pin(cpu int) (func(), error) {
	if cpu >= 0 {
		return nil, ErrPinUnsupported
	}
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}

func kernelRelease() string { return "" }

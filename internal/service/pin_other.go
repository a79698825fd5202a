//go:build !linux

package service

import "errors"

const pinSupported = false

func allowedCPUs() ([]int, error) {
	return nil, errors.New("cpu affinity is not available on this platform")
}

func pinToCPU(int) error { return nil }

//go:build !linux

package jobswarm

func PinToCPU(int) error {
	return ErrPinUnsupported
}

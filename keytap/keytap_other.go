//go:build !darwin && !windows && !linux

package keytap

const fnSupported = false

func lookupCodes(token string) ([]uint16, bool) {
	return nil, false
}

func installTap(spec Spec) (func(), error) {
	return nil, ErrUnsupported
}

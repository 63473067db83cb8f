//go:build !darwin && !windows && !linux

package platform

import (
	"fmt"
	"time"

	"whisperkey/keytap"
	"whisperkey/recorder"
)

var current Capabilities = unsupportedCaps{}

type unsupportedCaps struct{}

func (unsupportedCaps) Name() string { return "unsupported" }

func (unsupportedCaps) PermissionGranted() bool { return false }

func (unsupportedCaps) RequestPermission() bool { return false }

func (unsupportedCaps) StartKeyListener(keytap.Spec, keytap.Callback) (*keytap.Listener, error) {
	return nil, fmt.Errorf("%w: global key listening", ErrUnsupported)
}

func (unsupportedCaps) InjectText(string, time.Duration) error {
	return fmt.Errorf("%w: text injection", ErrUnsupported)
}

func (unsupportedCaps) StartAudioCapture(float32) (*recorder.Session, error) {
	return nil, fmt.Errorf("%w: audio capture", ErrUnsupported)
}

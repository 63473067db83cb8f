//go:build windows

package platform

import (
	"time"

	"whisperkey/autotype"
	"whisperkey/keytap"
	"whisperkey/recorder"
)

var current Capabilities = windowsCaps{}

// windowsCaps needs no consent flow: low-level hooks and SendInput are
// available to any interactive process.
type windowsCaps struct{}

func (windowsCaps) Name() string { return "windows" }

func (windowsCaps) PermissionGranted() bool { return true }

func (windowsCaps) RequestPermission() bool { return true }

func (windowsCaps) StartKeyListener(spec keytap.Spec, cb keytap.Callback) (*keytap.Listener, error) {
	return keytap.Start(spec, cb)
}

func (windowsCaps) InjectText(text string, perChunkDelay time.Duration) error {
	return autotype.Type(text, perChunkDelay)
}

func (windowsCaps) StartAudioCapture(gain float32) (*recorder.Session, error) {
	return recorder.Start(gain)
}

//go:build linux

package platform

import (
	"time"

	"whisperkey/autotype"
	"whisperkey/keytap"
	"whisperkey/recorder"
)

var current Capabilities = linuxCaps{}

// linuxCaps supports key listening and capture under X11. Text
// injection is not implemented; the transcript still lands in history.
type linuxCaps struct{}

func (linuxCaps) Name() string { return "linux" }

func (linuxCaps) PermissionGranted() bool { return true }

func (linuxCaps) RequestPermission() bool { return true }

func (linuxCaps) StartKeyListener(spec keytap.Spec, cb keytap.Callback) (*keytap.Listener, error) {
	return keytap.Start(spec, cb)
}

func (linuxCaps) InjectText(text string, perChunkDelay time.Duration) error {
	return autotype.Type(text, perChunkDelay)
}

func (linuxCaps) StartAudioCapture(gain float32) (*recorder.Session, error) {
	return recorder.Start(gain)
}

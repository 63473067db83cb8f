// Package platform is the single entry point to OS-level primitives:
// permission state, the global key listener, synthetic text input and
// microphone capture.
package platform

import (
	"errors"
	"time"

	"whisperkey/keytap"
	"whisperkey/recorder"
)

// ErrUnsupported is returned by operations that have no implementation
// on this build's OS.
var ErrUnsupported = errors.New("platform: not supported on this OS")

// Capabilities bundles the OS-specific operations the app needs. One
// implementation exists per supported OS, selected at compile time.
type Capabilities interface {
	// Name is the OS name, as in runtime.GOOS.
	Name() string

	// PermissionGranted reports whether the OS currently allows
	// global key listening and synthetic input. Never blocks and
	// never prompts.
	PermissionGranted() bool

	// RequestPermission may show the OS consent prompt and reports
	// the grant state afterwards. Some OSes only apply a fresh grant
	// on the next launch; that surfaces as a false return, not an
	// error.
	RequestPermission() bool

	// StartKeyListener installs the global trigger-key listener.
	StartKeyListener(spec keytap.Spec, cb keytap.Callback) (*keytap.Listener, error)

	// InjectText types text into the focused application.
	InjectText(text string, perChunkDelay time.Duration) error

	// StartAudioCapture begins recording from the default microphone.
	StartAudioCapture(gain float32) (*recorder.Session, error)
}

// Current returns the Capabilities for this build's OS.
func Current() Capabilities {
	return current
}

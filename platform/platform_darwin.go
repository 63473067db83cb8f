//go:build darwin

package platform

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation

#include <ApplicationServices/ApplicationServices.h>

static int axTrusted(void) {
	return AXIsProcessTrusted() ? 1 : 0;
}

static int axRequestTrust(void) {
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { kCFBooleanTrue };
	CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
		&kCFDictionaryKeyCallBacks, &kCFDictionaryValueCallBacks);
	Boolean trusted = AXIsProcessTrustedWithOptions(options);
	if (options != NULL) {
		CFRelease(options);
	}
	return trusted ? 1 : 0;
}
*/
import "C"

import (
	"time"

	"whisperkey/autotype"
	"whisperkey/keytap"
	"whisperkey/recorder"
)

var current Capabilities = darwinCaps{}

// darwinCaps gates key listening and text injection on the
// Accessibility (TCC) grant. macOS caches the decision per launch: a
// grant given while the app is running takes effect after a relaunch.
type darwinCaps struct{}

func (darwinCaps) Name() string { return "darwin" }

func (darwinCaps) PermissionGranted() bool {
	return C.axTrusted() == 1
}

func (darwinCaps) RequestPermission() bool {
	return C.axRequestTrust() == 1
}

func (darwinCaps) StartKeyListener(spec keytap.Spec, cb keytap.Callback) (*keytap.Listener, error) {
	return keytap.Start(spec, cb)
}

func (darwinCaps) InjectText(text string, perChunkDelay time.Duration) error {
	return autotype.Type(text, perChunkDelay)
}

func (darwinCaps) StartAudioCapture(gain float32) (*recorder.Session, error) {
	return recorder.Start(gain)
}

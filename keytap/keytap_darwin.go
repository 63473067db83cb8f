//go:build darwin

package keytap

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation

#include <ApplicationServices/ApplicationServices.h>
#include <pthread.h>
#include <unistd.h>

extern void goKeyTapEvent(unsigned int type, unsigned long long flags, long long keycode);

static CFMachPortRef eventTap = NULL;
static CFRunLoopSourceRef runLoopSource = NULL;
static CFRunLoopRef tapRunLoop = NULL;
static pthread_t tapThread;
static volatile int tapRunning = 0;

static CGEventRef tapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon) {
	(void)proxy;
	(void)refcon;
	if (type == kCGEventTapDisabledByTimeout || type == kCGEventTapDisabledByUserInput) {
		// The system disables taps it considers slow. Re-arm.
		if (eventTap != NULL) {
			CGEventTapEnable(eventTap, true);
		}
		return event;
	}
	long long keycode = CGEventGetIntegerValueField(event, kCGKeyboardEventKeycode);
	goKeyTapEvent((unsigned int)type, (unsigned long long)CGEventGetFlags(event), keycode);
	return event;
}

static void *tapLoop(void *arg) {
	(void)arg;
	tapRunLoop = CFRunLoopGetCurrent();
	CFRunLoopAddSource(tapRunLoop, runLoopSource, kCFRunLoopCommonModes);
	CGEventTapEnable(eventTap, true);
	tapRunning = 1;
	CFRunLoopRun();
	// Tear down on the thread that owns the tap.
	CGEventTapEnable(eventTap, false);
	CFRunLoopRemoveSource(tapRunLoop, runLoopSource, kCFRunLoopCommonModes);
	CFRelease(runLoopSource);
	CFRelease(eventTap);
	runLoopSource = NULL;
	eventTap = NULL;
	tapRunLoop = NULL;
	tapRunning = 0;
	return NULL;
}

static int startKeyTap(void) {
	if (eventTap != NULL) {
		return -2;
	}
	CGEventMask mask = CGEventMaskBit(kCGEventFlagsChanged) |
	                   CGEventMaskBit(kCGEventKeyDown) |
	                   CGEventMaskBit(kCGEventKeyUp);
	eventTap = CGEventTapCreate(kCGHIDEventTap, kCGHeadInsertEventTap,
	                            kCGEventTapOptionListenOnly, mask, tapCallback, NULL);
	if (eventTap == NULL) {
		return -1;
	}
	runLoopSource = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, eventTap, 0);
	if (runLoopSource == NULL) {
		CFRelease(eventTap);
		eventTap = NULL;
		return -1;
	}
	if (pthread_create(&tapThread, NULL, tapLoop, NULL) != 0) {
		CFRelease(runLoopSource);
		CFRelease(eventTap);
		runLoopSource = NULL;
		eventTap = NULL;
		return -1;
	}
	for (int i = 0; i < 200 && !tapRunning; i++) {
		usleep(10000);
	}
	return tapRunning ? 0 : -1;
}

static void stopKeyTap(void) {
	if (tapRunLoop != NULL) {
		CFRunLoopStop(tapRunLoop);
	}
	pthread_join(tapThread, NULL);
}
*/
import "C"

import (
	"errors"
	"sync"
)

const fnSupported = true

const (
	cgEventKeyDown      = 10
	cgEventKeyUp        = 11
	cgEventFlagsChanged = 12

	// NX_SECONDARYFNMASK, the Fn/Globe bit in CGEventFlags.
	fnModifierFlag = 0x800000
)

// Carbon virtual key codes for keys that make sensible global triggers.
var namedCodes = map[string][]uint16{
	"f13":          {105},
	"f14":          {107},
	"f15":          {113},
	"f16":          {106},
	"f17":          {64},
	"f18":          {79},
	"f19":          {80},
	"rightalt":     {61},
	"rightoption":  {61},
	"rightctrl":    {62},
	"rightcontrol": {62},
	"rightcmd":     {54},
	"rightcommand": {54},
}

func lookupCodes(token string) ([]uint16, bool) {
	codes, ok := namedCodes[token]
	return codes, ok
}

var (
	tapMu   sync.Mutex
	tapSpec Spec
	tapDown bool
)

//export goKeyTapEvent
func goKeyTapEvent(typ C.uint, flags C.ulonglong, keycode C.longlong) {
	tapMu.Lock()
	spec := tapSpec
	tapMu.Unlock()

	var pressed bool
	switch uint32(typ) {
	case cgEventFlagsChanged:
		if !spec.FnModifier {
			return
		}
		pressed = uint64(flags)&fnModifierFlag != 0
	case cgEventKeyDown, cgEventKeyUp:
		if spec.FnModifier || !spec.matches(uint16(keycode)) {
			return
		}
		pressed = uint32(typ) == cgEventKeyDown
	default:
		return
	}

	// Flag changes repeat while other modifiers move, and held keys
	// autorepeat. Only edges reach the callback.
	tapMu.Lock()
	changed := pressed != tapDown
	tapDown = pressed
	tapMu.Unlock()
	if changed {
		dispatch(pressed)
	}
}

func installTap(spec Spec) (func(), error) {
	tapMu.Lock()
	tapSpec = spec
	tapDown = false
	tapMu.Unlock()

	if rc := C.startKeyTap(); rc != 0 {
		tapMu.Lock()
		tapSpec = Spec{}
		tapMu.Unlock()
		if rc == -2 {
			return nil, ErrListenerActive
		}
		return nil, errors.New("keytap: failed to create event tap; grant Accessibility " +
			"permission under System Settings > Privacy & Security > Accessibility, " +
			"then quit and relaunch (macOS applies the grant on the next launch)")
	}
	return func() {
		C.stopKeyTap()
		tapMu.Lock()
		tapSpec = Spec{}
		tapDown = false
		tapMu.Unlock()
	}, nil
}

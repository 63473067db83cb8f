//go:build darwin

package autotype

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation

#include <ApplicationServices/ApplicationServices.h>

static int postUnicodeChunk(const UniChar *chars, int len) {
	CGEventRef down = CGEventCreateKeyboardEvent(NULL, 0, true);
	if (down == NULL) {
		return -1;
	}
	CGEventKeyboardSetUnicodeString(down, len, chars);
	CGEventPost(kCGHIDEventTap, down);
	CFRelease(down);

	CGEventRef up = CGEventCreateKeyboardEvent(NULL, 0, false);
	if (up == NULL) {
		return -1;
	}
	CGEventKeyboardSetUnicodeString(up, len, chars);
	CGEventPost(kCGHIDEventTap, up);
	CFRelease(up);
	return 0;
}
*/
import "C"

import (
	"errors"
	"unsafe"
)

// Text fields on macOS treat CR as Return; LF is ignored by some.
const lineEnding = "\r"

func postChunk(chunk []uint16) error {
	if len(chunk) == 0 {
		return nil
	}
	rc := C.postUnicodeChunk((*C.UniChar)(unsafe.Pointer(&chunk[0])), C.int(len(chunk)))
	if rc != 0 {
		return errors.New("autotype: CGEventCreateKeyboardEvent failed")
	}
	return nil
}

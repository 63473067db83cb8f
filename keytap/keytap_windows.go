//go:build windows

package keytap

import (
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"
)

const fnSupported = false

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadId  = kernel32.NewProc("GetCurrentThreadId")
)

const (
	whKeyboardLL = 13

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
	wmQuit       = 0x0012

	llkhfInjected = 0x10
)

type kbdllHookStruct struct {
	VkCode    uint32
	ScanCode  uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	PtX     int32
	PtY     int32
}

// Virtual-key codes. The Fn key is handled in firmware on most
// keyboards and never reaches the hook, so it has no entry.
var namedCodes = map[string][]uint16{
	"f13":          {0x7C},
	"f14":          {0x7D},
	"f15":          {0x7E},
	"f16":          {0x7F},
	"f17":          {0x80},
	"f18":          {0x81},
	"f19":          {0x82},
	"rightalt":     {0xA5},
	"rightoption":  {0xA5},
	"rightctrl":    {0xA3},
	"rightcontrol": {0xA3},
	"capslock":     {0x14},
	"scrolllock":   {0x91},
	"pause":        {0x13},
}

func lookupCodes(token string) ([]uint16, bool) {
	codes, ok := namedCodes[token]
	return codes, ok
}

// installTap runs a low-level keyboard hook on a dedicated OS thread.
// The hook and its message pump must live on the same thread, so the
// goroutine installs, pumps and uninstalls; stop posts WM_QUIT to it.
func installTap(spec Spec) (func(), error) {
	ready := make(chan error, 1)
	threadID := make(chan uint32, 1)
	done := make(chan struct{})

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)

		var isDown bool
		callback := syscall.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
			if int32(nCode) >= 0 {
				k := (*kbdllHookStruct)(unsafe.Pointer(lParam))
				if k.Flags&llkhfInjected == 0 && spec.matches(uint16(k.VkCode)) {
					var pressed, edge bool
					switch uint32(wParam) {
					case wmKeyDown, wmSysKeyDown:
						pressed, edge = true, !isDown
					case wmKeyUp, wmSysKeyUp:
						pressed, edge = false, isDown
					}
					if edge {
						isDown = pressed
						dispatch(pressed)
					}
				}
			}
			// Observe only: the event always continues down the chain.
			ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
			return ret
		})

		hook, _, callErr := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), callback, 0, 0)
		if hook == 0 {
			ready <- fmt.Errorf("keytap: SetWindowsHookExW: %v", callErr)
			return
		}
		tid, _, _ := procGetCurrentThreadId.Call()
		threadID <- uint32(tid)
		ready <- nil

		var m msg
		for {
			ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
			if int32(ret) <= 0 {
				break
			}
		}
		// Unhook on the thread that installed the hook.
		procUnhookWindowsHookEx.Call(hook)
	}()

	select {
	case err := <-ready:
		if err != nil {
			return nil, err
		}
	case <-time.After(2 * time.Second):
		return nil, errors.New("keytap: timed out installing keyboard hook")
	}

	tid := <-threadID
	return func() {
		procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
		<-done
	}, nil
}

//go:build windows

package autotype

import (
	"fmt"
	"syscall"
	"unsafe"
)

const lineEnding = "\r\n"

var (
	user32        = syscall.NewLazyDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard = 1

	keyeventfKeyUp   = 0x0002
	keyeventfUnicode = 0x0004
)

type keyboardInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// input mirrors the Win32 INPUT struct. The trailing padding brings it
// up to the size of the MOUSEINPUT union arm.
type input struct {
	Type uint32
	Ki   keyboardInput
	_    [8]byte
}

// postChunk posts each code unit as a KEYEVENTF_UNICODE down/up pair in
// a single SendInput batch, so the chunk lands atomically with respect
// to other injected input.
func postChunk(chunk []uint16) error {
	if len(chunk) == 0 {
		return nil
	}
	inputs := make([]input, 0, len(chunk)*2)
	for _, u := range chunk {
		inputs = append(inputs,
			input{Type: inputKeyboard, Ki: keyboardInput{Scan: u, Flags: keyeventfUnicode}},
			input{Type: inputKeyboard, Ki: keyboardInput{Scan: u, Flags: keyeventfUnicode | keyeventfKeyUp}},
		)
	}
	n, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("autotype: SendInput posted %d of %d events: %v", n, len(inputs), callErr)
	}
	return nil
}

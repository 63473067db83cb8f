// Package keytap installs a global key listener and reports press and
// release transitions of a single configured trigger key. The listener
// only observes: events always continue to the focused application
// unmodified.
//
// At most one listener may be active per process. The native hook
// callback reaches Go through a single static trampoline, so the active
// callback lives in a process-wide slot.
package keytap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

var (
	// ErrListenerActive is returned by Start while another listener
	// holds the process-wide hook slot.
	ErrListenerActive = errors.New("keytap: listener already active")

	// ErrUnsupported is returned on platforms without a native hook
	// implementation.
	ErrUnsupported = errors.New("keytap: not supported on this platform")
)

// Callback receives true on press and false on release. It runs on the
// hook thread and must return quickly.
type Callback func(pressed bool)

// Spec identifies the trigger key in platform terms.
type Spec struct {
	// Name is the token the spec was parsed from, kept for messages.
	Name string

	// FnModifier watches the Fn/Globe modifier flag instead of a key
	// code. macOS only.
	FnModifier bool

	// Codes lists the platform key codes that count as the trigger.
	// Any match fires.
	Codes []uint16
}

func (s Spec) matches(code uint16) bool {
	for _, c := range s.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// ParseSpec resolves a key name such as "fn", "f13" or "rightalt" to a
// Spec using the current platform's key table.
func ParseSpec(name string) (Spec, error) {
	token := strings.ToLower(strings.TrimSpace(name))
	if token == "" {
		return Spec{}, errors.New("keytap: empty key name")
	}
	if token == "fn" {
		if !fnSupported {
			return Spec{}, errors.New("keytap: the fn key cannot be observed on this platform")
		}
		return Spec{Name: token, FnModifier: true}, nil
	}
	codes, ok := lookupCodes(token)
	if !ok {
		return Spec{}, fmt.Errorf("keytap: unknown key %q", name)
	}
	return Spec{Name: token, Codes: codes}, nil
}

// Listener is an active global key listener. Stop releases the hook
// slot; the Listener must not be reused afterwards.
type Listener struct {
	stopOnce sync.Once
	stop     func()
}

// Start installs the platform hook and begins reporting trigger-key
// transitions to cb. It fails with ErrListenerActive if another
// listener is running.
func Start(spec Spec, cb Callback) (*Listener, error) {
	if cb == nil {
		return nil, errors.New("keytap: nil callback")
	}
	if err := acquireSlot(); err != nil {
		return nil, err
	}
	setCallback(cb)
	stop, err := installTap(spec)
	if err != nil {
		setCallback(nil)
		releaseSlot()
		return nil, err
	}
	return &Listener{stop: stop}, nil
}

// Stop uninstalls the hook and frees the slot for the next Start. Safe
// to call more than once.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		l.stop()
		setCallback(nil)
		releaseSlot()
	})
}

// ─── process-wide callback slot ───

var (
	slotMu   sync.Mutex
	slotBusy bool

	cbMu     sync.Mutex
	activeCb Callback
)

func acquireSlot() error {
	slotMu.Lock()
	defer slotMu.Unlock()
	if slotBusy {
		return ErrListenerActive
	}
	slotBusy = true
	return nil
}

func releaseSlot() {
	slotMu.Lock()
	slotBusy = false
	slotMu.Unlock()
}

func setCallback(cb Callback) {
	cbMu.Lock()
	activeCb = cb
	cbMu.Unlock()
}

// dispatch invokes the active callback from the hook thread. The hook
// thread must never stall, so a contended slot drops the edge rather
// than waiting, and a panic in the callback must not unwind into the
// native event pipeline.
func dispatch(pressed bool) {
	if !cbMu.TryLock() {
		return
	}
	cb := activeCb
	cbMu.Unlock()
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("key callback panicked", "panic", r)
		}
	}()
	cb(pressed)
}

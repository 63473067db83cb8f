// Package hotkey registers a global accelerator combination and
// forwards its press and release edges. Unlike the raw key listener it
// consumes the combination: the focused application never sees it.
package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.design/x/hotkey"
)

// Combo is a parsed accelerator such as ctrl+shift+space.
type Combo struct {
	Mods []hotkey.Modifier
	Key  hotkey.Key
}

// ParseCombo parses a "+"-separated combination. The last token is the
// key; everything before it must be a modifier. Modifier names follow
// the platform: cmd exists on macOS, win on Windows.
func ParseCombo(s string) (Combo, error) {
	parts := strings.Split(s, "+")
	if len(parts) == 0 || strings.TrimSpace(s) == "" {
		return Combo{}, errors.New("hotkey: empty combination")
	}

	var combo Combo
	for i, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			return Combo{}, fmt.Errorf("hotkey: empty token in %q", s)
		}
		if i < len(parts)-1 {
			mod, ok := modifierNames[token]
			if !ok {
				return Combo{}, fmt.Errorf("hotkey: unknown modifier %q", token)
			}
			combo.Mods = append(combo.Mods, mod)
			continue
		}
		key, ok := keyNames[token]
		if !ok {
			return Combo{}, fmt.Errorf("hotkey: unknown key %q", token)
		}
		combo.Key = key
	}
	return combo, nil
}

// Listener owns a registered hotkey and the goroutine forwarding its
// edges.
type Listener struct {
	hk       *hotkey.Hotkey
	done     chan struct{}
	stopOnce sync.Once
}

// Start registers combo with the OS and forwards each press and
// release to onEdge until Stop is called. Registration fails if another
// application owns the combination.
func Start(combo Combo, onEdge func(pressed bool)) (*Listener, error) {
	if onEdge == nil {
		return nil, errors.New("hotkey: nil edge callback")
	}
	hk := hotkey.New(combo.Mods, combo.Key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register hotkey: %w", err)
	}

	l := &Listener{hk: hk, done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-l.done:
				return
			case <-hk.Keydown():
				onEdge(true)
			case <-hk.Keyup():
				onEdge(false)
			}
		}
	}()
	return l, nil
}

// Stop unregisters the hotkey and halts forwarding. Safe to call more
// than once.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		l.hk.Unregister()
	})
}

var keyNames = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3,
	"f4": hotkey.KeyF4, "f5": hotkey.KeyF5, "f6": hotkey.KeyF6,
	"f7": hotkey.KeyF7, "f8": hotkey.KeyF8, "f9": hotkey.KeyF9,
	"f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
	"f13": hotkey.KeyF13, "f14": hotkey.KeyF14, "f15": hotkey.KeyF15,
	"f16": hotkey.KeyF16, "f17": hotkey.KeyF17, "f18": hotkey.KeyF18,
	"f19": hotkey.KeyF19, "f20": hotkey.KeyF20,

	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"return": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
}

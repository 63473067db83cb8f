//go:build linux

package keytap

import (
	hook "github.com/robotn/gohook"
	"github.com/vcaesar/keycode"
)

const fnSupported = false

// Aliases on top of the shared keycode table, which spells modifier
// sides as "ralt", "rctrl" and so on.
var codeAliases = map[string]string{
	"rightalt":     "ralt",
	"rightoption":  "ralt",
	"rightctrl":    "rctrl",
	"rightcontrol": "rctrl",
	"rightshift":   "rshift",
}

func lookupCodes(token string) ([]uint16, bool) {
	if alias, ok := codeAliases[token]; ok {
		token = alias
	}
	if code, ok := keycode.Keycode[token]; ok {
		return []uint16{code}, true
	}
	return nil, false
}

// installTap drains the global event stream and forwards trigger-key
// edges. gohook delivers KeyHold for autorepeat, so held keys collapse
// to a single press.
func installTap(spec Spec) (func(), error) {
	events := hook.Start()
	done := make(chan struct{})

	go func() {
		defer close(done)
		var isDown bool
		for ev := range events {
			var pressed bool
			switch ev.Kind {
			case hook.KeyDown, hook.KeyHold:
				pressed = true
			case hook.KeyUp:
				pressed = false
			default:
				continue
			}
			if !spec.matches(ev.Keycode) {
				continue
			}
			if pressed == isDown {
				continue
			}
			isDown = pressed
			dispatch(pressed)
		}
	}()

	return func() {
		hook.End()
		<-done
	}, nil
}

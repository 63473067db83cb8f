package platform

import (
	"runtime"
	"testing"
)

func TestCurrent(t *testing.T) {
	caps := Current()
	if caps == nil {
		t.Fatal("Current() returned nil")
	}
	switch runtime.GOOS {
	case "darwin", "windows", "linux":
		if caps.Name() != runtime.GOOS {
			t.Errorf("Name() = %q, want %q", caps.Name(), runtime.GOOS)
		}
	default:
		if caps.Name() != "unsupported" {
			t.Errorf("Name() = %q, want unsupported", caps.Name())
		}
		if caps.PermissionGranted() {
			t.Error("PermissionGranted() = true on unsupported OS")
		}
	}
}

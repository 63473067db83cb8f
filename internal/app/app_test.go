package app

import (
	"testing"

	"whisperkey/config"
	"whisperkey/trigger"
)

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-env")

	if got := resolveAPIKey(&config.Config{GroqAPIKey: "gsk-file"}); got != "gsk-file" {
		t.Errorf("config key should win, got %q", got)
	}
	if got := resolveAPIKey(&config.Config{GroqAPIKey: "  "}); got != "gsk-env" {
		t.Errorf("blank config key should fall back to env, got %q", got)
	}

	t.Setenv("GROQ_API_KEY", "")
	if got := resolveAPIKey(&config.Config{}); got != "" {
		t.Errorf("expected empty key, got %q", got)
	}
}

func TestModeFallsBackToHold(t *testing.T) {
	a := &App{cfg: &config.Config{TriggerMode: "bogus"}}
	if got := a.mode(); got != trigger.ModeHold {
		t.Errorf("mode() = %q, want hold", got)
	}

	a = &App{cfg: &config.Config{TriggerMode: "toggle"}}
	if got := a.mode(); got != trigger.ModeToggle {
		t.Errorf("mode() = %q, want toggle", got)
	}

	a = &App{cfg: &config.Config{}}
	if got := a.mode(); got != trigger.ModeHold {
		t.Errorf("default mode() = %q, want hold", got)
	}
}

// Package app wires configuration, the trigger coordinator and the
// transcription pipeline together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"whisperkey/config"
	"whisperkey/history"
	"whisperkey/hotkey"
	"whisperkey/keytap"
	"whisperkey/platform"
	"whisperkey/transcribe"
	"whisperkey/trigger"
)

// App is the running application: edge sources on one side, the
// save-transcribe-type pipeline on the other.
type App struct {
	cfg   *config.Config
	caps  platform.Capabilities
	coord *trigger.Coordinator

	transcriber *transcribe.Client
	store       *history.Store

	keyListener *keytap.Listener
	hotkeyLis   *hotkey.Listener
}

// New builds the App from cfg. A missing API key is not fatal here;
// it surfaces when the first dictation is processed.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, caps: platform.Current()}
	a.coord = trigger.New(a.startCapture, a.pipeline, a.mode)

	if key := resolveAPIKey(cfg); key != "" {
		client, err := transcribe.New(transcribe.Config{
			APIKey:   key,
			Language: cfg.Language,
		})
		if err != nil {
			return nil, fmt.Errorf("init transcription client: %w", err)
		}
		a.transcriber = client
	} else {
		slog.Warn("no Groq API key configured; recordings will not be transcribed",
			"hint", "set groq_api_key in the config file or GROQ_API_KEY in the environment")
	}

	store, err := history.Open(historyDir())
	if err != nil {
		// Dictation still works without history, so log and move on.
		slog.Warn("open history store", "error", err)
	} else {
		a.store = store
	}
	return a, nil
}

// resolveAPIKey prefers the config file and falls back to the
// environment.
func resolveAPIKey(cfg *config.Config) string {
	if k := strings.TrimSpace(cfg.GroqAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
}

func historyDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "whisperkey", "history")
}

// Run starts the configured edge sources and blocks until ctx is
// canceled, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if !a.caps.PermissionGranted() {
		if a.caps.RequestPermission() {
			slog.Info("input monitoring permission granted")
		} else {
			slog.Warn("input monitoring permission not granted; " +
				"key listening and auto-type will fail until it is enabled " +
				"(grant it, then fully quit and relaunch)")
		}
	}

	if a.cfg.TriggerKey != "" {
		spec, err := keytap.ParseSpec(a.cfg.TriggerKey)
		if err != nil {
			slog.Error("invalid trigger key", "key", a.cfg.TriggerKey, "error", err)
		} else if l, err := a.caps.StartKeyListener(spec, a.coord.HandleEdge); err != nil {
			slog.Error("start key listener", "key", a.cfg.TriggerKey, "error", err)
		} else {
			a.keyListener = l
			slog.Info("trigger key active", "key", spec.Name, "mode", a.cfg.Mode())
		}
	}

	if a.cfg.GlobalHotkey != "" {
		combo, err := hotkey.ParseCombo(a.cfg.GlobalHotkey)
		if err != nil {
			slog.Error("invalid global hotkey", "hotkey", a.cfg.GlobalHotkey, "error", err)
		} else if l, err := hotkey.Start(combo, a.coord.HandleHotkeyEdge); err != nil {
			slog.Error("register global hotkey", "hotkey", a.cfg.GlobalHotkey, "error", err)
		} else {
			a.hotkeyLis = l
			slog.Info("global hotkey active", "hotkey", a.cfg.GlobalHotkey, "mode", a.cfg.Mode())
		}
	}

	if a.keyListener == nil && a.hotkeyLis == nil {
		a.Shutdown()
		return errors.New("no working trigger; set trigger_key or global_hotkey in the config file")
	}

	<-ctx.Done()
	a.Shutdown()
	return nil
}

// Shutdown stops the edge sources and closes the history store. Safe
// to call after a partial startup.
func (a *App) Shutdown() {
	if a.keyListener != nil {
		a.keyListener.Stop()
		a.keyListener = nil
	}
	if a.hotkeyLis != nil {
		a.hotkeyLis.Stop()
		a.hotkeyLis = nil
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("close history store", "error", err)
		}
		a.store = nil
	}
}

func (a *App) startCapture() (trigger.Session, error) {
	return a.caps.StartAudioCapture(float32(a.cfg.Gain()))
}

func (a *App) mode() trigger.Mode {
	m, err := trigger.ParseMode(a.cfg.Mode())
	if err != nil {
		slog.Warn("invalid trigger mode, using hold", "mode", a.cfg.TriggerMode)
		return trigger.ModeHold
	}
	return m
}

// pipeline consumes one stopped session: save, transcribe, refine,
// record, type.
func (a *App) pipeline(sess trigger.Session) {
	text, err := a.process(context.Background(), sess)
	if err != nil {
		slog.Error("dictation failed", "error", err)
		return
	}
	slog.Info("dictation complete", "chars", len(text))
}

func (a *App) process(ctx context.Context, sess trigger.Session) (string, error) {
	wavPath, err := sess.StopAndSaveWAV()
	if err != nil {
		return "", fmt.Errorf("save recording: %w", err)
	}

	if a.transcriber == nil {
		return "", fmt.Errorf("recording saved to %s but no API key is configured", wavPath)
	}
	text, err := a.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", wavPath, err)
	}

	if a.cfg.RefineOutputEnabled {
		refined, err := a.transcriber.Refine(ctx, text, transcribe.RefineOptions{
			Prompt: a.cfg.RefinementPrompt,
			Model:  a.cfg.RefinementModel,
		})
		if err != nil {
			slog.Warn("refinement failed, keeping raw transcript", "error", err)
		} else {
			text = refined
		}
	}

	a.record(text, wavPath)

	if a.cfg.AutoType() {
		if err := a.typeOut(text); err != nil {
			slog.Error("auto-type failed", "error", err)
		}
	}
	return text, nil
}

func (a *App) record(text, wavPath string) {
	if a.store == nil {
		return
	}
	if err := a.store.Append(history.Entry{Text: text, WAVPath: wavPath}); err != nil {
		slog.Warn("record dictation history", "error", err)
	}
}

func (a *App) typeOut(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if !a.caps.PermissionGranted() {
		return errors.New("input permission is required to type into other applications")
	}
	return a.caps.InjectText(text, a.cfg.TypeDelay())
}

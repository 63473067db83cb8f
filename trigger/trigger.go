// Package trigger maps trigger-key edges onto a single recording slot.
// Every start and stop request funnels through one mutex, so exactly
// one capture session exists at a time no matter how edges race.
package trigger

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

var (
	// ErrAlreadyRecording is returned by Start while a session holds
	// the slot.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrNotRecording is returned by Stop when the slot is empty.
	ErrNotRecording = errors.New("not recording")
)

// Mode selects how trigger edges map to recording commands.
type Mode string

const (
	// ModeHold records while the trigger key is held.
	ModeHold Mode = "hold"

	// ModeToggle starts on one actuation and stops on the next.
	ModeToggle Mode = "toggle"
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeHold:
		return ModeHold, nil
	case ModeToggle:
		return ModeToggle, nil
	}
	return "", fmt.Errorf("unknown trigger mode %q", s)
}

// Phase is the coordinator's view of the session lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRecording
	PhaseProcessing
)

func (p Phase) String() string {
	switch p {
	case PhaseRecording:
		return "recording"
	case PhaseProcessing:
		return "processing"
	}
	return "idle"
}

// Session is the capture handle the coordinator manages.
type Session interface {
	// StopAndSaveWAV stops the capture and blocks until the audio
	// file is finalized, then returns its path.
	StopAndSaveWAV() (string, error)
}

// StartFunc begins a new capture session.
type StartFunc func() (Session, error)

// PipelineFunc consumes a stopped session: save, transcribe, deliver.
// It runs on its own goroutine, never on the hook thread.
type PipelineFunc func(Session)

// Coordinator owns the recording slot.
type Coordinator struct {
	start    StartFunc
	pipeline PipelineFunc
	mode     func() Mode

	mu         sync.Mutex
	session    Session
	processing int
}

// New builds a Coordinator. mode is consulted at each edge so a
// settings change takes effect without restarting the listener.
func New(start StartFunc, pipeline PipelineFunc, mode func() Mode) *Coordinator {
	return &Coordinator{start: start, pipeline: pipeline, mode: mode}
}

// Phase reports the current lifecycle phase. A session in flight wins
// over pipelines still draining.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.session != nil:
		return PhaseRecording
	case c.processing > 0:
		return PhaseProcessing
	}
	return PhaseIdle
}

// Start occupies the slot with a fresh session. The slot mutex is held
// across session creation, so concurrent starts serialize and exactly
// one wins.
func (c *Coordinator) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return ErrAlreadyRecording
	}
	sess, err := c.start()
	if err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	c.session = sess
	return nil
}

// Stop vacates the slot and hands the session to the pipeline on a new
// goroutine. It returns without waiting for the pipeline, so the slot
// is free for the next recording while the previous one is processed.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	if sess == nil {
		c.mu.Unlock()
		return ErrNotRecording
	}
	c.processing++
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.processing--
			c.mu.Unlock()
		}()
		c.pipeline(sess)
	}()
	return nil
}

// HandleEdge processes a press or release edge from the raw key
// listener. Hold mode records for the duration of the press; toggle
// mode acts on the release, after the physical actuation completes.
// Out-of-order edges are swallowed, not errors: a duplicate press while
// recording and a release with nothing to stop are both routine.
func (c *Coordinator) HandleEdge(pressed bool) {
	if c.mode() == ModeToggle {
		if pressed {
			return
		}
		c.toggle()
		return
	}
	if pressed {
		if err := c.Start(); err != nil && !errors.Is(err, ErrAlreadyRecording) {
			slog.Error("start recording", "error", err)
		}
	} else {
		if err := c.Stop(); err != nil && !errors.Is(err, ErrNotRecording) {
			slog.Error("stop recording", "error", err)
		}
	}
}

// HandleHotkeyEdge processes an edge from a registered accelerator,
// which reports both press and release. Toggle mode acts on the press
// for immediate feedback; hold mode behaves as with the raw listener.
func (c *Coordinator) HandleHotkeyEdge(pressed bool) {
	if c.mode() == ModeToggle {
		if !pressed {
			return
		}
		c.toggle()
		return
	}
	c.HandleEdge(pressed)
}

func (c *Coordinator) toggle() {
	if c.Phase() == PhaseRecording {
		if err := c.Stop(); err != nil && !errors.Is(err, ErrNotRecording) {
			slog.Error("stop recording", "error", err)
		}
		return
	}
	if err := c.Start(); err != nil && !errors.Is(err, ErrAlreadyRecording) {
		slog.Error("start recording", "error", err)
	}
}

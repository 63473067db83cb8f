package trigger

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSession struct {
	stopped bool
}

func (f *fakeSession) StopAndSaveWAV() (string, error) {
	f.stopped = true
	return "/tmp/fake.wav", nil
}

type harness struct {
	mu       sync.Mutex
	started  int
	piped    []Session
	startErr error
	pipeDone chan Session
	mode     Mode
}

func newHarness(mode Mode) *harness {
	return &harness{mode: mode, pipeDone: make(chan Session, 16)}
}

func (h *harness) coordinator() *Coordinator {
	return New(h.start, h.pipeline, func() Mode {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.mode
	})
}

func (h *harness) start() (Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.startErr != nil {
		return nil, h.startErr
	}
	h.started++
	return &fakeSession{}, nil
}

func (h *harness) pipeline(s Session) {
	h.mu.Lock()
	h.piped = append(h.piped, s)
	h.mu.Unlock()
	h.pipeDone <- s
}

func (h *harness) waitPipeline(t *testing.T) Session {
	t.Helper()
	select {
	case s := <-h.pipeDone:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not run")
		return nil
	}
}

func (h *harness) startCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"hold", ModeHold},
		{"toggle", ModeToggle},
		{" Hold ", ModeHold},
		{"TOGGLE", ModeToggle},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := ParseMode("push"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func waitPhase(t *testing.T, c *Coordinator, want Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Phase() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("phase = %v, want %v", c.Phase(), want)
}

func TestStartStop(t *testing.T) {
	h := newHarness(ModeHold)
	c := h.coordinator()

	if got := c.Phase(); got != PhaseIdle {
		t.Fatalf("initial phase = %v, want idle", got)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := c.Phase(); got != PhaseRecording {
		t.Fatalf("phase after start = %v, want recording", got)
	}
	if err := c.Start(); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start = %v, want ErrAlreadyRecording", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	h.waitPipeline(t)
	if err := c.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("second Stop = %v, want ErrNotRecording", err)
	}
	if h.startCount() != 1 {
		t.Errorf("started %d sessions, want 1", h.startCount())
	}
}

func TestStartFailureLeavesSlotEmpty(t *testing.T) {
	h := newHarness(ModeHold)
	h.startErr = errors.New("no device")
	c := h.coordinator()

	if err := c.Start(); err == nil {
		t.Fatal("expected Start to fail")
	}
	if got := c.Phase(); got != PhaseIdle {
		t.Errorf("phase after failed start = %v, want idle", got)
	}
	if err := c.Stop(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Stop after failed start = %v, want ErrNotRecording", err)
	}
}

func TestHoldSequence(t *testing.T) {
	h := newHarness(ModeHold)
	c := h.coordinator()

	c.HandleEdge(true)
	if got := c.Phase(); got != PhaseRecording {
		t.Fatalf("phase after press = %v, want recording", got)
	}
	// Autorepeat press while already recording is swallowed.
	c.HandleEdge(true)
	if h.startCount() != 1 {
		t.Errorf("started %d sessions, want 1", h.startCount())
	}

	c.HandleEdge(false)
	s := h.waitPipeline(t)
	if s == nil {
		t.Fatal("pipeline received nil session")
	}
	// Release with nothing recording is swallowed.
	c.HandleEdge(false)
	if len(h.pipeDone) != 0 {
		t.Error("spurious pipeline run after stray release")
	}
}

func TestToggleSequenceKeyListener(t *testing.T) {
	h := newHarness(ModeToggle)
	c := h.coordinator()

	// Toggle acts on release for the raw listener; the press is inert.
	c.HandleEdge(true)
	if got := c.Phase(); got != PhaseIdle {
		t.Fatalf("phase after press = %v, want idle", got)
	}
	c.HandleEdge(false)
	if got := c.Phase(); got != PhaseRecording {
		t.Fatalf("phase after first release = %v, want recording", got)
	}
	c.HandleEdge(true)
	c.HandleEdge(false)
	h.waitPipeline(t)
	if h.startCount() != 1 {
		t.Errorf("started %d sessions, want 1", h.startCount())
	}
}

func TestToggleSequenceHotkey(t *testing.T) {
	h := newHarness(ModeToggle)
	c := h.coordinator()

	// A registered accelerator toggles on the press.
	c.HandleHotkeyEdge(true)
	if got := c.Phase(); got != PhaseRecording {
		t.Fatalf("phase after press = %v, want recording", got)
	}
	c.HandleHotkeyEdge(false)
	if got := c.Phase(); got != PhaseRecording {
		t.Fatalf("release must be inert in toggle mode, phase = %v", got)
	}
	c.HandleHotkeyEdge(true)
	h.waitPipeline(t)
}

func TestHotkeyHoldMatchesListener(t *testing.T) {
	h := newHarness(ModeHold)
	c := h.coordinator()

	c.HandleHotkeyEdge(true)
	if got := c.Phase(); got != PhaseRecording {
		t.Fatalf("phase after press = %v, want recording", got)
	}
	c.HandleHotkeyEdge(false)
	h.waitPipeline(t)
}

func TestModeChangeBetweenEdges(t *testing.T) {
	h := newHarness(ModeHold)
	c := h.coordinator()

	c.HandleEdge(true)
	if got := c.Phase(); got != PhaseRecording {
		t.Fatalf("phase = %v, want recording", got)
	}

	// Flip to toggle mid-session: the next release still stops.
	h.mu.Lock()
	h.mode = ModeToggle
	h.mu.Unlock()
	c.HandleEdge(false)
	h.waitPipeline(t)
	waitPhase(t, c, PhaseIdle)
}

func TestPipelineReceivesStoppedSession(t *testing.T) {
	h := newHarness(ModeHold)
	c := h.coordinator()

	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	s := h.waitPipeline(t)
	fs, ok := s.(*fakeSession)
	if !ok {
		t.Fatalf("pipeline got %T, want *fakeSession", s)
	}
	// The coordinator hands over the live session; stopping is the
	// pipeline's job.
	if fs.stopped {
		t.Error("session was stopped before the pipeline ran")
	}
}

func TestConcurrentPresses(t *testing.T) {
	h := newHarness(ModeHold)
	c := h.coordinator()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.HandleEdge(true)
		}()
	}
	wg.Wait()
	if h.startCount() != 1 {
		t.Errorf("started %d sessions under concurrent presses, want 1", h.startCount())
	}
	c.HandleEdge(false)
	h.waitPipeline(t)
}

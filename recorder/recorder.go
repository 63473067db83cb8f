// Package recorder captures microphone audio through PortAudio and
// renders it to a 16-bit PCM WAV file on stop.
package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

// warmup covers the interval after stream start during which the audio
// subsystem still delivers silence. Without it the head of the capture
// is truncated on CoreAudio.
const warmup = 150 * time.Millisecond

// Session is an in-progress capture. The PortAudio stream is created
// and owned by a dedicated worker goroutine locked to its OS thread;
// the stream handle never crosses threads.
type Session struct {
	id         string
	sampleRate int
	channels   int

	stopCh chan struct{}
	doneCh chan result

	mu      sync.Mutex
	stopped bool
}

type result struct {
	path string
	err  error
}

type readyInfo struct {
	sampleRate int
	channels   int
	err        error
}

// Start opens the default input device and begins capturing with the
// given gain applied per sample. It returns once frames are flowing.
func Start(gain float32) (*Session, error) {
	s := &Session{
		id:     uuid.NewString(),
		stopCh: make(chan struct{}),
		doneCh: make(chan result, 1),
	}
	ready := make(chan readyInfo, 1)
	go s.capture(gain, ready)

	info := <-ready
	if info.err != nil {
		return nil, info.err
	}
	s.sampleRate = info.sampleRate
	s.channels = info.channels
	slog.Info("recording started",
		"session", s.id, "rate", s.sampleRate, "channels", s.channels, "gain", gain)
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// SampleRate returns the rate negotiated with the input device, in Hz.
func (s *Session) SampleRate() int { return s.sampleRate }

// Channels returns the negotiated channel count.
func (s *Session) Channels() int { return s.channels }

// StopAndSaveWAV stops the capture and blocks until the worker has
// written and finalized the WAV file, then returns its path. There is
// no timeout: a worker stalled inside a native call blocks the caller
// rather than leaking a half-written file.
func (s *Session) StopAndSaveWAV() (string, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return "", errors.New("recorder: session already stopped")
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.stopCh)
	res := <-s.doneCh
	if res.err != nil {
		return "", res.err
	}
	slog.Info("recording saved", "session", s.id, "path", res.path)
	return res.path, nil
}

// capture is the worker. It owns the PortAudio lifecycle end to end:
// initialize, negotiate, stream, stop and render, all on one OS thread.
func (s *Session) capture(gain float32, ready chan<- readyInfo) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	fail := func(err error) { ready <- readyInfo{err: err} }

	if err := portaudio.Initialize(); err != nil {
		fail(fmt.Errorf("initialize portaudio: %w", err))
		return
	}
	defer func() {
		if err := portaudio.Terminate(); err != nil {
			slog.Warn("terminate portaudio", "error", err)
		}
	}()

	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		fail(fmt.Errorf("no default input device: %w", err))
		return
	}
	sampleRate := int(dev.DefaultSampleRate)
	channels := dev.MaxInputChannels
	if channels > 2 {
		channels = 2
	}
	if channels < 1 {
		fail(errors.New("recorder: default input device has no capture channels"))
		return
	}

	var bufMu sync.Mutex
	var samples []int16

	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), framesPerBuffer,
		func(in []int16) {
			bufMu.Lock()
			for _, v := range in {
				samples = append(samples, scaleSample(v, gain))
			}
			bufMu.Unlock()
		})
	if err != nil {
		fail(fmt.Errorf("open input stream: %w", err))
		return
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		fail(fmt.Errorf("start input stream: %w", err))
		return
	}

	time.Sleep(warmup)
	ready <- readyInfo{sampleRate: sampleRate, channels: channels}

	<-s.stopCh

	// Halt the stream before reading the buffer; the callback never
	// runs again past this point.
	if err := stream.Stop(); err != nil {
		slog.Warn("stop input stream", "session", s.id, "error", err)
	}
	if err := stream.Close(); err != nil {
		slog.Warn("close input stream", "session", s.id, "error", err)
	}

	bufMu.Lock()
	captured := samples
	bufMu.Unlock()

	path, err := writeWAV(wavPath(), captured, sampleRate, channels)
	if err != nil {
		s.doneCh <- result{err: err}
		return
	}
	s.doneCh <- result{path: path}
}

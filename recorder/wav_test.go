package recorder

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
)

func TestWavPathShape(t *testing.T) {
	p := wavPath()
	name := filepath.Base(p)
	if !strings.HasPrefix(name, filePrefix+"-") {
		t.Errorf("file name %q does not start with %q", name, filePrefix+"-")
	}
	if !strings.HasSuffix(name, ".wav") {
		t.Errorf("file name %q does not end with .wav", name)
	}
	// prefix + "-20060102-150405.wav"
	wantLen := len(filePrefix) + 1 + 8 + 1 + 6 + 4
	if len(name) != wantLen {
		t.Errorf("file name %q has length %d, want %d", name, len(name), wantLen)
	}
}

func TestWriteWAVRoundTrip(t *testing.T) {
	samples := []int16{0, 100, -100, 32767, -32768, 42}
	path := filepath.Join(t.TempDir(), "capture.wav")

	got, err := writeWAV(path, samples, 44100, 1)
	if err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	if got != path {
		t.Errorf("returned path %q, want %q", got, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written file: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode wav: %v", err)
	}
	if dec.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", dec.SampleRate)
	}
	if dec.NumChans != 1 {
		t.Errorf("channels = %d, want 1", dec.NumChans)
	}
	if dec.BitDepth != 16 {
		t.Errorf("bit depth = %d, want 16", dec.BitDepth)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}
	for i, want := range samples {
		if int16(buf.Data[i]) != want {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], want)
		}
	}
}

func TestWriteWAVEmptyCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if _, err := writeWAV(path, nil, 48000, 2); err != nil {
		t.Fatalf("writeWAV with no samples: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written file: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		t.Fatalf("header not readable: %v", err)
	}
	if dec.SampleRate != 48000 {
		t.Errorf("sample rate = %d, want 48000", dec.SampleRate)
	}
	if dec.NumChans != 2 {
		t.Errorf("channels = %d, want 2", dec.NumChans)
	}
}

func TestWriteWAVBadPath(t *testing.T) {
	if _, err := writeWAV(filepath.Join(t.TempDir(), "missing", "x.wav"), []int16{1}, 44100, 1); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

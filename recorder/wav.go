package recorder

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const filePrefix = "whisperkey"

// wavPath returns a fresh capture path in the system temp directory,
// qualified by a second-resolution UTC timestamp.
func wavPath() string {
	name := fmt.Sprintf("%s-%s.wav", filePrefix, time.Now().UTC().Format("20060102-150405"))
	return filepath.Join(os.TempDir(), name)
}

// writeWAV renders samples into a 16-bit PCM WAV file at path. The
// file only exists with a finalized header; any error leaves no usable
// path behind.
func writeWAV(path string, samples []int16, sampleRate, channels int) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create wav file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, v := range samples {
		buf.Data[i] = int(v)
	}

	// Sample writes are best effort; what matters is that the file is
	// finalized with a consistent header.
	if err := enc.Write(buf); err != nil {
		slog.Warn("write wav samples", "error", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("finalize wav file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close wav file: %w", err)
	}
	return path, nil
}

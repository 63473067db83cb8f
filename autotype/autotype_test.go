package autotype

import (
	"errors"
	"runtime"
	"strings"
	"testing"
	"unicode/utf16"
)

func TestNormalizeNewlines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		eol  string
		want string
	}{
		{"lf to cr", "line one\nline two", "\r", "line one\rline two"},
		{"crlf to cr", "a\r\nb", "\r", "a\rb"},
		{"mixed to crlf", "a\r\nb\nc", "\r\n", "a\r\nb\r\nc"},
		{"lf unchanged", "a\nb", "\n", "a\nb"},
		{"crlf collapses to lf", "a\r\nb", "\n", "a\nb"},
		{"no newlines", "plain text", "\r", "plain text"},
		{"trailing newline", "done\n", "\r", "done\r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeNewlines(tt.in, tt.eol); got != tt.want {
				t.Errorf("normalizeNewlines(%q, %q) = %q, want %q", tt.in, tt.eol, got, tt.want)
			}
		})
	}
}

func TestSplitChunksSizes(t *testing.T) {
	units := utf16.Encode([]rune(strings.Repeat("a", 100)))
	chunks := splitChunks(units, chunkSize)

	var total int
	for i, c := range chunks {
		if len(c) > chunkSize {
			t.Errorf("chunk %d has %d units, max is %d", i, len(c), chunkSize)
		}
		if len(c) == 0 {
			t.Errorf("chunk %d is empty", i)
		}
		total += len(c)
	}
	if total != len(units) {
		t.Errorf("chunks carry %d units, want %d", total, len(units))
	}
}

func TestSplitChunksReassembles(t *testing.T) {
	text := "Hello, 世界! Ça va? \U0001F600\U0001F680 done."
	units := utf16.Encode([]rune(text))

	var joined []uint16
	for _, c := range splitChunks(units, 5) {
		joined = append(joined, c...)
	}
	if got := string(utf16.Decode(joined)); got != text {
		t.Errorf("reassembled %q, want %q", got, text)
	}
}

func TestSplitChunksKeepsSurrogatePairsWhole(t *testing.T) {
	// 23 BMP characters followed by an emoji put the surrogate pair
	// astride the default chunk boundary.
	text := strings.Repeat("x", chunkSize-1) + "\U0001F600"
	units := utf16.Encode([]rune(text))

	chunks := splitChunks(units, chunkSize)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if n := len(chunks[0]); n != chunkSize-1 {
		t.Errorf("first chunk has %d units, want %d", n, chunkSize-1)
	}
	for i, c := range chunks {
		last := c[len(c)-1]
		if isHighSurrogate(last) {
			t.Errorf("chunk %d ends on an unpaired high surrogate", i)
		}
	}
}

func TestSplitChunksLoneSurrogateAtSizeOne(t *testing.T) {
	units := []uint16{0xD83D, 0xDE00}
	chunks := splitChunks(units, 1)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
}

func TestTypeEmpty(t *testing.T) {
	if err := Type("", 0); err != nil {
		t.Errorf("Type(\"\") = %v, want nil", err)
	}
}

func TestTypeUnsupportedPlatform(t *testing.T) {
	switch runtime.GOOS {
	case "darwin", "windows":
		t.Skipf("text injection is implemented on %s", runtime.GOOS)
	}
	if err := Type("hello", 0); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Type on %s = %v, want ErrUnsupported", runtime.GOOS, err)
	}
}

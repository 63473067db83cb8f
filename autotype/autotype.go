// Package autotype posts synthetic keyboard events that type text into
// whatever application currently holds focus.
package autotype

import (
	"errors"
	"strings"
	"time"
	"unicode/utf16"
)

// ErrUnsupported is returned on platforms without a synthetic input
// implementation.
var ErrUnsupported = errors.New("autotype: not supported on this platform")

// chunkSize is the number of UTF-16 code units carried per synthetic
// key event pair. Some applications drop oversized single-event
// payloads, while tiny chunks multiply event overhead.
const chunkSize = 24

// Type posts text into the focused application and blocks until every
// chunk has been posted. perChunkDelay is slept after each chunk; zero
// means full speed.
func Type(text string, perChunkDelay time.Duration) error {
	if text == "" {
		return nil
	}
	units := utf16.Encode([]rune(normalizeNewlines(text, lineEnding)))
	for _, chunk := range splitChunks(units, chunkSize) {
		if err := postChunk(chunk); err != nil {
			return err
		}
		if perChunkDelay > 0 {
			time.Sleep(perChunkDelay)
		}
	}
	return nil
}

// normalizeNewlines rewrites "\r\n" and "\n" sequences to the line
// ending the platform's synthetic Return key produces.
func normalizeNewlines(text, eol string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if eol == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", eol)
}

// splitChunks partitions units into runs of at most size code units.
// A surrogate pair is never split across a boundary: posting half a
// pair renders as U+FFFD in the target application.
func splitChunks(units []uint16, size int) [][]uint16 {
	var chunks [][]uint16
	for len(units) > 0 {
		n := size
		if n > len(units) {
			n = len(units)
		}
		if n < len(units) && isHighSurrogate(units[n-1]) {
			n--
		}
		if n == 0 {
			n = 1
		}
		chunks = append(chunks, units[:n])
		units = units[n:]
	}
	return chunks
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xD800 && u < 0xDC00
}

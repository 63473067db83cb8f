//go:build !darwin && !windows

package autotype

import "fmt"

const lineEnding = "\n"

func postChunk(chunk []uint16) error {
	return fmt.Errorf("%w: text injection requires macOS or Windows", ErrUnsupported)
}

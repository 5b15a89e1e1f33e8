package ffmpeg

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// DefaultBin is the FFmpeg binary resolved from PATH.
const DefaultBin = "ffmpeg"

// ErrNotFound indicates the FFmpeg binary is missing or not runnable.
var ErrNotFound = errors.New("ffmpeg not available")

// Check verifies the FFmpeg binary is runnable by invoking its version probe.
// Returns ErrNotFound (wrapped) if the binary is missing or fails to run.
func Check(bin string) error {
	if bin == "" {
		bin = DefaultBin
	}
	cmd := exec.Command(bin, "-version")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, bin, err)
	}
	return nil
}

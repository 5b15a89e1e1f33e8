// Package pidfile implements the single-instance guard: a sentinel file
// recording the running supervisor's pid.
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Acquire records the current process in the pid file. If the file already
// names a live process, Acquire fails so a second supervisor never starts; a
// stale file (recorded pid no longer running) is removed and replaced.
func Acquire(path string) error {
	if data, err := os.ReadFile(path); err == nil {
		if pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data))); parseErr == nil {
			alive, _ := process.PidExists(int32(pid))
			if alive && pid != os.Getpid() {
				return fmt.Errorf("already running with pid %d (%s)", pid, path)
			}
		}
		// Stale or unparseable, reclaim it.
		_ = os.Remove(path)
	}

	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

// Release removes the pid file, but only when it still records this process.
func Release(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data))); parseErr == nil && pid != os.Getpid() {
		return
	}
	_ = os.Remove(path)
}

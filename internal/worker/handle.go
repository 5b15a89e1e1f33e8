package worker

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/smazurov/camrelay/internal/logging"
)

// Handle owns one external worker process and its diagnostic log file.
type Handle interface {
	// PID returns the worker's process id.
	PID() int

	// Exited is a non-blocking liveness probe: whether the worker has
	// exited, and with what code.
	Exited() (bool, int)

	// Terminate signals the worker to stop, escalating to SIGKILL after a
	// bounded wait. Idempotent; safe to call after the worker has exited.
	Terminate()

	// Close releases the worker's log file. Exactly-once: repeated calls
	// return nil without a second release.
	Close() error
}

// procHandle is the Handle for a real spawned process.
type procHandle struct {
	cmd     *exec.Cmd
	logFile *os.File
	logger  logging.Logger

	waitCh chan error // receives cmd.Wait result once

	mu       sync.Mutex
	reaped   bool
	exitCode int

	termTimeout time.Duration // wait after stop signal before SIGKILL
	killTimeout time.Duration // wait after SIGKILL before giving up

	closeOnce sync.Once
}

func (h *procHandle) PID() int {
	return h.cmd.Process.Pid
}

// Exited checks whether the process has been reaped without blocking.
func (h *procHandle) Exited() (bool, int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.reaped {
		return true, h.exitCode
	}

	select {
	case err := <-h.waitCh:
		h.reaped = true
		h.exitCode = exitCodeFromError(err)
		return true, h.exitCode
	default:
		return false, 0
	}
}

// Terminate stops the worker. SIGINT first so FFmpeg can finalize its output
// stream, then SIGKILL if the worker does not exit within termTimeout.
func (h *procHandle) Terminate() {
	if exited, _ := h.Exited(); exited {
		return
	}

	if err := h.cmd.Process.Signal(syscall.SIGINT); err != nil && !errors.Is(err, os.ErrProcessDone) {
		h.logger.Warn("Failed to signal worker", "pid", h.PID(), "error", err)
	}
	if h.waitExit(h.termTimeout) {
		return
	}

	h.logger.Warn("Worker ignored stop signal, forcing kill", "pid", h.PID())
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		h.logger.Error("Failed to kill worker", "pid", h.PID(), "error", err)
	}
	if !h.waitExit(h.killTimeout) {
		h.logger.Error("Worker did not exit after kill signal", "pid", h.PID())
	}
}

// waitExit waits up to timeout for the process to be reaped.
func (h *procHandle) waitExit(timeout time.Duration) bool {
	select {
	case err := <-h.waitCh:
		h.mu.Lock()
		h.reaped = true
		h.exitCode = exitCodeFromError(err)
		h.mu.Unlock()
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close releases the log file exactly once.
func (h *procHandle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		err = h.logFile.Close()
	})
	return err
}

// exitCodeFromError extracts exit code from process error.
// Returns 0 for nil error, the exit code for ExitError, or 1 for other errors.
func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}

package worker

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/smazurov/camrelay/internal/ffmpeg"
	"github.com/smazurov/camrelay/internal/logging"
)

// Launcher spawns one external relay worker per feed. Implementations must
// allocate the feed's diagnostic log before spawning and release it on any
// failure path; a returned Handle owns the log thereafter.
type Launcher interface {
	Launch(feedID, sourceURL, destinationURL string) (Handle, error)
}

// FFmpegLauncher launches FFmpeg relay workers with the fixed encoding
// profile and a per-feed diagnostic log file.
type FFmpegLauncher struct {
	// Bin is the FFmpeg binary. Defaults to ffmpeg.DefaultBin.
	Bin string

	// LogDir is where per-feed logs are written. Defaults to the working
	// directory.
	LogDir string

	// TermTimeout and KillTimeout bound Terminate on returned handles.
	TermTimeout time.Duration
	KillTimeout time.Duration

	logger logging.Logger
}

// NewFFmpegLauncher creates a launcher writing per-feed logs under logDir.
func NewFFmpegLauncher(logDir string, logger logging.Logger) *FFmpegLauncher {
	return &FFmpegLauncher{
		Bin:         ffmpeg.DefaultBin,
		LogDir:      logDir,
		TermTimeout: 5 * time.Second,
		KillTimeout: 5 * time.Second,
		logger:      logger,
	}
}

// Launch opens the feed's log file, spawns the relay worker detached from the
// supervisor's stdio with combined output redirected into the log, and
// returns the owning handle. The log file is closed before returning any
// spawn error.
func (l *FFmpegLauncher) Launch(feedID, sourceURL, destinationURL string) (Handle, error) {
	logPath := filepath.Join(l.LogDir, feedID+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open worker log %s: %w", logPath, err)
	}

	cmd := exec.Command(l.bin(), ffmpeg.RelayArgs(sourceURL, destinationURL)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("failed to start worker for %s: %w", feedID, err)
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	l.logger.Info("Worker started", "feed_id", feedID, "pid", cmd.Process.Pid, "log", logPath)

	return &procHandle{
		cmd:         cmd,
		logFile:     logFile,
		logger:      l.logger,
		waitCh:      waitCh,
		termTimeout: l.TermTimeout,
		killTimeout: l.KillTimeout,
	}, nil
}

func (l *FFmpegLauncher) bin() string {
	if l.Bin == "" {
		return ffmpeg.DefaultBin
	}
	return l.Bin
}

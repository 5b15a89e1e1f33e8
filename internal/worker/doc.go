// Package worker provides relay worker lifecycle management.
//
// The package is layered bottom-up:
//
// Handle wraps one spawned FFmpeg process and its diagnostic log file:
//   - Non-blocking liveness probe (exited, and with what code)
//   - Idempotent terminate with SIGINT then SIGKILL escalation
//   - Exactly-once release of the log file
//
// Launcher is the spawn capability, implemented by FFmpegLauncher for real
// workers and substitutable with a fake in tests.
//
// Registry maps feed ids to at most one live Handle and guarantees
// exactly-once log release on removal and best-effort drain on shutdown.
//
// Supervisor composes the three with a source Validator into the
// reconciliation loop: validate, launch, poll, detect exit, revalidate,
// relaunch or abandon. A feed that fails validation or launch at any point
// is abandoned for the rest of the run.
//
// Example:
//
//	sup := worker.NewSupervisor(&worker.Options{
//	    Feeds:     feeds,
//	    Validator: probe.NewRTSP(logger),
//	    Launcher:  worker.NewFFmpegLauncher("/var/log/camrelay", logger),
//	})
//	go sup.Run()
//	defer sup.Shutdown()
package worker

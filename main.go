package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/camrelay/cmd"
	"github.com/smazurov/camrelay/internal/config"
	"github.com/smazurov/camrelay/internal/ffmpeg"
	"github.com/smazurov/camrelay/internal/logging"
	"github.com/smazurov/camrelay/internal/metrics"
	"github.com/smazurov/camrelay/internal/pidfile"
	"github.com/smazurov/camrelay/internal/probe"
	"github.com/smazurov/camrelay/internal/worker"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Feeds settings
	FeedsFile string `help:"Feed definitions file (CSV: id,source,destination)" short:"f" default:"cameras.csv" toml:"feeds.file" env:"FEEDS_FILE"`
	LogDir    string `help:"Directory for per-feed worker logs" default:"." toml:"feeds.log_dir" env:"LOG_DIR"`

	// Daemon settings
	PidFile      string `help:"Single-instance PID file" default:"camrelay.pid" toml:"daemon.pid_file" env:"PID_FILE"`
	PollInterval string `help:"Worker liveness polling interval" default:"10s" toml:"daemon.poll_interval" env:"POLL_INTERVAL"`
	ProbeTimeout string `help:"Source validation timeout" default:"5s" toml:"daemon.probe_timeout" env:"PROBE_TIMEOUT"`
	FfmpegBin    string `help:"FFmpeg binary" default:"ffmpeg" toml:"daemon.ffmpeg_bin" env:"FFMPEG_BIN"`

	// Observability settings
	MetricsAddr string `help:"Prometheus metrics listen address (empty disables)" default:"" toml:"metrics.addr" env:"METRICS_ADDR"`

	// Logging settings
	LoggingLevel      string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat     string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSupervisor string `help:"Supervisor logging level" default:"info" toml:"logging.supervisor" env:"LOGGING_SUPERVISOR"`
	LoggingProbe      string `help:"Source probe logging level" default:"info" toml:"logging.probe" env:"LOGGING_PROBE"`
	LoggingWorker     string `help:"Worker launcher logging level" default:"info" toml:"logging.worker" env:"LOGGING_WORKER"`
}

// parseInterval parses a duration option, falling back to def on bad input.
func parseInterval(value string, def time.Duration, logger logging.Logger, name string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn("Invalid duration, using default", "option", name, "value", value, "default", def)
		return def
	}
	return d
}

func main() {
	// Create Huma CLI
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			logging.GetLogger("main").Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"supervisor": opts.LoggingSupervisor,
				"probe":      opts.LoggingProbe,
				"worker":     opts.LoggingWorker,
			},
		})

		logger := logging.GetLogger("main")

		// Single-instance guard before anything else
		if err := pidfile.Acquire(opts.PidFile); err != nil {
			logger.Error("Another instance is running", "error", err)
			os.Exit(1)
		}

		// FFmpeg must be available before any feed processing begins
		if err := ffmpeg.Check(opts.FfmpegBin); err != nil {
			logger.Error("FFmpeg is not installed or not found in PATH", "error", err)
			pidfile.Release(opts.PidFile)
			os.Exit(1)
		}

		feeds, err := config.LoadFeeds(opts.FeedsFile)
		if err != nil {
			logger.Error("Failed to load feeds", "file", opts.FeedsFile, "error", err)
			pidfile.Release(opts.PidFile)
			os.Exit(1)
		}
		logger.Info("Loaded feeds", "count", len(feeds), "file", opts.FeedsFile)

		validator := probe.NewRTSP(logging.GetLogger("probe"))
		validator.Timeout = parseInterval(opts.ProbeTimeout, probe.DefaultTimeout, logger, "probe-timeout")

		launcher := worker.NewFFmpegLauncher(opts.LogDir, logging.GetLogger("worker"))
		launcher.Bin = opts.FfmpegBin

		sup := worker.NewSupervisor(&worker.Options{
			Feeds:        feeds,
			Validator:    validator,
			Launcher:     launcher,
			PollInterval: parseInterval(opts.PollInterval, worker.DefaultPollInterval, logger, "poll-interval"),
			Logger:       logging.GetLogger("supervisor"),
		})

		var metricsServer *http.Server
		if opts.MetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			metricsServer = &http.Server{Addr: opts.MetricsAddr, Handler: mux}
		}

		hooks.OnStart(func() {
			if metricsServer != nil {
				go func() {
					logger.Info("Starting metrics server", "addr", opts.MetricsAddr)
					if serveErr := metricsServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
						logger.Error("Metrics server failed", "error", serveErr)
					}
				}()
			}

			logger.Info("Starting relay supervisor", "feeds", len(feeds))
			sup.Run()

			// All feeds abandoned on their own: nothing left to
			// supervise, so exit instead of idling until a signal.
			if !sup.ShutdownRequested() {
				if metricsServer != nil {
					_ = metricsServer.Close()
				}
				pidfile.Release(opts.PidFile)
				os.Exit(0)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			sup.Shutdown()
			if metricsServer != nil {
				_ = metricsServer.Close()
			}
			pidfile.Release(opts.PidFile)
		})
	})

	// Add validate-feeds command
	cli.Root().AddCommand(cmd.CreateValidateFeedsCmd())

	// Add single-feed relay command
	cli.Root().AddCommand(cmd.CreateRelayCmd())

	// Add init command
	cli.Root().AddCommand(cmd.CreateInitCmd())

	// Add version command
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smazurov/camrelay/internal/config"
	"github.com/smazurov/camrelay/internal/logging"
	"github.com/smazurov/camrelay/internal/probe"
	"github.com/smazurov/camrelay/internal/worker"
	"github.com/spf13/cobra"
)

// relayPollInterval is how often the foreground relay checks its worker.
const relayPollInterval = time.Second

// CreateRelayCmd creates the relay command.
func CreateRelayCmd() *cobra.Command {
	var feedsFile string
	var logDir string
	var skipValidate bool
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "relay [feed-id]",
		Short: "Run a single feed's relay worker in the foreground",
		Long: `Validates the feed's source and runs its FFmpeg relay worker until the ` +
			`worker exits or a termination signal arrives. Useful for debugging one feed ` +
			`without starting the full supervisor.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			feedID := args[0]

			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("relay").With("feed_id", feedID)

			feeds, err := config.LoadFeeds(feedsFile)
			if err != nil {
				logger.Error("Failed to load feeds", "file", feedsFile, "error", err)
				os.Exit(1)
			}

			var feed config.Feed
			found := false
			for _, f := range feeds {
				if f.ID == feedID {
					feed = f
					found = true
					break
				}
			}
			if !found {
				logger.Error("Feed not found", "file", feedsFile)
				os.Exit(1)
			}

			if !skipValidate {
				validator := probe.NewRTSP(logging.GetLogger("probe"))
				if !validator.Validate(context.Background(), feed.SourceURL) {
					logger.Error("Source validation failed")
					os.Exit(1)
				}
			}

			launcher := worker.NewFFmpegLauncher(logDir, logger)
			handle, err := launcher.Launch(feed.ID, feed.SourceURL, feed.DestinationURL)
			if err != nil {
				logger.Error("Failed to launch worker", "error", err)
				os.Exit(1)
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			ticker := time.NewTicker(relayPollInterval)
			defer ticker.Stop()

			for {
				select {
				case sig := <-sigChan:
					logger.Info("Received shutdown signal", "signal", sig.String())
					handle.Terminate()
					_ = handle.Close()
					return
				case <-ticker.C:
					if exited, code := handle.Exited(); exited {
						logger.Info("Worker exited", "exit_code", code)
						_ = handle.Close()
						if code != 0 {
							os.Exit(1)
						}
						return
					}
				}
			}
		},
	}

	cmd.Flags().StringVarP(&feedsFile, "feeds", "f", "cameras.csv", "Feed definitions file")
	cmd.Flags().StringVar(&logDir, "log-dir", ".", "Directory for the worker log")
	cmd.Flags().BoolVar(&skipValidate, "skip-validate", false, "Launch without probing the source first")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")

	return cmd
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/smazurov/camrelay/internal/config"
	"github.com/smazurov/camrelay/internal/logging"
	"github.com/smazurov/camrelay/internal/probe"
	"github.com/spf13/cobra"
)

// CreateValidateFeedsCmd creates the validate-feeds command.
func CreateValidateFeedsCmd() *cobra.Command {
	var feedsFile string
	var timeout time.Duration
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "validate-feeds",
		Short: "Probe every configured feed source",
		Long: `Checks each feed's RTSP source for reachability and media availability ` +
			`without launching any relay workers. Exits non-zero when no feed validates.`,
		Run: func(_ *cobra.Command, _ []string) {
			loggingConfig := logging.Config{
				Level:  "warn",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("validate")

			feeds, err := config.LoadFeeds(feedsFile)
			if err != nil {
				logger.Error("Failed to load feeds", "file", feedsFile, "error", err)
				os.Exit(1)
			}

			validator := probe.NewRTSP(logging.GetLogger("probe"))
			validator.Timeout = timeout

			valid := 0
			for _, feed := range feeds {
				if validator.Validate(context.Background(), feed.SourceURL) {
					valid++
					fmt.Printf("%s\tok\n", feed.ID)
				} else {
					fmt.Printf("%s\tunreachable\n", feed.ID)
				}
			}

			fmt.Printf("%d/%d feeds valid\n", valid, len(feeds))
			if valid == 0 {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&feedsFile, "feeds", "f", "cameras.csv", "Feed definitions file")
	cmd.Flags().DurationVar(&timeout, "timeout", probe.DefaultTimeout, "Per-feed probe timeout")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Output logs in JSON format")

	return cmd
}

package cmd

import (
	"fmt"
	"os"

	"github.com/smazurov/camrelay/internal/config"
	"github.com/spf13/cobra"
)

// CreateInitCmd creates the init command.
func CreateInitCmd() *cobra.Command {
	var feedsFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example feed definitions file",
		Run: func(_ *cobra.Command, _ []string) {
			if err := config.WriteExampleFeeds(feedsFile); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("Wrote example feeds to %s\n", feedsFile)
		},
	}

	cmd.Flags().StringVarP(&feedsFile, "feeds", "f", "cameras.csv", "Feed definitions file to create")

	return cmd
}

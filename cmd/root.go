// Package cmd defines and implements the CLI commands for the
// archivecast executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archivecast",
		Short: "Podcast feed service for the amroutes.org episode archive",
		Long: `archivecast crawls the amroutes.org episode archive on demand and
republishes it as an RSS/iTunes podcast feed and a browsable HTML page.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

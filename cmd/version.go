package cmd

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/sheenazien8/lazydb/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s/%s)\n",
			color.New(color.Bold).Sprint("lazydb"), version.Version, runtime.GOOS, runtime.GOARCH)
	},
}

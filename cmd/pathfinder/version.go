package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/supportkit/pathfinder"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pathfinder release and Go runtime",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pathfinder version %s (%s %s/%s)\n",
			pathfinder.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

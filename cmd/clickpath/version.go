package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/clickpath"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of clickpath",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "clickpath version %s\n", strings.TrimSpace(clickpath.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

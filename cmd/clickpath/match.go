package main

import (
	"fmt"

	"github.com/aretw0/clickpath/internal/cli"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match --url <url> <files|dirs>...",
	Short: "Show which tours apply to a URL",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		files, err := cli.ExpandFiles(args)
		if err != nil {
			return err
		}
		tours, err := cli.LoadFiles(files)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		cli.Match(cmd.OutOrStdout(), url, tours)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().String("url", "", "URL to test")
	_ = matchCmd.MarkFlagRequired("url")
}

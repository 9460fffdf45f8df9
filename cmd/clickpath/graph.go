package main

import (
	"fmt"

	"github.com/aretw0/clickpath/internal/cli"
	"github.com/aretw0/clickpath/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <files|dirs>...",
	Short: "Print a Mermaid flowchart of a tour",
	Long: `Renders the pages and steps of a tour as a Mermaid flowchart.
Paste the output into any Mermaid renderer (GitHub, mermaid.live).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tourID, _ := cmd.Flags().GetString("tour")
		files, err := cli.ExpandFiles(args)
		if err != nil {
			return err
		}
		tours, err := cli.LoadFiles(files)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		tour, err := cli.PickTour(tours, tourID)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(*tour, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("tour", "t", "", "Tour id (defaults to the first tour found)")
}

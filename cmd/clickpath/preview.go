package main

import (
	"os"

	"github.com/aretw0/clickpath/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file|dir>",
	Short: "Play a tour in the terminal",
	Long: `Plays a tour against a virtual page, one step at a time.
Type n, b, s or q followed by Enter to move next, back, skip or quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		tourID, _ := cmd.Flags().GetString("tour")
		url, _ := cmd.Flags().GetString("url")
		headless, _ := cmd.Flags().GetBool("headless")
		verbose, _ := cmd.Flags().GetBool("verbose")

		tty := term.IsTerminal(int(os.Stdout.Fd()))
		width := 0
		if tty {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
				width = min(w-2, 80)
			}
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Preview(sigCtx, cli.PreviewOptions{
			Files:    args,
			TourID:   tourID,
			URL:      url,
			Input:    os.Stdin,
			Output:   os.Stdout,
			Headless: headless,
			TTY:      tty,
			Width:    width,
			Verbose:  verbose,
			Logger:   logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("tour", "", "ID of the tour to play (default: the first one)")
	previewCmd.Flags().String("url", "", "URL of the virtual page")
	previewCmd.Flags().Bool("headless", false, "Print every step without prompting")
	previewCmd.Flags().BoolP("verbose", "v", false, "Show target and tooltip positions")
}

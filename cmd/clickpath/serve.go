package main

import (
	"context"
	"os"

	"github.com/aretw0/clickpath/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP command server",
	Long: `Starts the ClickPath engine and exposes its commands over HTTP, with an event
stream (SSE and WebSocket) and Prometheus metrics.

With --browser a Chromium page is opened through Playwright and tours render
inside it; otherwise steps are printed to the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Server.Addr, _ = flags.GetString("addr")
		}
		if flags.Changed("browser") {
			cfg.Browser.Enabled, _ = flags.GetBool("browser")
		}
		if flags.Changed("headless") {
			cfg.Browser.Headless, _ = flags.GetBool("headless")
		}
		if flags.Changed("url") {
			cfg.Browser.StartURL, _ = flags.GetString("url")
		}
		if flags.Changed("tours") {
			cfg.BundledDir, _ = flags.GetString("tours")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		watch, _ := flags.GetBool("watch")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, cli.ServeOptions{
			Config: cfg,
			Logger: logger,
			Output: os.Stdout,
			Watch:  watch,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config)")
	serveCmd.Flags().Bool("browser", false, "Open a Playwright browser session")
	serveCmd.Flags().Bool("headless", true, "Run the browser without a window")
	serveCmd.Flags().String("url", "", "Page to open or emulate")
	serveCmd.Flags().String("tours", "", "Directory of bundled tour files")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload tours when files in the tour directory change")
}

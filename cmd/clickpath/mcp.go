package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/clickpath/internal/cli"
	"github.com/aretw0/clickpath/pkg/adapters/mcp"
	"github.com/aretw0/clickpath/pkg/adapters/memory"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the ClickPath engine as an MCP Server against a virtual page.
This allows AI agents to list, start and drive tours as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")
		url, _ := cmd.Flags().GetString("url")
		if url == "" {
			url = cfg.Browser.StartURL
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		store, closer, err := cli.OpenStore(sigCtx, cfg.Storage)
		if err != nil {
			return err
		}
		defer closer.Close()

		engine, err := cli.NewEngine(cfg, cli.EngineOptions{
			Page:    memory.NewPage(url, domain.Size{Width: float64(cfg.Browser.Width), Height: float64(cfg.Browser.Height)}),
			Overlay: memory.NewOverlay(domain.Size{Width: 320, Height: 160}),
			Store:   store,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		if err := engine.Init(sigCtx); err != nil {
			return err
		}

		srv := mcp.NewServer(engine, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting ClickPath MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			return srv.ServeSSE(sigCtx, addr, "http://"+addr)
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", "127.0.0.1:8766", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("url", "", "URL of the virtual page the tours run against")
}

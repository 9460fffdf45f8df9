/*
Package clickpath is a guided product tour engine. It overlays step-by-step
tours onto pages of a host web application: it matches the current URL
against a tour's pages, highlights elements, positions a tooltip next to
them and advances through steps while persisting progress.

# Concept

A tour is authored data (JSON or YAML). The Engine owns the loaded catalog,
the active theme and at most one live tour. The page being toured and the
overlay drawn on top of it are ports, so the same engine runs against a
real browser (pkg/adapters/browser), an in-memory fake (pkg/adapters/memory)
or a terminal preview (internal/presentation/tui).

Tours are loaded through a fallback chain: the host API, then the local
cache, then tours bundled with the binary. Nothing in that chain is fatal;
the worst outcome is an empty catalog.

# Usage

	page := memory.NewPage("https://app.example/dashboard", domain.Size{Width: 1280, Height: 800})
	overlay := memory.NewOverlay(domain.Size{Width: 320, Height: 160})

	eng := clickpath.New(page, overlay,
		clickpath.WithBundled(bundled.Default()),
		clickpath.WithStore(store),
	)
	if err := eng.Init(ctx); err != nil {
		log.Fatal(err)
	}

	resp := eng.Dispatch(ctx, domain.Command{Type: domain.CmdStartTour})
	if !resp.Success {
		log.Println(resp.Error)
	}

Commands arrive through Dispatch from any surface (HTTP, MCP, browser
callbacks) and are serialized by the engine.
*/
package clickpath

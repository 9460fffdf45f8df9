package clickpath

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Runner drives a tour from line-based input, one command per line.
// Rendering is left to the engine's overlay; the runner only navigates.
// This allows for easy testing and terminal previews of tours.
type Runner struct {
	Input  io.Reader
	Output io.Writer

	// Headless advances through every step without reading input.
	Headless bool
}

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts the tour and navigates it until it ends or input runs out.
func (r *Runner) Run(ctx context.Context, engine *Engine, tourID string) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	if r.Input == nil && !r.Headless {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}

	if err := engine.StartTour(ctx, tourID); err != nil {
		return fmt.Errorf("failed to start tour: %w", err)
	}

	if r.Headless {
		for engine.State() != nil {
			if err := engine.NextStep(ctx); err != nil {
				return fmt.Errorf("navigation error: %w", err)
			}
		}
		return nil
	}

	lineReader := bufio.NewReader(r.Input)
	for engine.State() != nil {
		fmt.Fprint(r.Output, "[n]ext [b]ack [s]kip [q]uit > ")
		text, err := lineReader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("input error: %w", err)
			}
			if strings.TrimSpace(text) == "" {
				// Graceful exit on EOF
				return engine.StopTour(ctx)
			}
		}

		var navErr error
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "", "n", "next":
			navErr = engine.NextStep(ctx)
		case "b", "p", "back", "prev":
			navErr = engine.PrevStep(ctx)
		case "s", "skip":
			navErr = engine.SkipTour(ctx)
		case "q", "quit", "exit":
			fmt.Fprintln(r.Output, "Bye!")
			return engine.StopTour(ctx)
		default:
			fmt.Fprintf(r.Output, "unknown command %q\n", strings.TrimSpace(text))
		}
		if navErr != nil {
			return fmt.Errorf("navigation error: %w", navErr)
		}
	}
	return nil
}

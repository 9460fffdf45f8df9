package clickpath

import (
	"context"
	"errors"

	"github.com/aretw0/clickpath/pkg/domain"
)

// ErrUnknownCommand is returned for command types the engine does not handle.
var ErrUnknownCommand = errors.New("unknown command type")

// Dispatch executes a command and wraps the outcome in a Response.
// It never panics and never returns a Go error: failures become
// {success: false, error}.
func (e *Engine) Dispatch(ctx context.Context, cmd domain.Command) domain.Response {
	data, err := e.Execute(ctx, cmd)
	if err != nil {
		e.logger.Debug("command failed", "type", cmd.Type, "error", err)
		return domain.Fail(err)
	}
	return domain.OK(data)
}

// Execute runs a command and returns its data or the underlying error,
// for surfaces that map errors themselves.
func (e *Engine) Execute(ctx context.Context, cmd domain.Command) (any, error) {
	switch cmd.Type {
	case domain.CmdPing:
		return map[string]any{"installed": true}, nil

	case domain.CmdStartTour:
		if err := e.StartTour(ctx, cmd.TourID); err != nil {
			return nil, err
		}
		return e.State(), nil

	case domain.CmdStopTour:
		return nil, e.StopTour(ctx)

	case domain.CmdNextStep:
		return e.afterStep(e.NextStep(ctx))

	case domain.CmdPrevStep:
		return e.afterStep(e.PrevStep(ctx))

	case domain.CmdSkipTour:
		return e.afterStep(e.SkipTour(ctx))

	case domain.CmdGetTours:
		return e.Tours(), nil

	case domain.CmdGetState:
		return e.State(), nil

	case domain.CmdGetTheme:
		return e.Theme(), nil

	case domain.CmdSetTheme:
		if cmd.Theme != "" {
			return e.SetThemeName(ctx, cmd.Theme)
		}
		return e.SetTheme(ctx, cmd.Colors)

	case domain.CmdFetchTours:
		return e.Refresh(ctx), nil

	case domain.CmdResetProgress:
		return nil, e.ResetProgress(ctx, cmd.TourID)

	default:
		return nil, ErrUnknownCommand
	}
}

func (e *Engine) afterStep(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return e.State(), nil
}

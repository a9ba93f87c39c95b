package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/temirov/ctxcopy/internal/session"
)

// Run starts the browser in the alternate screen and blocks until the user
// quits. welcome shows the first-run hint.
func Run(ctx context.Context, controller *session.Controller, load LoadFunc, welcome bool, options ...tea.ProgramOption) error {
	model := NewModel(ctx, controller, load)
	if welcome {
		model = model.WithWelcome()
	}
	programOptions := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, options...)
	program := tea.NewProgram(model, programOptions...)
	controller.Subscribe(func(update session.Update) {
		program.Send(sessionUpdateMsg{update: update})
	})
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

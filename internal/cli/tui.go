package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studyloop/cadence/internal/tui"
)

type TuiCmd struct{}

func (cmd *TuiCmd) Run(ctx *Context) error {
	model := tui.NewModel(ctx.Store, ctx.Engine, ctx.UserID)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

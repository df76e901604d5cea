package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/casectl/casectl/internal/workflow"
)

// Run starts the bubbletea workbench in alt-screen mode and blocks until
// the user quits.
func Run(ctrl *workflow.Controller, cfg Config) error {
	p := tea.NewProgram(NewModel(ctrl, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

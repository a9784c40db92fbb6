package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/datatalk-ai/datatalk/applog"
	"github.com/datatalk-ai/datatalk/config"
)

// Start loads configuration and runs the chat shell until exit.
func Start() error {
	store, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applog.Info("starting datatalk v%s", appVersion)

	app := NewApp(store)
	program := tea.NewProgram(app, tea.WithAltScreen())

	_, err = program.Run()
	applog.Sync()
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// Package cmd contains all Cobra commands for datatalk.
//
// The root command launches the chat TUI directly. Provider setup
// happens inside the TUI on first run, not via CLI flags. Running
// `datatalk` with no arguments drops you straight into the chat.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datatalk-ai/datatalk/config"
	"github.com/datatalk-ai/datatalk/tui"
)

var rootCmd = &cobra.Command{
	Use:     "datatalk",
	Short:   "Chat with your data and build ML models from the terminal",
	Version: "0.1.0",
	Long: `datatalk is a terminal AI assistant for tabular data:
  • Load CSV, TSV, JSON, Parquet, or Excel files
  • Connect to PostgreSQL or SQLite databases
  • Chat with an AI (Anthropic, OpenAI, Ollama, OpenRouter)
  • Analyze datasets and pick prediction targets

Run 'datatalk' to start chatting.`,
	// Running with no subcommand launches the TUI.
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Start()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.Load()
		if err != nil {
			return err
		}
		provider := store.Provider()
		if provider == "" {
			fmt.Println("No provider configured. Run 'datatalk' to set one up.")
			return nil
		}
		fmt.Printf("provider: %s\n", provider)
		fmt.Printf("model:    %s\n", store.Model())
		if provider.RequiresKey() {
			fmt.Printf("api key:  %s\n", store.MaskedKey())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

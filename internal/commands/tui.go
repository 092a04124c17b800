package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"daily/internal/auth"
	"daily/internal/task"
	"daily/internal/ui"
)

func addTUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive planner.",
		Example: `
daily tui
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

// runTUI hands the terminal to bubbletea. Logs go to the configured log
// file while the program owns the screen.
func runTUI(ctx context.Context) error {
	e, err := loadEnv(nil)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.cfg.LogPath != "" {
		f, err := tea.LogToFile(e.cfg.LogPath, "daily")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		e.logger.SetOutput(f)
	}
	e.logger.Printf("starting ui, store=%s", e.cfg.Store)

	tasks, err := task.Load(e.store, e.logger)
	if err != nil {
		return err
	}
	provider := auth.NewProvider(e.gotrue, e.logger)
	defer provider.Close()

	return ui.Run(ctx, ui.Deps{
		Tasks:  tasks,
		Auth:   provider,
		Config: e.cfg,
		Logger: e.logger,
	})
}

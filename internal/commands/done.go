package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"daily/internal/motivation"
	"daily/internal/printer"
	"daily/internal/task"
)

func addDone(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "done ID",
		Aliases: []string{"complete", "toggle"},
		Short:   "Toggle a task between active and completed.",
		Example: `
daily done 0b1c2d3e
`,
		Args: requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd.Context(), func(_ *env, m *task.Model) error {
				id, err := resolveID(m, args[0])
				if err != nil {
					return err
				}
				before := task.Summarize(m.Tasks())
				if err := m.ToggleCompleted(id); err != nil {
					return err
				}
				t, _ := m.Get(id)
				state := "Reopened"
				if t.Completed {
					state = "Completed"
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", state, printer.ShortID(id), t.Text)
				if err == nil && motivation.Celebrate(before, task.Summarize(m.Tasks())) {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "All tasks complete! Great work today.")
				}
				return err
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task.",
		Example: `
daily rm 0b1c2d3e
`,
		Args: requireID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd.Context(), func(_ *env, m *task.Model) error {
				id, err := resolveID(m, args[0])
				if err != nil {
					return err
				}
				t, _ := m.Get(id)
				if err := m.Delete(id); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s\n", printer.ShortID(id), t.Text)
				return err
			})
		},
	}

	topLevel.AddCommand(cmd)
}

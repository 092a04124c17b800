package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daily/internal/form"
	"daily/internal/printer"
	"daily/internal/task"
)

type addOptions struct {
	Category string
	Priority string
	Date     string
	Time     string
	Start    string
	End      string
}

func addAdd(topLevel *cobra.Command) {
	o := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add TEXT",
		Short: "Add a task.",
		Example: `
daily add "Write the weekly report" --category work --priority high --date 2024-06-14
daily add "Gym" --category health --date 2024-06-14 --start 18:00 --end 19:00
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires the task text")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTasks(cmd.Context(), func(_ *env, m *task.Model) error {
				c, err := o.draft(strings.Join(args, " "))
				if err != nil {
					return err
				}
				id, err := c.Submit(m)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", printer.ShortID(id))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&o.Category, "category", "c", string(task.Work),
		"One of work, personal, health, learning, errands.")
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", string(task.Medium),
		"One of high, medium, low.")
	cmd.Flags().StringVar(&o.Date, "date", "", `Scheduled date, example: --date="2024-06-14".`)
	cmd.Flags().StringVar(&o.Time, "time", "", `Scheduled time of day, example: --time="09:30".`)
	cmd.Flags().StringVar(&o.Start, "start", "", "Start of a time block (HH:MM).")
	cmd.Flags().StringVar(&o.End, "end", "", "End of a time block (HH:MM).")

	topLevel.AddCommand(cmd)
}

// draft fills a form controller the way the interactive form would. The
// time range is on when either end was given.
func (o *addOptions) draft(text string) (*form.Controller, error) {
	c := form.New()
	c.SetText(text)
	if err := c.SetCategory(o.Category); err != nil {
		return nil, err
	}
	if err := c.SetPriority(o.Priority); err != nil {
		return nil, err
	}
	c.SetScheduledDate(o.Date)
	c.SetScheduledTime(o.Time)
	if o.Start != "" || o.End != "" {
		c.SetRangeEnabled(true)
		c.SetStartTime(o.Start)
		c.SetEndTime(o.End)
	}
	return c, nil
}

package commands

import (
	"time"

	"github.com/spf13/cobra"

	"daily/internal/printer"
	"daily/internal/task"
	"daily/internal/view"
)

type listOptions struct {
	View     string
	Status   string
	Category string
	Date     string
	IDs      bool
}

func addList(topLevel *cobra.Command) {
	o := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "get"},
		Short:   "Show tasks in one of the planner views.",
		Example: `
daily list
daily list --view matrix --status active
daily list --view week --date 2024-06-10
daily list --view month --category health
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTasks(cmd.Context(), func(e *env, m *task.Model) error {
				sel, err := o.selector(e, time.Now())
				if err != nil {
					return err
				}
				p := printer.New(cmd.OutOrStdout())
				p.ShowID = o.IDs
				tasks := m.Tasks()
				p.Result(sel.Route(tasks, time.Now()), sel)
				p.Progress(task.Summarize(tasks))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&o.View, "view", "", "One of list, matrix, timetable, week, month (default from config).")
	cmd.Flags().StringVar(&o.Status, "status", "", "One of all, active, completed (default from config).")
	cmd.Flags().StringVar(&o.Category, "category", "", "all or a category (default from config).")
	cmd.Flags().StringVar(&o.Date, "date", "", "Day the timetable, week and month views show (YYYY-MM-DD, default today).")
	cmd.Flags().BoolVar(&o.IDs, "ids", true, "Print task ids.")

	topLevel.AddCommand(cmd)
}

// selector starts from the config defaults and applies any flags given.
func (o *listOptions) selector(e *env, now time.Time) (view.Selector, error) {
	sel := view.NewSelector(now)
	sel.WeekStart = e.cfg.FirstWeekday()
	sel.UrgencyDays = e.cfg.UrgencyDays

	pick := func(flag, fallback string) string {
		if flag != "" {
			return flag
		}
		return fallback
	}
	var err error
	if sel.Mode, err = view.ParseMode(pick(o.View, e.cfg.DefaultView)); err != nil {
		return sel, err
	}
	if sel.Status, err = task.ParseStatus(pick(o.Status, e.cfg.DefaultFilter)); err != nil {
		return sel, err
	}
	if sel.Category, err = task.ParseCategoryFilter(pick(o.Category, e.cfg.DefaultCategory)); err != nil {
		return sel, err
	}
	if o.Date != "" {
		d, err := time.ParseInLocation(task.DateLayout, o.Date, time.Local)
		if err != nil {
			return sel, err
		}
		sel.Anchor = d
	}
	return sel, nil
}

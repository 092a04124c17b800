// Package printer writes tasks and views to a terminal for the CLI
// subcommands.
package printer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"daily/internal/motivation"
	"daily/internal/task"
	"daily/internal/view"
)

type Pretty struct {
	Out    io.Writer
	ShowID bool
	Now    time.Time
}

func New(out io.Writer) *Pretty {
	if out == nil {
		out = color.Output
	}
	return &Pretty{Out: out, ShowID: true, Now: time.Now()}
}

var (
	titleColor    = color.New(color.Bold, color.Underline)
	faint         = color.New(color.Faint)
	noneColor     = color.New(color.Faint, color.Italic)
	idColor       = color.New(color.FgHiYellow, color.Faint)
	doneColor     = color.New(color.Faint, color.CrossedOut)
	priorityColor = map[task.Priority]*color.Color{
		task.High:   color.New(color.FgRed, color.Bold),
		task.Medium: color.New(color.FgYellow),
		task.Low:    color.New(color.FgGreen),
	}
)

func (p *Pretty) NewLine() {
	_, _ = fmt.Fprintln(p.Out)
}

func (p *Pretty) Title(title string) {
	_, _ = titleColor.Fprintln(p.Out, title)
}

func (p *Pretty) TitleWithCount(title string, count int) {
	_, _ = titleColor.Fprint(p.Out, title)
	_, _ = faint.Fprintf(p.Out, " - %d", count)
	if count == 1 {
		_, _ = faint.Fprintln(p.Out, " task")
	} else {
		_, _ = faint.Fprintln(p.Out, " tasks")
	}
}

// Tasks prints one row per task. Dates are shown when showDate is set.
func (p *Pretty) Tasks(tasks []task.Task, showDate bool) {
	if len(tasks) == 0 {
		_, _ = noneColor.Fprint(p.Out, " none\n\n")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	for _, t := range tasks {
		row := []any{}
		if p.ShowID {
			row = append(row, idColor.Sprint(ShortID(t.ID)))
		}
		check, text := "[ ]", t.Text
		if t.Completed {
			check, text = "[x]", doneColor.Sprint(t.Text)
		}
		prio := t.Priority.Label()
		if c, ok := priorityColor[t.Priority]; ok {
			prio = c.Sprint(prio)
		}
		row = append(row, check, text, t.Category.Label(), prio, when(t, showDate))
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(p.Out, tbl)
	p.NewLine()
}

// Result prints whatever the selector routed, in the same grouping the
// TUI uses.
func (p *Pretty) Result(r view.Result, sel view.Selector) {
	switch r.Mode {
	case view.Matrix:
		for _, q := range task.Quadrants() {
			p.TitleWithCount(q.String(), len(r.Matrix[q]))
			p.Tasks(r.Matrix[q], true)
		}
	case view.Timetable, view.Week, view.Month:
		for _, d := range r.Days {
			if r.Mode == view.Month && len(d.Tasks) == 0 {
				continue
			}
			p.TitleWithCount(p.dayTitle(d.Date), len(d.Tasks))
			p.Tasks(d.Tasks, false)
		}
		if len(r.Backlog) > 0 {
			p.TitleWithCount("Unscheduled", len(r.Backlog))
			p.Tasks(r.Backlog, false)
		}
	default:
		p.TitleWithCount(fmt.Sprintf("%s (%s, %s)", r.Mode.Title(), sel.Status, sel.Category), len(r.Tasks))
		p.Tasks(r.Tasks, true)
	}
}

func (p *Pretty) dayTitle(d time.Time) string {
	title := d.Format("Monday, Jan 2")
	if d.Format(task.DateLayout) == p.Now.Format(task.DateLayout) {
		title += " (today)"
	}
	return title
}

// Progress prints the completion summary with its encouragement line.
func (p *Pretty) Progress(pr task.Progress) {
	_, _ = fmt.Fprintf(p.Out, "%d/%d done (%d%%)", pr.Completed, pr.Total, pr.Percent())
	if pr.HighRemaining > 0 {
		_, _ = priorityColor[task.High].Fprintf(p.Out, ", %d high priority left", pr.HighRemaining)
	}
	p.NewLine()
	_, _ = faint.Fprintln(p.Out, motivation.Encouragement(pr))
}

// ShortID trims a uuid to its first block for display. Commands accept
// any unique prefix.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func when(t task.Task, showDate bool) string {
	var parts []string
	if showDate && t.ScheduledDate != "" {
		parts = append(parts, t.ScheduledDate)
	}
	switch t.Kind() {
	case task.KindBlock:
		parts = append(parts, t.StartTime+"-"+t.EndTime)
	case task.KindReminder:
		parts = append(parts, t.ScheduledTime)
	}
	return strings.Join(parts, " ")
}

package task

// Progress summarizes a collection for the progress bar and dashboard.
type Progress struct {
	Total         int
	Completed     int
	HighRemaining int
	Scheduled     int
	ByCategory    map[Category]Tally
}

type Tally struct {
	Total     int
	Completed int
}

func Summarize(tasks []Task) Progress {
	p := Progress{ByCategory: make(map[Category]Tally, len(Categories()))}
	for _, t := range tasks {
		p.Total++
		tally := p.ByCategory[t.Category]
		tally.Total++
		if t.Completed {
			p.Completed++
			tally.Completed++
		} else if t.Priority == High {
			p.HighRemaining++
		}
		if t.ScheduledDate != "" {
			p.Scheduled++
		}
		p.ByCategory[t.Category] = tally
	}
	return p
}

// Percent is the rounded-down share of completed tasks, 0 for an empty list.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

func (p Progress) Remaining() int { return p.Total - p.Completed }

// AllDone reports a non-empty list with nothing left open.
func (p Progress) AllDone() bool {
	return p.Total > 0 && p.Completed == p.Total
}

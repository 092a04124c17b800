// Package motivation picks the daily quote, affirmation and tip shown
// above the task list, and decides when to celebrate.
package motivation

import (
	"time"

	"daily/internal/task"
)

type Quote struct {
	Text   string
	Author string
}

var quotes = []Quote{
	{"The secret of getting ahead is getting started.", "Mark Twain"},
	{"It always seems impossible until it's done.", "Nelson Mandela"},
	{"Well done is better than well said.", "Benjamin Franklin"},
	{"You don't have to see the whole staircase, just take the first step.", "Martin Luther King Jr."},
	{"Action is the foundational key to all success.", "Pablo Picasso"},
	{"Small deeds done are better than great deeds planned.", "Peter Marshall"},
	{"Focus on being productive instead of busy.", "Tim Ferriss"},
	{"Start where you are. Use what you have. Do what you can.", "Arthur Ashe"},
	{"The way to get started is to quit talking and begin doing.", "Walt Disney"},
	{"Do the hard jobs first. The easy jobs will take care of themselves.", "Dale Carnegie"},
}

var affirmations = []string{
	"I am capable of completing what matters today.",
	"Every task I finish moves me forward.",
	"I choose progress over perfection.",
	"I have the focus and energy I need.",
	"I am proud of the effort I put in.",
	"I handle challenges calmly, one step at a time.",
	"My time is valuable and I use it well.",
}

var tips = []string{
	"Break big tasks into steps you can finish in under an hour.",
	"Tackle your most important task before checking messages.",
	"Give every scheduled block a clear finish line.",
	"Review tomorrow's tasks before you stop for the day.",
	"Batch small errands together to save context switches.",
	"Take a short break after each focused block.",
	"If it takes less than two minutes, do it now.",
}

var weeklyGoals = []string{
	"Finish every high-priority task before Friday",
	"Schedule at least one health task each day",
	"Clear the backlog of anything older than two weeks",
	"Learn something new for 30 minutes",
}

func QuoteFor(day time.Time) Quote { return quotes[dayIndex(day, len(quotes))] }

func AffirmationFor(day time.Time) string {
	return affirmations[dayIndex(day, len(affirmations))]
}

func TipFor(day time.Time) string { return tips[dayIndex(day, len(tips))] }

func WeeklyGoals() []string {
	out := make([]string, len(weeklyGoals))
	copy(out, weeklyGoals)
	return out
}

// dayIndex maps a calendar day to a stable index, so every pick stays the
// same for the whole day and changes at midnight.
func dayIndex(day time.Time, n int) int {
	y, m, d := day.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return int((days%int64(n) + int64(n)) % int64(n))
}

// Celebrate reports the moment the last open task got done.
func Celebrate(before, after task.Progress) bool {
	return after.AllDone() && !before.AllDone()
}

// Encouragement is the line under the progress bar.
func Encouragement(p task.Progress) string {
	switch pct := p.Percent(); {
	case p.Total == 0:
		return "Add your first task to get rolling."
	case p.AllDone():
		return "Everything is done. Enjoy the rest of your day!"
	case pct >= 75:
		return "Almost there, keep going!"
	case pct >= 50:
		return "Halfway through. Nice pace."
	case pct > 0:
		return "Good start. One task at a time."
	default:
		return "Pick one task and begin."
	}
}

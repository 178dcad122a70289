package task

import (
	"math"
	"slices"
	"time"
)

// CriticalWindowDays is the number of days below which an open task is critical.
const CriticalWindowDays = 3

const day = 24 * time.Hour

// Summary counts tasks per status.
type Summary map[Status]int

// Total returns the sum of all counts.
func (s Summary) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// Predicate selects tasks.
type Predicate func(Task) bool

// WithStatus matches tasks in the given status.
func WithStatus(s Status) Predicate {
	return func(t Task) bool { return t.Status == s }
}

// NotCompleted matches every task that is still open.
func NotCompleted(t Task) bool {
	return t.Status != StatusCompleted
}

// GenerateSummary counts the project's tasks by status. Every known status
// is present in the result, even with a zero count.
func GenerateSummary(p *Project) Summary {
	summary := make(Summary, len(Statuses))
	for _, s := range Statuses {
		summary[s] = 0
	}
	for _, t := range p.Tasks {
		summary[t.Status]++
	}
	return summary
}

// SortByDueDate returns a copy of the project's tasks ordered by due date,
// earliest first. Tasks with equal due dates keep their original order.
func SortByDueDate(p *Project) []Task {
	sorted := slices.Clone(p.Tasks)
	slices.SortStableFunc(sorted, func(a, b Task) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return sorted
}

// FilterTasks returns the tasks matching pred, in project order.
func FilterTasks(p *Project, pred Predicate) []Task {
	out := make([]Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// DaysUntil returns the fractional number of days from now until t's due date.
// Negative when the task is overdue.
func DaysUntil(t Task, now time.Time) float64 {
	return float64(t.DueDate.Sub(now)) / float64(day)
}

// RemainingDays sums the whole days left for every open task. Each task
// contributes its remaining days rounded up, or zero when overdue.
func RemainingDays(p *Project, now time.Time) int {
	total := 0
	for _, t := range FilterTasks(p, NotCompleted) {
		days := math.Ceil(DaysUntil(t, now))
		if days > 0 {
			total += int(days)
		}
	}
	return total
}

// CriticalTasks returns open tasks due in less than CriticalWindowDays,
// including overdue ones.
func CriticalTasks(p *Project, now time.Time) []Task {
	return FilterTasks(p, func(t Task) bool {
		return NotCompleted(t) && DaysUntil(t, now) < CriticalWindowDays
	})
}

// Package view derives read-only projections from a task collection: filtered
// lists, completion groups, counts and trends. Every function is pure and takes
// the current time explicitly when it needs one.
package view

import (
	"math"
	"strings"
	"time"

	"taskflow/internal/task"
)

const (
	AllCategories task.Category = "all"
	AllPriorities task.Priority = "all"
)

// Criteria selects tasks for Filter. Empty fields match everything.
type Criteria struct {
	Search   string
	Category task.Category
	Priority task.Priority
}

func (c Criteria) Match(t task.Task) bool {
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(t.Title), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	if c.Category != "" && c.Category != AllCategories && t.Category != c.Category {
		return false
	}
	if c.Priority != "" && c.Priority != AllPriorities && t.Priority != c.Priority {
		return false
	}
	return true
}

// Filter returns the tasks matching c in collection order.
func Filter(tasks []task.Task, c Criteria) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Partition splits tasks into open and completed groups, keeping relative order.
func Partition(tasks []task.Task) (incomplete, completed []task.Task) {
	incomplete = make([]task.Task, 0, len(tasks))
	completed = make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	return incomplete, completed
}

type Summary struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	DueToday       int `json:"dueToday"`
	CompletionRate int `json:"completionRate"`
}

func Summarize(tasks []task.Task, now time.Time) Summary {
	var s Summary
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			continue
		}
		if t.Overdue(now) {
			s.Overdue++
		}
		if t.DueOn(now) {
			s.DueToday++
		}
	}
	s.Pending = s.Total - s.Completed
	s.CompletionRate = percent(s.Completed, s.Total)
	return s
}

func ByCategory(tasks []task.Task) map[task.Category]int {
	counts := make(map[task.Category]int)
	for _, t := range tasks {
		counts[t.Category]++
	}
	return counts
}

func ByPriority(tasks []task.Task) map[task.Priority]int {
	counts := make(map[task.Priority]int)
	for _, t := range tasks {
		counts[t.Priority]++
	}
	return counts
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

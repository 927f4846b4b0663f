package view

import (
	"slices"

	"taskflow/internal/task"
)

type SortKey string

const (
	SortCreated  SortKey = "created"
	SortDue      SortKey = "due"
	SortPriority SortKey = "priority"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortCreated, SortDue, SortPriority:
		return true
	}
	return false
}

// Sort returns a reordered copy. Creation order is the collection's insertion
// order; ties under the other keys keep it too.
func Sort(tasks []task.Task, key SortKey) []task.Task {
	out := slices.Clone(tasks)
	switch key {
	case SortDue:
		slices.SortStableFunc(out, func(a, b task.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return a.DueDate.Compare(*b.DueDate)
		})
	case SortPriority:
		slices.SortStableFunc(out, func(a, b task.Task) int {
			return b.Priority.Rank() - a.Priority.Rank()
		})
	}
	return out
}

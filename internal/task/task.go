package task

import (
	"slices"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from least to most pressing.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

func (p Priority) Valid() bool {
	return slices.Contains(Priorities(), p)
}

// Rank orders priorities; unknown values rank below low.
func (p Priority) Rank() int {
	return slices.Index(Priorities(), p)
}

type Category string

const (
	CategoryPersonal  Category = "personal"
	CategoryWork      Category = "work"
	CategoryShopping  Category = "shopping"
	CategoryHealth    Category = "health"
	CategoryEducation Category = "education"
	CategoryOther     Category = "other"
)

func Categories() []Category {
	return []Category{CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth, CategoryEducation, CategoryOther}
}

func (c Category) Valid() bool {
	return slices.Contains(Categories(), c)
}

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Recurrence struct {
	Enabled   bool      `json:"enabled"`
	Frequency Frequency `json:"frequency"`
	Interval  int       `json:"interval"`
}

type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
	Category    Category    `json:"category"`
	DueDate     *time.Time  `json:"dueDate,omitempty"`
	Completed   bool        `json:"completed"`
	Recurring   *Recurrence `json:"recurring,omitempty"`
	Assignees   []string    `json:"assignees,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Overdue reports whether the task has a due date before now and is still open.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.Completed
}

// DueOn reports whether the due date falls on the calendar day of day,
// evaluated in day's location.
func (t Task) DueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return SameDay(*t.DueDate, day)
}

// Clone returns a deep copy so callers never share pointers or slices with the store.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.Recurring != nil {
		rec := *t.Recurring
		c.Recurring = &rec
	}
	c.Assignees = slices.Clone(t.Assignees)
	c.Tags = slices.Clone(t.Tags)
	return c
}

// SameDay compares calendar days, converting a into b's location first.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

package task

import (
	"fmt"
	"strings"
	"time"
)

// Input carries the caller-supplied fields of a new task. Store assigns id and timestamps.
type Input struct {
	Title       string
	Description string
	Priority    Priority
	Category    Category
	DueDate     *time.Time
	Completed   bool
	Recurring   *Recurrence
	Assignees   []string
	Tags        []string
}

// Patch lists the fields to change on Update. Unset fields keep their current value.
type Patch struct {
	Title       Opt[string]
	Description Opt[string]
	Priority    Opt[Priority]
	Category    Opt[Category]
	DueDate     Opt[*time.Time]
	Completed   Opt[bool]
	Recurring   Opt[*Recurrence]
	Assignees   Opt[[]string]
	Tags        Opt[[]string]
}

func (in Input) toTask() Task {
	return Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Category:    in.Category,
		DueDate:     in.DueDate,
		Completed:   in.Completed,
		Recurring:   in.Recurring,
		Assignees:   in.Assignees,
		Tags:        in.Tags,
	}
}

func (p Patch) apply(t Task) Task {
	if v, ok := p.Title.Get(); ok {
		t.Title = v
	}
	if v, ok := p.Description.Get(); ok {
		t.Description = v
	}
	if v, ok := p.Priority.Get(); ok {
		t.Priority = v
	}
	if v, ok := p.Category.Get(); ok {
		t.Category = v
	}
	if v, ok := p.DueDate.Get(); ok {
		t.DueDate = v
	}
	if v, ok := p.Completed.Get(); ok {
		t.Completed = v
	}
	if v, ok := p.Recurring.Get(); ok {
		t.Recurring = v
	}
	if v, ok := p.Assignees.Get(); ok {
		t.Assignees = v
	}
	if v, ok := p.Tags.Get(); ok {
		t.Tags = v
	}
	return t
}

// normalize validates t and returns a detached copy with recurrence and
// string sets in canonical form. Due dates are kept in UTC.
func normalize(t Task) (Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !t.Priority.Valid() {
		return Task{}, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown value %q", string(t.Priority))}
	}
	if !t.Category.Valid() {
		return Task{}, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown value %q", string(t.Category))}
	}
	t = t.Clone()
	if t.DueDate != nil {
		*t.DueDate = t.DueDate.UTC()
	}
	if t.Recurring != nil && !t.Recurring.Enabled {
		t.Recurring = nil
	}
	if t.Recurring != nil {
		if !t.Recurring.Frequency.Valid() {
			return Task{}, &ValidationError{Field: "recurring.frequency", Reason: fmt.Sprintf("unknown value %q", string(t.Recurring.Frequency))}
		}
		if t.Recurring.Interval < 1 {
			return Task{}, &ValidationError{Field: "recurring.interval", Reason: "must be at least 1"}
		}
	}
	t.Assignees = uniqueNonBlank(t.Assignees)
	t.Tags = uniqueNonBlank(t.Tags)
	return t, nil
}

// uniqueNonBlank keeps the first occurrence of every value, skips blank entries
// and returns nil when nothing is left.
func uniqueNonBlank(values []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

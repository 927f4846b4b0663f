package ui

import (
	"fmt"
	"strings"
	"time"

	"taskflow/internal/task"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldPriority
	fieldDue
	fieldTags
	fieldAssignees
	fieldRecurring
	fieldCount
)

// formState backs both the add and edit screens. An empty taskID means a new task.
// orig holds the text an edit started from.
type formState struct {
	taskID string
	values [fieldCount]string
	orig   [fieldCount]string
	index  int
}

func formFields() []string {
	return []string{
		"title",
		"description",
		"category",
		"priority",
		"due date (YYYY-MM-DD)",
		"tags (comma separated)",
		"assignees (comma separated)",
		"recurring (daily|weekly|monthly[/n])",
	}
}

func newForm(category task.Category, priority task.Priority) *formState {
	f := &formState{}
	f.values[fieldCategory] = string(category)
	f.values[fieldPriority] = string(priority)
	return f
}

func editForm(t task.Task, loc *time.Location) *formState {
	f := &formState{taskID: t.ID}
	f.values[fieldTitle] = t.Title
	f.values[fieldDescription] = t.Description
	f.values[fieldCategory] = string(t.Category)
	f.values[fieldPriority] = string(t.Priority)
	f.values[fieldDue] = formatDate(t.DueDate, loc)
	f.values[fieldTags] = strings.Join(t.Tags, ", ")
	f.values[fieldAssignees] = strings.Join(t.Assignees, ", ")
	f.values[fieldRecurring] = t.Recurring.String()
	f.orig = f.values
	return f
}

func (f formState) changed(field int) bool {
	return f.values[field] != f.orig[field]
}

func (f formState) currentLabel() string {
	return formFields()[f.index]
}

func (f formState) currentValue() string {
	return f.values[f.index]
}

func (f *formState) setCurrentValue(v string) {
	f.values[f.index] = v
}

func (f formState) last() bool {
	return f.index >= fieldCount-1
}

// input converts the raw field values. Enum and title checks are left to the store.
func (f formState) input(loc *time.Location) (task.Input, error) {
	due, err := task.ParseDate(f.values[fieldDue], loc)
	if err != nil {
		return task.Input{}, fmt.Errorf("due date invalid: %w", err)
	}
	rec, err := task.ParseRecurrence(f.values[fieldRecurring])
	if err != nil {
		return task.Input{}, fmt.Errorf("recurring invalid: %w", err)
	}
	return task.Input{
		Title:       f.values[fieldTitle],
		Description: f.values[fieldDescription],
		Category:    task.Category(strings.ToLower(strings.TrimSpace(f.values[fieldCategory]))),
		Priority:    task.Priority(strings.ToLower(strings.TrimSpace(f.values[fieldPriority]))),
		DueDate:     due,
		Recurring:   rec,
		Tags:        splitList(f.values[fieldTags]),
		Assignees:   splitList(f.values[fieldAssignees]),
	}, nil
}

// patch sets only the fields whose text was edited. Completion is left alone.
func (f formState) patch(loc *time.Location) (task.Patch, error) {
	in, err := f.input(loc)
	if err != nil {
		return task.Patch{}, err
	}
	var p task.Patch
	if f.changed(fieldTitle) {
		p.Title = task.Set(in.Title)
	}
	if f.changed(fieldDescription) {
		p.Description = task.Set(in.Description)
	}
	if f.changed(fieldCategory) {
		p.Category = task.Set(in.Category)
	}
	if f.changed(fieldPriority) {
		p.Priority = task.Set(in.Priority)
	}
	if f.changed(fieldDue) {
		p.DueDate = task.Set(in.DueDate)
	}
	if f.changed(fieldRecurring) {
		p.Recurring = task.Set(in.Recurring)
	}
	if f.changed(fieldTags) {
		p.Tags = task.Set(in.Tags)
	}
	if f.changed(fieldAssignees) {
		p.Assignees = task.Set(in.Assignees)
	}
	return p, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// formatDate renders a due date as the calendar day it falls on in loc.
func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(task.DateLayout)
}

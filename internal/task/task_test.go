package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	assert.True(t, Task{DueDate: &yesterday}.Overdue(now))
	assert.False(t, Task{DueDate: &yesterday, Completed: true}.Overdue(now))
	assert.False(t, Task{DueDate: &tomorrow}.Overdue(now))
	assert.False(t, Task{}.Overdue(now))
}

func TestDueOnUsesDayLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	due := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	tk := Task{DueDate: &due}

	assert.True(t, tk.DueOn(time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC)))
	assert.False(t, tk.DueOn(time.Date(2026, 10, 19, 1, 0, 0, 0, tokyo)))
	assert.True(t, tk.DueOn(time.Date(2026, 10, 20, 23, 0, 0, 0, tokyo)))
	assert.False(t, Task{}.DueOn(due))
}

func TestCloneIsDeep(t *testing.T) {
	due := time.Now()
	orig := Task{
		DueDate:   &due,
		Recurring: &Recurrence{Enabled: true, Frequency: FrequencyDaily, Interval: 1},
		Tags:      []string{"a"},
		Assignees: []string{"b"},
	}
	c := orig.Clone()
	*c.DueDate = due.Add(time.Hour)
	c.Recurring.Interval = 9
	c.Tags[0] = "z"
	c.Assignees[0] = "z"

	assert.Equal(t, due, *orig.DueDate)
	assert.Equal(t, 1, orig.Recurring.Interval)
	assert.Equal(t, "a", orig.Tags[0])
	assert.Equal(t, "b", orig.Assignees[0])
}

func TestEnumHelpers(t *testing.T) {
	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, Priority("p0").Valid())
	assert.Greater(t, PriorityUrgent.Rank(), PriorityHigh.Rank())
	assert.Equal(t, -1, Priority("p0").Rank())

	assert.Len(t, Categories(), 6)
	assert.False(t, Category("all").Valid())
	assert.True(t, FrequencyMonthly.Valid())
	assert.False(t, Frequency("yearly").Valid())
}

func TestOpt(t *testing.T) {
	var unset Opt[string]
	_, ok := unset.Get()
	assert.False(t, ok)
	assert.False(t, unset.IsSet())

	empty := Set("")
	v, ok := empty.Get()
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

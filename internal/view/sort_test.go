package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskflow/internal/task"
)

func TestSort(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Priority: task.PriorityLow},
		{ID: "2", Priority: task.PriorityUrgent, DueDate: ptr(now.Add(48 * time.Hour))},
		{ID: "3", Priority: task.PriorityMedium, DueDate: ptr(now)},
		{ID: "4", Priority: task.PriorityUrgent},
	}

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Sort(tasks, SortCreated)))
	assert.Equal(t, []string{"3", "2", "1", "4"}, ids(Sort(tasks, SortDue)))
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(Sort(tasks, SortPriority)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(tasks), "input is not reordered")
}

func TestSortKeyValid(t *testing.T) {
	assert.True(t, SortDue.Valid())
	assert.False(t, SortKey("alpha").Valid())
}

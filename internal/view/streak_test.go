package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskflow/internal/task"
)

func completedOn(days ...int) []task.Task {
	var tasks []task.Task
	for _, d := range days {
		at := time.Date(2026, 10, d, 10, 0, 0, 0, time.UTC)
		tasks = append(tasks, task.Task{Completed: true, CreatedAt: at, UpdatedAt: at})
	}
	return tasks
}

func TestStreaks(t *testing.T) {
	// now is 2026-10-19.
	tasks := completedOn(2, 3, 4, 5, 10, 17, 18, 19, 19)
	tasks = append(tasks, task.Task{UpdatedAt: now})

	s := Streaks(tasks, now)
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 4, s.Longest)
	assert.Equal(t, 9, s.CompletedTotal)
}

func TestStreakContinuesThroughYesterday(t *testing.T) {
	s := Streaks(completedOn(16, 17, 18), now)
	assert.Equal(t, 3, s.Current)
}

func TestStreakBroken(t *testing.T) {
	s := Streaks(completedOn(15, 16), now)
	assert.Zero(t, s.Current)
	assert.Equal(t, 2, s.Longest)

	assert.Equal(t, StreakStats{}, Streaks(nil, now))
}

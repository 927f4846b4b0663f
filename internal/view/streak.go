package view

import (
	"time"

	"taskflow/internal/task"
)

type StreakStats struct {
	Current        int `json:"current"`
	Longest        int `json:"longest"`
	CompletedTotal int `json:"completedTotal"`
}

// Streaks counts consecutive calendar days, in now's location, on which at least
// one task was completed. A completion's day is the day of its last update.
// The current streak may end yesterday when nothing has been completed today yet.
func Streaks(tasks []task.Task, now time.Time) StreakStats {
	loc := now.Location()
	days := make(map[time.Time]struct{})
	var stats StreakStats
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		stats.CompletedTotal++
		days[task.StartOfDay(t.UpdatedAt.In(loc))] = struct{}{}
	}

	for day := range days {
		if _, ok := days[day.AddDate(0, 0, -1)]; ok {
			continue
		}
		n := 1
		for {
			if _, ok := days[day.AddDate(0, 0, n)]; !ok {
				break
			}
			n++
		}
		stats.Longest = max(stats.Longest, n)
	}

	cursor := task.StartOfDay(now)
	if _, ok := days[cursor]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for {
		if _, ok := days[cursor]; !ok {
			break
		}
		stats.Current++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return stats
}

package view

import (
	"fmt"
	"time"

	"taskflow/internal/task"
)

const (
	DefaultTrendWeeks = 4
	// MaxTrendWeeks is ten years of weekly buckets.
	MaxTrendWeeks = 520
)

// WeekBucket counts activity in one Sunday-to-Saturday window. Start and End
// are both inclusive.
type WeekBucket struct {
	Label     string    `json:"label"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
}

// Rate is the share of the week's created tasks that were completed, 0..100.
func (b WeekBucket) Rate() int {
	return min(percent(b.Completed, b.Total), 100)
}

// WeeklyTrend returns exactly weeks buckets, oldest first, the last one being
// the week that contains now. A non-positive weeks falls back to DefaultTrendWeeks
// and anything above MaxTrendWeeks is capped.
//
// Completed counts completed tasks whose last update falls in the window;
// Total counts tasks created in the window.
func WeeklyTrend(tasks []task.Task, now time.Time, weeks int) []WeekBucket {
	if weeks <= 0 {
		weeks = DefaultTrendWeeks
	}
	weeks = min(weeks, MaxTrendWeeks)
	thisWeek := task.StartOfDay(now).AddDate(0, 0, -int(now.Weekday()))

	buckets := make([]WeekBucket, 0, weeks)
	for offset := weeks - 1; offset >= 0; offset-- {
		start := thisWeek.AddDate(0, 0, -7*offset)
		end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
		b := WeekBucket{
			Label: fmt.Sprintf("Week %d", weeks-offset),
			Start: start,
			End:   end,
		}
		for _, t := range tasks {
			if t.Completed && within(t.UpdatedAt, start, end) {
				b.Completed++
			}
			if within(t.CreatedAt, start, end) {
				b.Total++
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

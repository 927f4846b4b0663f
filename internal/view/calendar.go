package view

import (
	"time"

	"taskflow/internal/task"
)

// DueOn returns the tasks due on day's calendar day, in collection order.
func DueOn(tasks []task.Task, day time.Time) []task.Task {
	out := make([]task.Task, 0)
	for _, t := range tasks {
		if t.DueOn(day) {
			out = append(out, t)
		}
	}
	return out
}

type Day struct {
	Date  time.Time
	Tasks []task.Task
}

// MonthGrid lays out one month for a Sunday-first calendar.
type MonthGrid struct {
	Year  int
	Month time.Month
	// Lead is the number of empty cells before the 1st.
	Lead int
	Days []Day
}

func Month(tasks []task.Task, year int, month time.Month, loc *time.Location) MonthGrid {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	n := first.AddDate(0, 1, -1).Day()

	grid := MonthGrid{
		Year:  first.Year(),
		Month: first.Month(),
		Lead:  int(first.Weekday()),
		Days:  make([]Day, 0, n),
	}
	for d := 0; d < n; d++ {
		date := first.AddDate(0, 0, d)
		grid.Days = append(grid.Days, Day{Date: date, Tasks: DueOn(tasks, date)})
	}
	return grid
}

// Weeks chunks the grid into rows of seven cells. Cells outside the month are nil.
func (g MonthGrid) Weeks() [][]*Day {
	var rows [][]*Day
	row := make([]*Day, 0, 7)
	for i := 0; i < g.Lead; i++ {
		row = append(row, nil)
	}
	for i := range g.Days {
		row = append(row, &g.Days[i])
		if len(row) == 7 {
			rows = append(rows, row)
			row = make([]*Day, 0, 7)
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, nil)
		}
		rows = append(rows, row)
	}
	return rows
}

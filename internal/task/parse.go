package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day format accepted for due dates typed by a user.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD day as midnight in loc. Blank input means no date.
func ParseDate(v string, loc *time.Location) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, v, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseRecurrence accepts "weekly" or "weekly/2". Blank input means not recurring.
// The frequency itself is checked when the task is stored.
func ParseRecurrence(v string) (*Recurrence, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return nil, nil
	}
	freq, n, found := strings.Cut(v, "/")
	interval := 1
	if found {
		var err error
		interval, err = strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("interval %q is not a number", n)
		}
	}
	return &Recurrence{
		Enabled:   true,
		Frequency: Frequency(strings.TrimSpace(freq)),
		Interval:  interval,
	}, nil
}

func (r *Recurrence) String() string {
	if r == nil || !r.Enabled {
		return ""
	}
	if r.Interval <= 1 {
		return string(r.Frequency)
	}
	return fmt.Sprintf("%s/%d", r.Frequency, r.Interval)
}

package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// record mirrors Task on the wire. dueDate stays a raw string so a bad value
// can be dropped without rejecting the whole collection.
type record struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    Priority    `json:"priority"`
	Category    Category    `json:"category"`
	DueDate     *string     `json:"dueDate,omitempty"`
	Completed   bool        `json:"completed"`
	Recurring   *Recurrence `json:"recurring,omitempty"`
	Assignees   []string    `json:"assignees,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Encode serializes the collection as one JSON array in insertion order.
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a collection written by Encode. Unparsable due dates are
// treated as absent; any other malformed record fails the whole decode.
func Decode(data []byte) ([]Task, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	tasks := make([]Task, 0, len(records))
	ids := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
		if _, dup := ids[r.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %s", i, r.ID)
		}
		ids[r.ID] = struct{}{}

		t, err := normalize(Task{
			Title:       r.Title,
			Description: r.Description,
			Priority:    r.Priority,
			Category:    r.Category,
			DueDate:     parseDue(r.DueDate),
			Completed:   r.Completed,
			Recurring:   r.Recurring,
			Assignees:   r.Assignees,
			Tags:        r.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		t.ID = r.ID
		t.CreatedAt = r.CreatedAt
		t.UpdatedAt = r.UpdatedAt
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func parseDue(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return &t
	}
	return nil
}

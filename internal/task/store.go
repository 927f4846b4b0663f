package task

import (
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Slot is a named durable cell holding the whole serialized collection.
// Load returns nil data and no error when nothing has been saved yet.
type Slot interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDFunc(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store owns the canonical task collection and writes it through to its slot
// on every mutation.
type Store struct {
	mu     sync.RWMutex
	tasks  []Task
	slot   Slot
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

// NewStore returns an empty store backed by slot. Call Restore to load saved tasks.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and restores it from slot.
func Open(slot Slot, opts ...Option) *Store {
	s := NewStore(slot, opts...)
	s.Restore()
	return s
}

func (s *Store) Create(in Input) (Task, error) {
	t, err := normalize(in.toTask())
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.newID()
	for s.indexOf(t.ID) >= 0 {
		t.ID = s.newID()
	}
	now := s.now()
	t.CreatedAt = now
	t.UpdatedAt = now

	next := append(slices.Clone(s.tasks), t)
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	return t.Clone(), nil
}

func (s *Store) Update(id string, p Patch) (Task, error) {
	return s.mutate(id, func(t Task) (Task, error) {
		return normalize(p.apply(t))
	})
}

func (s *Store) ToggleComplete(id string) (Task, error) {
	return s.mutate(id, func(t Task) (Task, error) {
		t.Completed = !t.Completed
		return t, nil
	})
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	next := slices.Delete(slices.Clone(s.tasks), i, i+1)
	return s.commit(next)
}

func (s *Store) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return s.tasks[i].Clone(), nil
}

// LoadAll returns a snapshot of the collection in insertion order.
func (s *Store) LoadAll() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Persist writes the current collection to the slot.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.write(s.tasks)
}

// Restore replaces the collection with the slot contents. A missing, unreadable
// or corrupt slot leaves the store empty; the cause is logged, never returned.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
	data, err := s.slot.Load()
	if err != nil {
		s.logger.Printf("task slot unreadable, starting empty: %v", err)
		return
	}
	if len(data) == 0 {
		return
	}
	tasks, err := Decode(data)
	if err != nil {
		s.logger.Printf("task slot corrupt, starting empty: %v", err)
		return
	}
	s.tasks = tasks
}

func (s *Store) mutate(id string, fn func(Task) (Task, error)) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	old := s.tasks[i]
	t, err := fn(old.Clone())
	if err != nil {
		return Task{}, err
	}
	t.ID = old.ID
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = s.now()
	if t.UpdatedAt.Before(old.UpdatedAt) {
		t.UpdatedAt = old.UpdatedAt
	}

	next := slices.Clone(s.tasks)
	next[i] = t
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	return t.Clone(), nil
}

// commit persists next and only then makes it the live collection.
func (s *Store) commit(next []Task) error {
	if err := s.write(next); err != nil {
		return err
	}
	s.tasks = next
	return nil
}

func (s *Store) write(tasks []Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := s.slot.Save(data); err != nil {
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

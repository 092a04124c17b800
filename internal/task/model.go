package task

import (
	"log"
	"slices"
	"time"

	"github.com/google/uuid"
)

// StorageKey is where the whole collection lives in the store.
const StorageKey = "todos"

// Store is the slice of storage.Store the model needs.
type Store interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
}

// Model owns the canonical task list. Every mutation rewrites the whole
// collection to the store. It is not safe for concurrent use; one event
// loop owns it.
type Model struct {
	store  Store
	logger *log.Logger
	tasks  []Task

	Now   func() time.Time
	NewID func() string
}

// Load reads the collection from store. A missing key yields an empty list.
func Load(store Store, logger *log.Logger) (*Model, error) {
	if logger == nil {
		logger = log.Default()
	}
	m := &Model{
		store:  store,
		logger: logger,
		tasks:  []Task{},
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
	var stored []Task
	if _, err := store.Get(StorageKey, &stored); err != nil {
		return nil, err
	}
	m.tasks = m.normalize(stored)
	return m, nil
}

// normalize repairs collections written by older or foreign clients:
// unknown enum values fall back to the form defaults and duplicate ids are
// replaced so the uniqueness invariant holds.
func (m *Model) normalize(stored []Task) []Task {
	out := make([]Task, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, t := range stored {
		if !t.Category.Valid() {
			m.logger.Printf("task %s: unknown category %q, using %s", t.ID, t.Category, Work)
			t.Category = Work
		}
		if !t.Priority.Valid() {
			m.logger.Printf("task %s: unknown priority %q, using %s", t.ID, t.Priority, Medium)
			t.Priority = Medium
		}
		if _, dup := seen[t.ID]; dup || t.ID == "" {
			id := m.NewID()
			m.logger.Printf("task %q: duplicate or empty id, reassigned %s", t.ID, id)
			t.ID = id
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Tasks returns a copy of the collection in insertion order.
func (m *Model) Tasks() []Task {
	return slices.Clone(m.tasks)
}

func (m *Model) Len() int { return len(m.tasks) }

func (m *Model) Get(id string) (Task, bool) {
	i := m.index(id)
	if i < 0 {
		return Task{}, false
	}
	return m.tasks[i], true
}

func (m *Model) Create(in Input) (Task, error) {
	if err := in.validate(); err != nil {
		return Task{}, err
	}
	t := Task{
		ID:        m.NewID(),
		CreatedAt: m.Now(),
	}
	in.apply(&t)
	m.tasks = append(m.tasks, t)
	return t, m.save()
}

// Update replaces every mutable field of the task with id. Completion and
// creation time are kept.
func (m *Model) Update(id string, in Input) error {
	if err := in.validate(); err != nil {
		return err
	}
	i := m.index(id)
	if i < 0 {
		return ErrNotFound
	}
	in.apply(&m.tasks[i])
	return m.save()
}

func (m *Model) ToggleCompleted(id string) error {
	i := m.index(id)
	if i < 0 {
		return ErrNotFound
	}
	m.tasks[i].Completed = !m.tasks[i].Completed
	return m.save()
}

func (m *Model) Delete(id string) error {
	i := m.index(id)
	if i < 0 {
		return ErrNotFound
	}
	m.tasks = slices.Delete(m.tasks, i, i+1)
	return m.save()
}

func (m *Model) index(id string) int {
	return slices.IndexFunc(m.tasks, func(t Task) bool { return t.ID == id })
}

func (m *Model) save() error {
	if err := m.store.Set(StorageKey, m.tasks); err != nil {
		m.logger.Printf("persist tasks: %v", err)
		return err
	}
	return nil
}

// Package guest provides an in-memory substitute for the SQLite
// repository, used when daygrid runs without a database path. Data lives
// for the process lifetime only.
package guest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sandeepkv93/daygrid/internal/storage"
)

type Store struct {
	mu       sync.RWMutex
	events   map[string]storage.Event
	habits   map[string]storage.Habit
	tasks    map[string]storage.Task
	sessions map[string]storage.FocusSession
}

func NewStore() *Store {
	return &Store{
		events:   make(map[string]storage.Event),
		habits:   make(map[string]storage.Habit),
		tasks:    make(map[string]storage.Task),
		sessions: make(map[string]storage.FocusSession),
	}
}

// Seed installs a small starter data set so guest mode opens on a grid
// that demonstrates the app instead of an empty week.
func (s *Store) Seed(now time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	seeded := []storage.Event{
		{ID: "guest-standup", Title: "Standup", StartAt: today.Add(9*time.Hour + 30*time.Minute), EndAt: today.Add(9*time.Hour + 45*time.Minute), Color: "#3788d8", CreatedAt: now},
		{ID: "guest-review", Title: "Design review", StartAt: today.Add(11 * time.Hour), EndAt: today.Add(12 * time.Hour), Color: "#8e44ad", CreatedAt: now},
		{ID: "guest-lunch", Title: "Lunch with Sam", StartAt: today.Add(12 * time.Hour), EndAt: today.Add(13 * time.Hour), Color: "#27ae60", CreatedAt: now},
		{ID: "guest-deep-work", Title: "Deep work block", StartAt: today.Add(14 * time.Hour), EndAt: today.Add(16 * time.Hour), Color: "#e67e22", CreatedAt: now},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range seeded {
		s.events[ev.ID] = ev
	}
	s.habits["guest-run"] = storage.Habit{
		ID: "guest-run", Title: "Morning run", Rule: "FREQ=DAILY",
		StartAt: today.Add(7 * time.Hour), DurationMinutes: 45, Enabled: true, CreatedAt: now,
	}
	due := today.Add(16*time.Hour + 30*time.Minute)
	s.tasks["guest-report"] = storage.Task{
		ID: "guest-report", Title: "Write weekly report", State: "Open", Priority: "High",
		DueAt: &due, DueMinutes: 60, CreatedAt: now,
	}
}

func (s *Store) CreateEvent(_ context.Context, in storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[in.ID] = in
	return nil
}

func (s *Store) GetEvent(_ context.Context, id string) (storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	if !ok {
		return storage.Event{}, storage.ErrNotFound
	}
	return ev, nil
}

func (s *Store) UpdateEvent(_ context.Context, in storage.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[in.ID]; !ok {
		return storage.ErrNotFound
	}
	s.events[in.ID] = in
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *Store) ListEvents(_ context.Context, filter storage.EventListFilter) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Event, 0, len(s.events))
	for _, ev := range s.events {
		if filter.From != nil && ev.StartAt.Before(*filter.From) {
			continue
		}
		if filter.Until != nil && !ev.StartAt.Before(*filter.Until) {
			continue
		}
		if filter.TaskID != "" && ev.TaskID != filter.TaskID {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *Store) CreateHabit(_ context.Context, in storage.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits[in.ID] = in
	return nil
}

func (s *Store) GetHabit(_ context.Context, id string) (storage.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return storage.Habit{}, storage.ErrNotFound
	}
	return h, nil
}

func (s *Store) UpdateHabit(_ context.Context, in storage.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[in.ID]; !ok {
		return storage.ErrNotFound
	}
	s.habits[in.ID] = in
	return nil
}

func (s *Store) DeleteHabit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.habits, id)
	return nil
}

func (s *Store) ListHabits(_ context.Context, filter storage.HabitListFilter) ([]storage.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		if filter.Enabled != nil && h.Enabled != *filter.Enabled {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *Store) CreateTask(_ context.Context, in storage.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[in.ID] = in
	return nil
}

func (s *Store) GetTask(_ context.Context, id string) (storage.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return storage.Task{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *Store) UpdateTask(_ context.Context, in storage.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[in.ID]; !ok {
		return storage.ErrNotFound
	}
	s.tasks[in.ID] = in
	return nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *Store) ListTasks(_ context.Context, filter storage.TaskListFilter) ([]storage.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.State != "" && t.State != filter.State {
			continue
		}
		if filter.DueOnly && t.DueAt == nil {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *Store) CreateSession(_ context.Context, in storage.FocusSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[in.ID] = in
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (storage.FocusSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return storage.FocusSession{}, storage.ErrNotFound
	}
	return sess, nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) ListSessions(_ context.Context, filter storage.SessionListFilter) ([]storage.FocusSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.FocusSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if filter.TaskID != "" && sess.TaskID != filter.TaskID {
			continue
		}
		if filter.From != nil && sess.StartedAt.Before(*filter.From) {
			continue
		}
		if filter.Until != nil && !sess.StartedAt.Before(*filter.Until) {
			continue
		}
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

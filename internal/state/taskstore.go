// Package state keeps the client's view of the remote store consistent
// under optimistic mutations.
//
// TaskStore applies speculative local writes before the network round trip
// and reconciles the cache with the server's authoritative response, rolling
// back on failure. Transcript does the same for conversation messages.
// Views subscribe to snapshot notifications and never mutate either cache
// directly.
package state

import (
	"context"
	"errors"
	"sync"

	"taskai/internal/service"
)

// TaskListener receives an immutable snapshot of the task cache after every
// mutation.
type TaskListener func(tasks []service.Task)

// TaskStore is an ordered task cache synchronized with a remote TaskService.
// It holds at most one entry per task id.
type TaskStore struct {
	mu        sync.Mutex
	svc       service.TaskService
	tasks     []service.Task
	inflight  map[string]bool // task id -> speculative toggle pending
	listeners []TaskListener
}

// NewTaskStore creates an empty store backed by svc.
func NewTaskStore(svc service.TaskService) *TaskStore {
	return &TaskStore{
		svc:      svc,
		inflight: make(map[string]bool),
	}
}

// OnTasksChanged registers a listener. It is invoked with a fresh snapshot
// on every cache mutation, including speculative ones.
func (s *TaskStore) OnTasksChanged(fn TaskListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Tasks returns a snapshot of the current cache.
func (s *TaskStore) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns the cached task for id, if present.
func (s *TaskStore) Get(id string) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Create validates the draft locally, then creates the task remotely and
// inserts the returned record into the cache. There is no speculative
// insert: on failure the cache is untouched.
func (s *TaskStore) Create(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	if err := service.ValidateDraft(draft); err != nil {
		return service.Task{}, err
	}

	created, err := s.svc.CreateTask(ctx, draft)
	if err != nil {
		return service.Task{}, err
	}

	s.mu.Lock()
	s.upsert(created)
	s.notify()
	s.mu.Unlock()
	return created, nil
}

// ToggleComplete flips the completion flag in the cache synchronously, then
// issues the remote toggle. On success the server's record replaces the
// cached one (the server may have applied side effects, e.g. recurrence).
// On failure the flag is restored to the value captured before the
// speculative flip, not merely inverted, so a failed toggle can never
// clobber the pre-image with a stale inversion.
//
// Only one toggle may be in flight per task; a second call returns
// ConcurrentOperationError.
func (s *TaskStore) ToggleComplete(ctx context.Context, id string) (service.Task, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return service.Task{}, &service.NotFoundError{ID: id}
	}
	if s.inflight[id] {
		s.mu.Unlock()
		return service.Task{}, &service.ConcurrentOperationError{ID: id}
	}
	prior := s.tasks[i].Completed
	s.tasks[i].Completed = !prior
	s.inflight[id] = true
	s.notify()
	s.mu.Unlock()

	toggled, err := s.svc.ToggleTask(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)

	if err != nil {
		var nf *service.NotFoundError
		if errors.As(err, &nf) {
			s.remove(id)
		} else if j := s.indexOf(id); j >= 0 {
			s.tasks[j].Completed = prior
		}
		s.notify()
		return service.Task{}, err
	}

	s.upsert(toggled)
	s.notify()
	return toggled, nil
}

// Update validates the patch locally, applies it remotely, and merges the
// returned record into the cache. Partial updates are not speculatable, so
// the cache is untouched until the server answers.
func (s *TaskStore) Update(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	if err := service.ValidatePatch(patch); err != nil {
		return service.Task{}, err
	}

	updated, err := s.svc.UpdateTask(ctx, id, patch)
	if err != nil {
		s.dropIfGone(id, err)
		return service.Task{}, err
	}

	s.mu.Lock()
	s.upsert(updated)
	s.notify()
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the task remotely, then drops it from the cache.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		s.dropIfGone(id, err)
		return err
	}

	s.mu.Lock()
	s.remove(id)
	s.notify()
	s.mu.Unlock()
	return nil
}

// Fetch reads a single task through to the backend and merges it into the
// cache.
func (s *TaskStore) Fetch(ctx context.Context, id string) (service.Task, error) {
	task, err := s.svc.GetTask(ctx, id)
	if err != nil {
		s.dropIfGone(id, err)
		return service.Task{}, err
	}

	s.mu.Lock()
	s.upsert(task)
	s.notify()
	s.mu.Unlock()
	return task, nil
}

// Refresh is a read-through list: the fetched page replaces the whole cache.
func (s *TaskStore) Refresh(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	tasks, err := s.svc.ListTasks(ctx, q)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.replaceAll(tasks)
	s.notify()
	s.mu.Unlock()
	return s.Tasks(), nil
}

// Search fetches tasks matching a free-text query and replaces the cache
// with the result.
func (s *TaskStore) Search(ctx context.Context, query string) ([]service.Task, error) {
	tasks, err := s.svc.SearchTasks(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.replaceAll(tasks)
	s.notify()
	s.mu.Unlock()
	return s.Tasks(), nil
}

// dropIfGone removes the cache entry when the server reports the task gone.
func (s *TaskStore) dropIfGone(id string, err error) {
	var nf *service.NotFoundError
	if !errors.As(err, &nf) {
		return
	}
	s.mu.Lock()
	if s.remove(id) {
		s.notify()
	}
	s.mu.Unlock()
}

// indexOf returns the cache index of id, or -1. Caller holds mu.
func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// upsert replaces the entry with the same id in place, or appends.
// Caller holds mu.
func (s *TaskStore) upsert(t service.Task) {
	if i := s.indexOf(t.ID); i >= 0 {
		s.tasks[i] = t
		return
	}
	s.tasks = append(s.tasks, t)
}

// remove deletes the entry for id, reporting whether it was present.
// Caller holds mu.
func (s *TaskStore) remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true
}

// replaceAll swaps in a fetched page, deduplicating by id in case the
// server ever returns a duplicate. Caller holds mu.
func (s *TaskStore) replaceAll(tasks []service.Task) {
	seen := make(map[string]bool, len(tasks))
	s.tasks = s.tasks[:0]
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		s.tasks = append(s.tasks, t)
	}
}

// snapshot copies the cache for listeners and callers. Caller holds mu.
func (s *TaskStore) snapshot() []service.Task {
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// notify delivers the current snapshot to every listener. Caller holds mu;
// listeners must not call back into the store synchronously.
func (s *TaskStore) notify() {
	snap := s.snapshot()
	for _, fn := range s.listeners {
		fn(snap)
	}
}

// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskai/internal/service"
)

// FakeService is an in-memory implementation of service.TaskService and
// service.AgentService for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	msgs   map[string][]service.Message // conversationID -> messages
	nextID int

	// Reply produces the assistant message content for a user message.
	// Defaults to echoing the input.
	Reply func(text string) string

	// Error injection for testing
	CreateTaskErr   error
	ListTasksErr    error
	GetTaskErr      error
	UpdateTaskErr   error
	DeleteTaskErr   error
	ToggleTaskErr   error
	SearchTasksErr  error
	SendMessageErr  error
	ConversationErr error

	// Calls counts invocations by method name.
	Calls map[string]int

	// Barrier, when non-nil, is received from at the top of every mutating
	// call after error injection. Tests use it to hold a request in flight.
	Barrier chan struct{}
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		msgs:  make(map[string][]service.Message),
		Calls: make(map[string]int),
	}
}

// AddTask seeds a task.
func (f *FakeService) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.Priority == "" {
		t.Priority = service.PriorityMedium
	}
	f.tasks = append(f.tasks, t)
}

// AddMessage seeds a conversation message.
func (f *FakeService) AddMessage(conversationID string, m service.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs[conversationID] = append(f.msgs[conversationID], m)
}

// TaskByID returns a seeded or created task by id.
func (f *FakeService) TaskByID(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

func (f *FakeService) called(name string) {
	f.mu.Lock()
	f.Calls[name]++
	f.mu.Unlock()
}

func (f *FakeService) wait() {
	if f.Barrier != nil {
		<-f.Barrier
	}
}

// CreateTask implements service.TaskService.
func (f *FakeService) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	f.called("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	now := time.Now().UTC()
	t := service.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Tags:        draft.Tags,
		DueAt:       draft.DueAt,
		Recurrence:  draft.Recurrence,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Priority == "" {
		t.Priority = service.PriorityMedium
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// ListTasks implements service.TaskService.
func (f *FakeService) ListTasks(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	f.called("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	now := time.Now().UTC()
	var result []service.Task
	for _, t := range f.tasks {
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		if q.Tag != "" && !containsTag(t.Tags, q.Tag) {
			continue
		}
		if q.Overdue && (t.DueAt == nil || !t.DueAt.Before(now) || t.Completed) {
			continue
		}
		if q.Search != "" && !matchesText(t, q.Search) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// GetTask implements service.TaskService.
func (f *FakeService) GetTask(ctx context.Context, id string) (service.Task, error) {
	f.called("GetTask")
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}

	t, ok := f.TaskByID(id)
	if !ok {
		return service.Task{}, &service.NotFoundError{ID: id}
	}
	return t, nil
}

// UpdateTask implements service.TaskService.
func (f *FakeService) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) (service.Task, error) {
	f.called("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.Tags != nil {
			t.Tags = *patch.Tags
		}
		if patch.DueAt != nil {
			t.DueAt = patch.DueAt
		}
		if patch.Recurrence != nil {
			t.Recurrence = *patch.Recurrence
		}
		t.UpdatedAt = time.Now().UTC()
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, &service.NotFoundError{ID: id}
}

// DeleteTask implements service.TaskService.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.called("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &service.NotFoundError{ID: id}
}

// ToggleTask implements service.TaskService.
func (f *FakeService) ToggleTask(ctx context.Context, id string) (service.Task, error) {
	f.called("ToggleTask")
	if f.ToggleTaskErr != nil {
		return service.Task{}, f.ToggleTaskErr
	}
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Completed = !t.Completed
			f.tasks[i].UpdatedAt = time.Now().UTC()
			return f.tasks[i], nil
		}
	}
	return service.Task{}, &service.NotFoundError{ID: id}
}

// SearchTasks implements service.TaskService.
func (f *FakeService) SearchTasks(ctx context.Context, query string) ([]service.Task, error) {
	f.called("SearchTasks")
	if f.SearchTasksErr != nil {
		return nil, f.SearchTasksErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	var result []service.Task
	for _, t := range f.tasks {
		if matchesText(t, query) {
			result = append(result, t)
		}
	}
	return result, nil
}

// SendMessage implements service.AgentService.
func (f *FakeService) SendMessage(ctx context.Context, conversationID, text string) (service.Message, error) {
	f.called("SendMessage")
	if f.SendMessageErr != nil {
		return service.Message{}, f.SendMessageErr
	}
	f.wait()

	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	f.nextID++
	user := service.Message{
		ID:        fmt.Sprintf("msg-%d", f.nextID),
		Role:      service.RoleUser,
		Content:   text,
		CreatedAt: now,
	}
	content := text
	if f.Reply != nil {
		content = f.Reply(text)
	}
	f.nextID++
	assistant := service.Message{
		ID:        fmt.Sprintf("msg-%d", f.nextID),
		Role:      service.RoleAssistant,
		Content:   content,
		CreatedAt: now,
	}
	f.msgs[conversationID] = append(f.msgs[conversationID], user, assistant)
	return assistant, nil
}

// Conversation implements service.AgentService.
func (f *FakeService) Conversation(ctx context.Context, conversationID string) (service.Conversation, error) {
	f.called("Conversation")
	if f.ConversationErr != nil {
		return service.Conversation{}, f.ConversationErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	msgs := make([]service.Message, len(f.msgs[conversationID]))
	copy(msgs, f.msgs[conversationID])
	return service.Conversation{
		ID:        conversationID,
		Messages:  msgs,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchesText(t service.Task, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

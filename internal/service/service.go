package service

import "context"

// TaskService is the contract for the remote task store.
// All backend HTTP calls go through this interface; the state layer and
// commands never build requests directly.
type TaskService interface {
	// CreateTask creates a task and returns the server record with its
	// assigned id.
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)

	// ListTasks returns tasks matching the query, in server order.
	ListTasks(ctx context.Context, q TaskQuery) ([]Task, error)

	// GetTask returns a single task by id.
	GetTask(ctx context.Context, id string) (Task, error)

	// UpdateTask applies a partial update and returns the updated record.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id string) error

	// ToggleTask flips the completion flag server-side and returns the
	// resulting record. The server may apply side effects (e.g. creating
	// the next occurrence of a recurring task).
	ToggleTask(ctx context.Context, id string) (Task, error)

	// SearchTasks returns tasks matching a free-text query.
	SearchTasks(ctx context.Context, query string) ([]Task, error)
}

// AgentService is the contract for the conversational agent. The agent may
// perform any number of task mutations server-side before answering; the
// client only sees the single assistant message.
type AgentService interface {
	// SendMessage submits a user message and returns the assistant's reply.
	SendMessage(ctx context.Context, conversationID, text string) (Message, error)

	// Conversation returns the message history, oldest first.
	Conversation(ctx context.Context, conversationID string) (Conversation, error)
}

// Package service defines the backend-agnostic contracts for task and
// conversation operations.
package service

import "time"

// Priority levels as the backend stores them.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Field limits enforced locally before any network call.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
)

// Task represents a single task item. The backend owns the record; clients
// hold a cached copy keyed by ID.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"is_completed"`
	Priority    string     `json:"priority"`
	Tags        []string   `json:"tags,omitempty"`
	DueAt       *time.Time `json:"due_date,omitempty"`
	Recurrence  string     `json:"recurrence,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskDraft is the client-side input for creating a task.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	DueAt       *time.Time `json:"due_date,omitempty"`
	Recurrence  string     `json:"recurrence,omitempty"`
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"is_completed,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
	DueAt       *time.Time `json:"due_date,omitempty"`
	Recurrence  *string    `json:"recurrence,omitempty"`
}

// Sort keys for ListTasks.
const (
	SortDueDate   = "due_date"
	SortPriority  = "priority"
	SortCreatedAt = "created_at"
)

// TaskQuery holds filter predicates and sort order for ListTasks.
// Zero values mean "no filter".
type TaskQuery struct {
	Priority   string
	Completed  *bool
	Tag        string
	Overdue    bool
	Search     string
	SortBy     string
	Descending bool
}

// Message is one entry in a conversation transcript. IDs are server-assigned
// except for client-generated temporary ids, which carry the TempIDPrefix
// until the server-confirmed counterpart is merged in.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TempIDPrefix marks client-generated message ids that the server has not
// acknowledged yet.
const TempIDPrefix = "temp-"

// IsTempID reports whether id is a client-generated temporary id.
func IsTempID(id string) bool {
	return len(id) >= len(TempIDPrefix) && id[:len(TempIDPrefix)] == TempIDPrefix
}

// Conversation is an ordered message history. The server is authoritative
// for final ordering.
type Conversation struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}

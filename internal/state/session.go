package state

import "taskai/internal/service"

// Session owns the client-side caches for one authenticated session. It is
// created after login and discarded at logout; all task and transcript
// mutations go through its two stores.
type Session struct {
	Tasks *TaskStore
	Chat  *Transcript
}

// NewSession builds the stores over the backend services.
func NewSession(tasks service.TaskService, agent service.AgentService, conversationID string) *Session {
	return &Session{
		Tasks: NewTaskStore(tasks),
		Chat:  NewTranscript(agent, conversationID),
	}
}

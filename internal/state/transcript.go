package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskai/internal/service"
)

// MessageListener receives an immutable snapshot of the transcript after
// every mutation.
type MessageListener func(msgs []service.Message)

// Transcript is the client-side view of one conversation. The user's
// message is appended speculatively with a temporary id before the agent is
// contacted, so the user always sees their own message ahead of any network
// latency.
type Transcript struct {
	mu        sync.Mutex
	svc       service.AgentService
	convID    string
	msgs      []service.Message
	sending   bool
	listeners []MessageListener
}

// NewTranscript creates an empty transcript for the given conversation.
func NewTranscript(svc service.AgentService, conversationID string) *Transcript {
	return &Transcript{svc: svc, convID: conversationID}
}

// ConversationID returns the conversation this transcript tracks.
func (t *Transcript) ConversationID() string { return t.convID }

// OnMessagesChanged registers a listener invoked with a fresh snapshot on
// every transcript mutation.
func (t *Transcript) OnMessagesChanged(fn MessageListener) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Messages returns a snapshot of the transcript.
func (t *Transcript) Messages() []service.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Sending reports whether a send is currently in flight.
func (t *Transcript) Sending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sending
}

// Send appends a speculative user message and submits text to the agent.
// On success the assistant's reply is appended. On failure the user message
// stays in the transcript and only the missing reply is surfaced as an
// error.
//
// One send per conversation: a call while another is pending returns
// ConcurrentOperationError.
func (t *Transcript) Send(ctx context.Context, text string) (service.Message, error) {
	if strings.TrimSpace(text) == "" {
		return service.Message{}, &service.ValidationError{Field: "message", Reason: "must not be empty"}
	}

	t.mu.Lock()
	if t.sending {
		t.mu.Unlock()
		return service.Message{}, &service.ConcurrentOperationError{ID: t.convID}
	}
	t.sending = true
	t.msgs = append(t.msgs, service.Message{
		ID:        service.TempIDPrefix + uuid.NewString(),
		Role:      service.RoleUser,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	})
	t.notify()
	t.mu.Unlock()

	reply, err := t.svc.SendMessage(ctx, t.convID, text)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sending = false

	if err != nil {
		return service.Message{}, err
	}

	t.msgs = append(t.msgs, reply)
	t.notify()
	return reply, nil
}

// Load fetches the server-side history and reconciles it with any
// speculative messages still in the transcript. Each server message
// supersedes at most one temporary message, matched by role and content
// newest-first, so a delivered resend never absorbs an older undelivered
// copy of the same text. Temporary messages with no server counterpart (a
// send that never got a reply) stay at the tail.
func (t *Transcript) Load(ctx context.Context) ([]service.Message, error) {
	conv, err := t.svc.Conversation(ctx, t.convID)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	consumed := make([]bool, len(conv.Messages))
	var pending []service.Message
	for i := len(t.msgs) - 1; i >= 0; i-- {
		m := t.msgs[i]
		if !service.IsTempID(m.ID) {
			continue
		}
		if j := matchMessage(conv.Messages, consumed, m); j >= 0 {
			consumed[j] = true
			continue
		}
		pending = append(pending, m)
	}
	// Pending was collected newest-first; restore transcript order.
	for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
		pending[i], pending[j] = pending[j], pending[i]
	}

	t.msgs = append(conv.Messages[:len(conv.Messages):len(conv.Messages)], pending...)
	t.notify()
	return t.snapshot(), nil
}

// matchMessage finds an unconsumed server message matching the temporary
// message by role and content, returning its index or -1.
func matchMessage(msgs []service.Message, consumed []bool, temp service.Message) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if !consumed[i] && msgs[i].Role == temp.Role && msgs[i].Content == temp.Content {
			return i
		}
	}
	return -1
}

func (t *Transcript) snapshot() []service.Message {
	out := make([]service.Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// notify delivers the current snapshot to every listener. Caller holds mu.
func (t *Transcript) notify() {
	snap := t.snapshot()
	for _, fn := range t.listeners {
		fn(snap)
	}
}

package output_test

import (
	"bytes"
	"testing"
	"time"

	"taskai/internal/output"
	"taskai/internal/service"
	"taskai/internal/testutil"
)

func TestFormatTaskListing(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	dueWithTime := time.Date(2026, 9, 5, 15, 4, 0, 0, time.UTC)

	tasks := []service.Task{
		{ID: "task-1", Title: "Buy milk", Priority: service.PriorityMedium},
		{ID: "task-2", Title: "Pay rent", Priority: service.PriorityHigh, DueAt: &due},
		{ID: "task-3", Title: "Call plumber", Priority: service.PriorityLow, Completed: true, Tags: []string{"home", "urgent"}},
		{ID: "task-4", Title: "Line one\nline two", Priority: service.PriorityMedium},
		{ID: "task-5", Title: "   ", Priority: service.PriorityMedium},
		{ID: "task-6", Title: "Team standup", Priority: service.PriorityMedium, DueAt: &dueWithTime},
	}

	var buf bytes.Buffer
	for i, task := range tasks {
		output.FormatTask(&buf, i+1, task)
	}

	testutil.GoldenString(t, "tasks", buf.String())
}

func TestFormatMessageTranscript(t *testing.T) {
	msgs := []service.Message{
		{ID: "msg-1", Role: service.RoleUser, Content: "add milk to my list"},
		{ID: "msg-2", Role: service.RoleAssistant, Content: "Added \"Buy milk\".\nAnything else?"},
	}

	var buf bytes.Buffer
	for _, msg := range msgs {
		output.FormatMessage(&buf, msg)
	}

	testutil.GoldenString(t, "messages", buf.String())
}

func TestFormatDue(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), "2026-09-01"},
		{time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC), "2026-09-01 09:30"},
	}
	for _, c := range cases {
		if got := output.FormatDue(c.in); got != c.want {
			t.Errorf("FormatDue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

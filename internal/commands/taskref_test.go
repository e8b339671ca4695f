package commands

import (
	"context"
	"errors"
	"testing"

	"taskai/internal/service"
	"taskai/internal/state"
	"taskai/internal/testutil"
)

func refSession(svc *testutil.FakeService) *state.Session {
	return state.NewSession(svc, svc, "conv-1")
}

func TestResolveTaskRef_NoArgs(t *testing.T) {
	sess := refSession(testutil.NewFakeService())

	_, err := ResolveTaskRef(context.Background(), sess, nil)
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestResolveTaskRef_ByPosition(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "Buy milk"})
	svc.AddTask(service.Task{ID: "task-2", Title: "Buy eggs"})
	sess := refSession(svc)

	task, err := ResolveTaskRef(context.Background(), sess, []string{"2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "task-2" {
		t.Errorf("expected task-2, got %s", task.ID)
	}
}

func TestResolveTaskRef_PositionOutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "Buy milk"})
	sess := refSession(svc)

	_, err := ResolveTaskRef(context.Background(), sess, []string{"3"})
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.ID != "3" {
		t.Errorf("expected ref '3' in error, got %q", notFound.ID)
	}
}

func TestResolveTaskRef_PositionZero(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "Buy milk"})
	sess := refSession(svc)

	_, err := ResolveTaskRef(context.Background(), sess, []string{"0"})
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestResolveTaskRef_ByCachedId(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-7", Title: "Water plants"})
	sess := refSession(svc)

	task, err := ResolveTaskRef(context.Background(), sess, []string{"task-7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "Water plants" {
		t.Errorf("expected cached task, got %q", task.Title)
	}
}

func TestResolveTaskRef_UncachedIdFetched(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "Buy milk"})
	sess := refSession(svc)

	// Warm the cache before the second task exists so the id misses it.
	if _, err := sess.Tasks.Refresh(context.Background(), service.TaskQuery{}); err != nil {
		t.Fatal(err)
	}
	svc.AddTask(service.Task{ID: "task-2", Title: "Buy eggs"})

	task, err := ResolveTaskRef(context.Background(), sess, []string{"task-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "task-2" {
		t.Errorf("expected fetched task-2, got %s", task.ID)
	}
	if svc.Calls["GetTask"] != 1 {
		t.Errorf("expected one GetTask call, got %d", svc.Calls["GetTask"])
	}
}

func TestResolveTaskRef_UnknownId(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "Buy milk"})
	sess := refSession(svc)

	_, err := ResolveTaskRef(context.Background(), sess, []string{"task-99"})
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestResolveTaskRef_RefreshError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("connection refused")
	sess := refSession(svc)

	_, err := ResolveTaskRef(context.Background(), sess, []string{"1"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestIsAllDigits(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"42", true},
		{"", false},
		{"task-1", false},
		{"1a", false},
		{"-1", false},
	}
	for _, c := range cases {
		if got := isAllDigits(c.in); got != c.want {
			t.Errorf("isAllDigits(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

package commands

import (
	"context"
	"errors"
	"strconv"
	"unicode"

	"taskai/internal/service"
	"taskai/internal/state"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ResolveTaskRef resolves a task reference to a cached task.
//
// A reference is either a 1-based position in the current listing (all
// digits) or a server-assigned task id. The cache is refreshed first so
// positions match what the user last saw from `taskai list` run with
// default filters.
func ResolveTaskRef(ctx context.Context, sess *state.Session, args []string) (service.Task, error) {
	if len(args) == 0 {
		return service.Task{}, ErrTaskRefRequired
	}
	ref := args[0]

	tasks := sess.Tasks.Tasks()
	if len(tasks) == 0 {
		refreshed, err := sess.Tasks.Refresh(ctx, service.TaskQuery{})
		if err != nil {
			return service.Task{}, err
		}
		tasks = refreshed
	}

	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil || num < 1 || num > len(tasks) {
			return service.Task{}, &service.NotFoundError{ID: ref}
		}
		return tasks[num-1], nil
	}

	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}

	// Not in the cache; let the backend decide whether the id exists.
	task, err := sess.Tasks.Fetch(ctx, ref)
	if err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"taskai/internal/commands"
	"taskai/internal/config"
	"taskai/internal/exitcode"
	"taskai/internal/output"
	"taskai/internal/service"
	"taskai/internal/state"
	"taskai/internal/testutil"
)

// runCommand is a helper to run a command against a FakeService-backed
// session. args go through the command's own flag set first, so they can
// mix flags and positionals just like on the command line.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var sess *state.Session
	if svc != nil {
		sess = state.NewSession(svc, svc, "conv-1")
	}

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("flag parse: %v", err)
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, sess, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func seedTask(svc *testutil.FakeService, id, title string) {
	svc.AddTask(service.Task{ID: id, Title: title})
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskai 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout == "" {
		t.Error("expected help output, got empty")
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("help output should contain 'Usage:'")
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")
	seedTask(svc, "task-2", "Buy eggs")

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  [ ] Buy milk\n   2  [ ] Buy eggs\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, svc, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_PriorityFilter(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "Pay rent", Priority: service.PriorityHigh})
	seedTask(svc, "task-2", "Buy milk")

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"--priority", "high"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  [ ] Pay rent  (!high)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_HighPriorityOverdue(t *testing.T) {
	past := time.Now().UTC().Add(-24 * time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)

	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "File taxes", Priority: service.PriorityHigh, DueAt: &past})
	svc.AddTask(service.Task{ID: "task-2", Title: "Buy milk", Priority: service.PriorityHigh, DueAt: &future})

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"--priority", "high", "--overdue"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	want := "   1  [ ] File taxes  (!high due " + output.FormatDue(past) + ")\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestListCommand_CompletedMark(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "Buy milk", Completed: true})

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"--completed"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [x] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_CompletedAndPending(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"--completed", "--pending"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: cannot use both --completed and --pending\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_InvalidPriority(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"--priority", "urgent"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid priority: urgent\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls["ListTasks"] != 0 {
		t.Errorf("expected no backend call, got %d", svc.Calls["ListTasks"])
	}
}

func TestListCommand_InvalidSort(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"--sort", "color"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid sort key: color\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("connection refused")

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: backend error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "groceries"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "created task-1\n" {
		t.Errorf("expected 'created task-1\\n', got %q", stdout)
	}

	task, ok := svc.TaskByID("task-1")
	if !ok {
		t.Fatal("expected task-1 to exist")
	}
	if task.Title != "Buy groceries" {
		t.Errorf("expected title 'Buy groceries', got %q", task.Title)
	}
	if task.Priority != service.PriorityMedium {
		t.Errorf("expected default priority medium, got %q", task.Priority)
	}
}

func TestAddCommand_Flags(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	args := []string{"--priority", "high", "--tags", "errands, home", "--due", "2026-09-15", "Pay", "rent"}
	_, stderr, code := runCommand(t, cmd, svc, args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}

	task, ok := svc.TaskByID("task-1")
	if !ok {
		t.Fatal("expected task-1 to exist")
	}
	if task.Priority != service.PriorityHigh {
		t.Errorf("expected priority high, got %q", task.Priority)
	}
	if len(task.Tags) != 2 || task.Tags[0] != "errands" || task.Tags[1] != "home" {
		t.Errorf("unexpected tags %v", task.Tags)
	}
	if task.DueAt == nil {
		t.Fatal("expected due date")
	}
	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if !task.DueAt.Equal(want) {
		t.Errorf("expected due %v, got %v", want, *task.DueAt)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: title required\n" {
		t.Errorf("expected title required error, got %q", stderr)
	}
}

func TestAddCommand_BlankTitleNoBackendCall(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"   "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid title: must not be empty\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls["CreateTask"] != 0 {
		t.Errorf("expected validation to short-circuit, got %d CreateTask calls", svc.Calls["CreateTask"])
	}
}

func TestAddCommand_InvalidDueDate(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"--due", "whenever-ish", "Buy", "milk"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid due date: whenever-ish\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand_ByPosition(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")
	seedTask(svc, "task-2", "Buy eggs")

	cmd := &commands.DoneCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "done\n" {
		t.Errorf("expected 'done\\n', got %q", stdout)
	}

	task, _ := svc.TaskByID("task-2")
	if !task.Completed {
		t.Error("expected task-2 to be completed")
	}
}

func TestDoneCommand_ById(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")

	cmd := &commands.DoneCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"task-1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "done\n" {
		t.Errorf("expected 'done\\n', got %q", stdout)
	}
}

func TestDoneCommand_Reopen(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: "task-1", Title: "Buy milk", Completed: true})

	cmd := &commands.DoneCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"task-1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "reopened\n" {
		t.Errorf("expected 'reopened\\n', got %q", stdout)
	}
	task, _ := svc.TaskByID("task-1")
	if task.Completed {
		t.Error("expected task-1 to be reopened")
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_PositionOutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")

	cmd := &commands.DoneCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: not found: 5\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")

	cmd := &commands.RmCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	if _, ok := svc.TaskByID("task-1"); ok {
		t.Error("expected task-1 to be deleted")
	}
}

func TestRmCommand_UnknownId(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")

	cmd := &commands.RmCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"task-99"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: not found: task-99\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_Title(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")

	cmd := &commands.EditCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"--title", "Buy oat milk", "1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	task, _ := svc.TaskByID("task-1")
	if task.Title != "Buy oat milk" {
		t.Errorf("expected updated title, got %q", task.Title)
	}
}

func TestEditCommand_NothingToUpdate(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: nothing to update\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls["UpdateTask"] != 0 {
		t.Errorf("expected no UpdateTask call, got %d", svc.Calls["UpdateTask"])
	}
}

func TestEditCommand_InvalidPriority(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"--priority", "asap", "1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid priority: asap\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for search command
func TestSearchCommand_Matches(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")
	seedTask(svc, "task-2", "Call plumber")

	cmd := &commands.SearchCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   1  [ ] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestSearchCommand_NoMatches(t *testing.T) {
	svc := testutil.NewFakeService()
	seedTask(svc, "task-1", "Buy milk")

	cmd := &commands.SearchCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"taxes"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestSearchCommand_EmptyQuery(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.SearchCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: query required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for chat command
func TestChatCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Reply = func(text string) string { return "Added it to your list." }

	cmd := &commands.ChatCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"add", "a", "task"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "assistant  Added it to your list.\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestChatCommand_EmptyMessage(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ChatCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"   "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: message required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls["SendMessage"] != 0 {
		t.Errorf("expected no SendMessage call, got %d", svc.Calls["SendMessage"])
	}
}

func TestChatCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SendMessageErr = errors.New("model overloaded")

	cmd := &commands.ChatCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"hello"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: backend error: model overloaded\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for history command
func TestHistoryCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.HistoryCmd{}
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no messages\n" {
		t.Errorf("expected 'no messages', got %q", stdout)
	}
}

func TestHistoryCommand_WithMessages(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddMessage("conv-1", service.Message{ID: "msg-1", Role: service.RoleUser, Content: "add milk"})
	svc.AddMessage("conv-1", service.Message{ID: "msg-2", Role: service.RoleAssistant, Content: "Done."})

	cmd := &commands.HistoryCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "     user  add milk\nassistant  Done.\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

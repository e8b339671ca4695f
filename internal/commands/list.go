package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskai/internal/config"
	"taskai/internal/exitcode"
	"taskai/internal/output"
	"taskai/internal/service"
	"taskai/internal/state"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskai` (no args) and `taskai list` with filter flags.
type ListCmd struct {
	priority  string
	completed bool
	pending   bool
	tag       string
	overdue   bool
	sortBy    string
	desc      bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskai list [--priority <p>] [--completed|--pending] [--tag <t>] [--overdue] [--sort due_date|priority|created_at] [--desc]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.BoolVar(&c.completed, "completed", false, "")
	fs.BoolVar(&c.pending, "pending", false, "")
	fs.StringVar(&c.tag, "tag", "", "")
	fs.BoolVar(&c.overdue, "overdue", false, "")
	fs.StringVar(&c.sortBy, "sort", "", "")
	fs.BoolVar(&c.desc, "desc", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *state.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.completed && c.pending {
		fmt.Fprintln(errOut, "error: cannot use both --completed and --pending")
		return exitcode.UserError
	}
	if c.priority != "" && !validPriority(c.priority) {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}
	if c.sortBy != "" && !validSort(c.sortBy) {
		fmt.Fprintf(errOut, "error: invalid sort key: %s\n", c.sortBy)
		return exitcode.UserError
	}

	q := service.TaskQuery{
		Priority:   c.priority,
		Tag:        c.tag,
		Overdue:    c.overdue,
		SortBy:     c.sortBy,
		Descending: c.desc,
	}
	if c.completed {
		completed := true
		q.Completed = &completed
	}
	if c.pending {
		pending := false
		q.Completed = &pending
	}

	tasks, err := sess.Tasks.Refresh(ctx, q)
	if err != nil {
		return fail(errOut, err)
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, task := range tasks {
		output.FormatTask(out, i+1, task)
	}
	return exitcode.Success
}

func validSort(s string) bool {
	return s == service.SortDueDate || s == service.SortPriority || s == service.SortCreatedAt
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskai/internal/config"
	"taskai/internal/dates"
	"taskai/internal/exitcode"
	"taskai/internal/service"
	"taskai/internal/state"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the provided flags are sent as
// the patch; everything else is left unchanged server-side.
type EditCmd struct {
	title      string
	desc       string
	priority   string
	tags       string
	due        string
	recurrence string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Update fields of a task" }
func (c *EditCmd) Usage() string {
	return "taskai edit [--title <text>] [--desc <text>] [--priority <p>] [--tags <a,b>] [--due <date>] [--every <rule>] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.tags, "tags", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.recurrence, "every", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *state.Session, args []string, out, errOut io.Writer) int {
	task, err := ResolveTaskRef(ctx, sess, args)
	if err != nil {
		if err == ErrTaskRefRequired {
			fmt.Fprintln(errOut, "error: task reference required")
			return exitcode.UserError
		}
		return fail(errOut, err)
	}

	patch, ok, code := c.buildPatch(errOut)
	if code != exitcode.Success {
		return code
	}
	if !ok {
		fmt.Fprintln(errOut, "error: nothing to update")
		return exitcode.UserError
	}

	if _, err := sess.Tasks.Update(ctx, task.ID, patch); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// buildPatch assembles the patch from the flags that were provided.
func (c *EditCmd) buildPatch(errOut io.Writer) (service.TaskPatch, bool, int) {
	var patch service.TaskPatch
	changed := false

	if c.title != "" {
		patch.Title = &c.title
		changed = true
	}
	if c.desc != "" {
		patch.Description = &c.desc
		changed = true
	}
	if c.priority != "" {
		if !validPriority(c.priority) {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return patch, false, exitcode.UserError
		}
		patch.Priority = &c.priority
		changed = true
	}
	if c.tags != "" {
		tags := splitTags(c.tags)
		patch.Tags = &tags
		changed = true
	}
	if c.due != "" {
		due, err := dates.Parse(c.due, time.Now())
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s\n", c.due)
			return patch, false, exitcode.UserError
		}
		patch.DueAt = &due
		changed = true
	}
	if c.recurrence != "" {
		patch.Recurrence = &c.recurrence
		changed = true
	}

	return patch, changed, exitcode.Success
}

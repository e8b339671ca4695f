package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskai/internal/config"
	"taskai/internal/dates"
	"taskai/internal/exitcode"
	"taskai/internal/service"
	"taskai/internal/state"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	desc       string
	priority   string
	tags       string
	due        string
	recurrence string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskai add [--desc <text>] [--priority high|medium|low] [--tags <a,b>] [--due <date>] [--every <rule>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.tags, "tags", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.recurrence, "every", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *state.Session, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	title := strings.Join(args, " ")

	if c.priority != "" && !validPriority(c.priority) {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	draft := service.TaskDraft{
		Title:       title,
		Description: c.desc,
		Priority:    c.priority,
		Tags:        splitTags(c.tags),
		Recurrence:  c.recurrence,
	}

	if c.due != "" {
		due, err := dates.Parse(c.due, time.Now())
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s\n", c.due)
			return exitcode.UserError
		}
		draft.DueAt = &due
	}

	created, err := sess.Tasks.Create(ctx, draft)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created %s\n", created.ID)
	}
	return exitcode.Success
}

// splitTags parses a comma-separated tag list, dropping empties.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func validPriority(p string) bool {
	return p == service.PriorityHigh || p == service.PriorityMedium || p == service.PriorityLow
}

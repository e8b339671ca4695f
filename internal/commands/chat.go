package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskai/internal/config"
	"taskai/internal/exitcode"
	"taskai/internal/output"
	"taskai/internal/state"
)

func init() {
	Register(&ChatCmd{})
}

// ChatCmd implements the chat command: a one-shot message to the assistant.
// The assistant may create, update, or delete tasks as a side effect; run
// `taskai list` afterwards to see them.
type ChatCmd struct{}

func (c *ChatCmd) Name() string      { return "chat" }
func (c *ChatCmd) Aliases() []string { return []string{"ask"} }
func (c *ChatCmd) Synopsis() string  { return "Send a message to the assistant" }
func (c *ChatCmd) Usage() string     { return "taskai chat <message...>" }
func (c *ChatCmd) NeedsAuth() bool   { return true }

func (c *ChatCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ChatCmd) Run(ctx context.Context, cfg *config.Config, sess *state.Session, args []string, out, errOut io.Writer) int {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		fmt.Fprintln(errOut, "error: message required")
		return exitcode.UserError
	}

	reply, err := sess.Chat.Send(ctx, text)
	if err != nil {
		return fail(errOut, err)
	}

	output.FormatMessage(out, reply)
	return exitcode.Success
}

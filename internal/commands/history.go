package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskai/internal/config"
	"taskai/internal/exitcode"
	"taskai/internal/output"
	"taskai/internal/state"
)

func init() {
	Register(&HistoryCmd{})
}

// HistoryCmd implements the history command: print the conversation
// transcript, oldest first.
type HistoryCmd struct{}

func (c *HistoryCmd) Name() string      { return "history" }
func (c *HistoryCmd) Aliases() []string { return nil }
func (c *HistoryCmd) Synopsis() string  { return "Print the conversation history" }
func (c *HistoryCmd) Usage() string     { return "taskai history" }
func (c *HistoryCmd) NeedsAuth() bool   { return true }

func (c *HistoryCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HistoryCmd) Run(ctx context.Context, cfg *config.Config, sess *state.Session, args []string, out, errOut io.Writer) int {
	msgs, err := sess.Chat.Load(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	if len(msgs) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no messages")
		}
		return exitcode.Success
	}

	for _, msg := range msgs {
		output.FormatMessage(out, msg)
	}
	return exitcode.Success
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskai/internal/config"
	"taskai/internal/exitcode"
	"taskai/internal/state"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskai help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *state.Session, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskai                                             List tasks
  taskai list [common flags] [--priority <p>] [--completed|--pending]
              [--tag <t>] [--overdue] [--sort <key>] [--desc]
  taskai add [common flags] [--desc <text>] [--priority <p>] [--tags <a,b>]
             [--due <date>] [--every <rule>] <title...>
  taskai done [common flags] <ref>
  taskai edit [common flags] [--title <text>] [--desc <text>] [--priority <p>]
              [--tags <a,b>] [--due <date>] [--every <rule>] <ref>
  taskai rm [common flags] <ref>
  taskai search [common flags] <query...>
  taskai chat [common flags] <message...>
  taskai history [common flags]
  taskai ui [common flags]
  taskai login [common flags]
  taskai logout [common flags]
  taskai help
  taskai version

A <ref> is the task's number from the last listing, or a task id.
Due dates accept ISO dates or phrases like "tomorrow" and "next friday".

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`

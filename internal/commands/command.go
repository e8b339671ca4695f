// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskai/internal/config"
	"taskai/internal/exitcode"
	"taskai/internal/service"
	"taskai/internal/state"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires authentication.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// sess is nil if NeedsAuth() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, sess *state.Session, args []string, out, errOut io.Writer) int
}

// fail prints err and maps it onto an exit code via the error taxonomy.
func fail(errOut io.Writer, err error) int {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		concurrent *service.ConcurrentOperationError
	)
	switch {
	case errors.As(err, &validation):
		fmt.Fprintf(errOut, "error: %v\n", validation)
		return exitcode.UserError
	case errors.As(err, &notFound):
		fmt.Fprintf(errOut, "error: %v\n", notFound)
		return exitcode.UserError
	case errors.As(err, &concurrent):
		fmt.Fprintf(errOut, "error: %v\n", concurrent)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

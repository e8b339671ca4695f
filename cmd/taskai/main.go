// Package main is the entry point for the taskai CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskai/internal/backend/taskai"
	"taskai/internal/cli"
	"taskai/internal/commands"
	"taskai/internal/config"
	"taskai/internal/state"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create session factory: one backend client serves both the task
	// store and the conversational agent
	factory := func(ctx context.Context, cfg *config.Config) (*state.Session, error) {
		settings, err := cfg.Load()
		if err != nil {
			return nil, err
		}
		client, err := taskai.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return state.NewSession(client, client, settings.ConversationID), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

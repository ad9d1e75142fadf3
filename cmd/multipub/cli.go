// Where: cmd/multipub/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"fmt"
	"os"

	"github.com/poruru/multipub/internal/command"
)

var getwd = os.Getwd

// buildDependencies constructs the runtime dependencies of the CLI. AWS
// clients are created lazily by the command that needs them.
func buildDependencies() (command.Dependencies, error) {
	if _, err := getwd(); err != nil {
		return command.Dependencies{}, fmt.Errorf("resolve working directory: %w", err)
	}
	return command.Dependencies{
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		Getwd:        getwd,
		Repositories: command.NewRepositoryFactory,
		Ledger:       command.NewLedger,
	}, nil
}

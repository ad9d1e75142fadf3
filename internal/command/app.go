// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/poruru/multipub/internal/infra/config"
	"github.com/poruru/multipub/internal/infra/ledger"
	"github.com/poruru/multipub/internal/infra/ui"
	"github.com/poruru/multipub/internal/meta"
	"github.com/poruru/multipub/internal/usecase/publish"
	"github.com/poruru/multipub/internal/version"
)

// Dependencies holds the injected collaborators of every command. Nil
// fields fall back to defaults, so tests only set what they replace.
type Dependencies struct {
	Out    io.Writer
	ErrOut io.Writer
	Getwd  func() (string, error)
	// Repositories builds the repository factory for a loaded project.
	Repositories func(config.Project, config.Env) publish.RepositoryFactory
	// Ledger builds the publish ledger for a loaded project.
	Ledger func(context.Context, config.Project, config.Env) (ledger.Recorder, error)
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Config      string         `short:"c" help:"Path to multipub.yaml"`
	EnvFile     string         `name:"env-file" help:"Path to .env file"`
	Emoji       bool           `name:"emoji" help:"Enable emoji output (default: auto)"`
	NoEmoji     bool           `name:"no-emoji" help:"Disable emoji output"`
	Publish     PublishCmd     `cmd:"" help:"Publish bridge and variant publications"`
	Generate    GenerateCmd    `cmd:"" help:"Generate and patch descriptors without publishing"`
	Coordinates CoordinatesCmd `cmd:"" help:"Print resolved publication coordinates"`
	Version     VersionCmd     `cmd:"" help:"Show version information"`
}

type (
	// PublishCmd defines the publish command flags.
	PublishCmd struct {
		Repository  []string `short:"r" sep:"," help:"Repository to publish to (repeatable, default: all)"`
		Publication []string `short:"p" sep:"," help:"Publication to publish (repeatable, default: all)"`
		BuildDir    string   `name:"build-dir" help:"Directory for generated descriptors"`
		Parallelism int      `name:"parallelism" help:"Maximum concurrent tasks"`
	}

	// GenerateCmd defines the generate command flags.
	GenerateCmd struct {
		Publication []string `short:"p" sep:"," help:"Publication to generate (repeatable, default: all)"`
		BuildDir    string   `name:"build-dir" help:"Directory for generated descriptors"`
	}

	// CoordinatesCmd defines the coordinates command flags.
	CoordinatesCmd struct {
		Publication []string `short:"p" sep:"," help:"Publication to show (repeatable, default: all)"`
	}

	VersionCmd struct{}
)

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	out := deps.Out

	if len(args) == 0 {
		return runNoArgs(out)
	}

	cli := CLI{}
	parser, err := kong.New(&cli, kong.Name(cliName()), kong.Writers(out, deps.ErrOut))
	if err != nil {
		return exitWithError(out, err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	userInterface, err := newUI(out, cli)
	if err != nil {
		return exitWithError(out, err)
	}
	loadEnvFile(cli.EnvFile, userInterface)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := kctx.Command()
	if exitCode, handled := dispatchCommand(ctx, command, cli, deps, userInterface); handled {
		return exitCode
	}

	userInterface.Warn("unknown command")
	return 1
}

type commandHandler func(context.Context, CLI, Dependencies, ui.UserInterface) int

func dispatchCommand(ctx context.Context, command string, cli CLI, deps Dependencies, userInterface ui.UserInterface) (int, bool) {
	exactHandlers := map[string]commandHandler{
		"publish":     runPublish,
		"generate":    runGenerate,
		"coordinates": runCoordinates,
		"version":     runVersion,
	}

	if handler, ok := exactHandlers[command]; ok {
		return handler(ctx, cli, deps, userInterface), true
	}
	return 1, false
}

// loadEnvFile loads an explicit env file, or .env in the current directory
// when it exists.
func loadEnvFile(path string, userInterface ui.UserInterface) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			userInterface.Warn(fmt.Sprintf("Warning: failed to load env file %s: %v", path, err))
		}
		return
	}
	if _, err := os.Stat(meta.EnvFile); err == nil {
		if err := godotenv.Load(meta.EnvFile); err != nil {
			userInterface.Warn(fmt.Sprintf("Warning: failed to load %s: %v", meta.EnvFile, err))
		}
	}
}

func runVersion(_ context.Context, _ CLI, _ Dependencies, userInterface ui.UserInterface) int {
	userInterface.Info(version.GetVersion())
	return 0
}

// runNoArgs prints a short usage hint.
func runNoArgs(out io.Writer) int {
	userInterface := ui.NewConsoleUI(out, false)
	cmd := cliName()
	userInterface.Info("Usage:")
	userInterface.Info(fmt.Sprintf("  %s publish [--repository <name>] [--publication <name>]", cmd))
	userInterface.Info(fmt.Sprintf("  %s generate | coordinates | version", cmd))
	userInterface.Info("")
	userInterface.Info(fmt.Sprintf("Try: %s --help", cmd))
	return 0
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

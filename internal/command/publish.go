// Where: internal/command/publish.go
// What: publish and generate command adapters.
// Why: Translate flags into a publish workflow request.
package command

import (
	"context"
	"fmt"

	"github.com/poruru/multipub/internal/infra/ledger"
	"github.com/poruru/multipub/internal/infra/taskgraph"
	"github.com/poruru/multipub/internal/infra/ui"
	"github.com/poruru/multipub/internal/usecase/publish"
	"github.com/poruru/multipub/internal/version"
)

func runPublish(ctx context.Context, cli CLI, deps Dependencies, userInterface ui.UserInterface) int {
	inputs, err := resolveProject(cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	flags := cli.Publish

	recorder, err := newRecorder(ctx, deps, inputs)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	repositories := deps.Repositories
	if repositories == nil {
		repositories = NewRepositoryFactory
	}

	userInterface.Block("🧭", "Publish plan", []ui.KeyValue{
		{Key: "Config", Value: inputs.Path},
		{Key: "Publications", Value: selectionLabel(flags.Publication)},
		{Key: "Repositories", Value: selectionLabel(flags.Repository)},
	})

	workflow := publish.NewPublishWorkflow(
		userInterface,
		repositories(inputs.Project, inputs.Env),
		recorder,
		version.GetVersion(),
	)
	workflow.Parallelism = flags.Parallelism
	result, err := workflow.Run(ctx, publish.Request{
		Project:      inputs.Project,
		Publications: trimmed(flags.Publication),
		Repositories: trimmed(flags.Repository),
		BuildDir:     buildDirFor(flags.BuildDir, inputs.Env),
	})
	if err != nil {
		return exitWithError(deps.Out, fmt.Errorf("publish: %w", err))
	}
	userInterface.Success(fmt.Sprintf("Publish finished: %d succeeded, %d skipped",
		result.Count(taskgraph.OutcomeSucceeded), result.Count(taskgraph.OutcomeSkipped)))
	return 0
}

func runGenerate(ctx context.Context, cli CLI, deps Dependencies, userInterface ui.UserInterface) int {
	inputs, err := resolveProject(cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	flags := cli.Generate

	workflow := publish.NewPublishWorkflow(userInterface, nil, nil, version.GetVersion())
	if _, err := workflow.Run(ctx, publish.Request{
		Project:      inputs.Project,
		Publications: trimmed(flags.Publication),
		GenerateOnly: true,
		BuildDir:     buildDirFor(flags.BuildDir, inputs.Env),
	}); err != nil {
		return exitWithError(deps.Out, fmt.Errorf("generate: %w", err))
	}
	userInterface.Success("Descriptors generated")
	return 0
}

func newRecorder(ctx context.Context, deps Dependencies, inputs projectInputs) (ledger.Recorder, error) {
	if deps.Ledger != nil {
		return deps.Ledger(ctx, inputs.Project, inputs.Env)
	}
	return NewLedger(ctx, inputs.Project, inputs.Env)
}

func selectionLabel(values []string) any {
	values = trimmed(values)
	if len(values) == 0 {
		return "all"
	}
	return values
}

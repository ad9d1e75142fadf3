// Where: internal/usecase/publish/workflow.go
// What: Publish workflow orchestration.
// Why: Encapsulate publish-specific logic without CLI concerns.
package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/poruru/multipub/internal/infra/config"
	"github.com/poruru/multipub/internal/infra/ledger"
	"github.com/poruru/multipub/internal/infra/repository"
	"github.com/poruru/multipub/internal/infra/taskgraph"
	"github.com/poruru/multipub/internal/infra/ui"
)

// Request captures the inputs required to run a publish.
type Request struct {
	Project      config.Project
	Publications []string
	Repositories []string
	// GenerateOnly stops after descriptors are generated and patched.
	GenerateOnly bool
	// BuildDir overrides the project's build directory.
	BuildDir string
}

// RepositoryFactory builds repositories from their configuration.
type RepositoryFactory func(ctx context.Context, cfgs []config.Repository) ([]repository.Repository, error)

// TaskResult is the outcome of one publish task.
type TaskResult struct {
	PublishTask
	Outcome taskgraph.Outcome
	Err     error
}

// Result summarises a workflow run.
type Result struct {
	Components []Component
	Tasks      []TaskResult
	Report     *taskgraph.Report
}

// Count returns the number of publish tasks with outcome.
func (r Result) Count(outcome taskgraph.Outcome) int {
	n := 0
	for _, t := range r.Tasks {
		if t.Outcome == outcome {
			n++
		}
	}
	return n
}

// Workflow executes the publish orchestration steps.
type Workflow struct {
	UserInterface ui.UserInterface
	Repositories  RepositoryFactory
	Ledger        ledger.Recorder
	ToolVersion   string
	Parallelism   int
}

// NewPublishWorkflow constructs a Workflow.
func NewPublishWorkflow(
	userInterface ui.UserInterface,
	repositories RepositoryFactory,
	recorder ledger.Recorder,
	toolVersion string,
) Workflow {
	return Workflow{
		UserInterface: userInterface,
		Repositories:  repositories,
		Ledger:        recorder,
		ToolVersion:   toolVersion,
	}
}

// Run resolves coordinates, generates descriptors and publishes them.
// Gated bridge publishes are skips, not errors.
func (w Workflow) Run(ctx context.Context, req Request) (Result, error) {
	userInterface := w.UserInterface
	if userInterface == nil {
		userInterface = ui.Discard()
	}

	pubs, err := req.Project.SelectPublications(req.Publications)
	if err != nil {
		return Result{}, err
	}
	components, err := Components(req.Project.Project, pubs)
	if err != nil {
		return Result{}, err
	}

	var repos []repository.Repository
	if !req.GenerateOnly {
		if w.Repositories == nil {
			return Result{}, fmt.Errorf("%w: repository factory is missing", errWorkflowNotConfigured)
		}
		repoCfgs, err := req.Project.SelectRepositories(req.Repositories)
		if err != nil {
			return Result{}, err
		}
		if len(repoCfgs) == 0 {
			return Result{}, errNoRepositories
		}
		repos, err = w.Repositories(ctx, repoCfgs)
		if err != nil {
			return Result{}, err
		}
	}

	buildDir := req.BuildDir
	if buildDir == "" {
		buildDir = req.Project.BuildPath()
	} else {
		buildDir = req.Project.ResolvePath(buildDir)
	}

	var opts []taskgraph.Option
	if w.Parallelism > 0 {
		opts = append(opts, taskgraph.WithParallelism(w.Parallelism))
	}
	graph := taskgraph.New(opts...)
	scheduler := Scheduler{
		Graph:       graph,
		Stitcher:    NewStitcher(userInterface),
		UI:          userInterface,
		BuildDir:    buildDir,
		ToolVersion: w.ToolVersion,
		ResolvePath: req.Project.ResolvePath,
	}
	publishTasks, err := scheduler.Schedule(components, repos)
	if err != nil {
		return Result{}, err
	}

	target := TaskPublish
	if req.GenerateOnly {
		target = TaskGenerate
	}
	report, runErr := graph.Run(ctx, target)

	result := Result{Components: components, Report: report}
	if report != nil {
		for _, task := range publishTasks {
			res := report.Results[task.Name]
			result.Tasks = append(result.Tasks, TaskResult{PublishTask: task, Outcome: report.Outcome(task.Name), Err: res.Err})
		}
	}
	if recordErr := w.record(ctx, result.Tasks); recordErr != nil {
		userInterface.Warn(fmt.Sprintf("Failed to record publish ledger: %v", recordErr))
	}
	w.summarize(userInterface, req, result)
	return result, runErr
}

func (w Workflow) record(ctx context.Context, tasks []TaskResult) error {
	if w.Ledger == nil {
		return nil
	}
	var errs []error
	for _, t := range tasks {
		detail := ""
		if t.Err != nil {
			detail = t.Err.Error()
		}
		if err := w.Ledger.Record(ctx, ledger.Entry{
			Coordinate:  t.Coordinate,
			Publication: t.Publication,
			Repository:  t.Repository,
			Task:        t.Name,
			Outcome:     string(t.Outcome),
			Detail:      detail,
		}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w Workflow) summarize(userInterface ui.UserInterface, req Request, result Result) {
	if req.GenerateOnly {
		rows := make([]ui.KeyValue, 0, len(result.Components))
		for _, c := range result.Components {
			rows = append(rows, ui.KeyValue{Key: c.Name, Value: fmt.Sprintf("%d variant(s)", len(c.Variants))})
		}
		userInterface.Block("🛠️", "Generated descriptors", rows)
		return
	}
	rows := make([]ui.KeyValue, 0, len(result.Tasks)+3)
	for _, t := range result.Tasks {
		rows = append(rows, ui.KeyValue{Key: t.Name, Value: t.Outcome})
	}
	rows = append(rows,
		ui.KeyValue{Key: "Succeeded", Value: result.Count(taskgraph.OutcomeSucceeded)},
		ui.KeyValue{Key: "Skipped", Value: result.Count(taskgraph.OutcomeSkipped)},
		ui.KeyValue{Key: "Failed", Value: result.Count(taskgraph.OutcomeFailed)},
	)
	userInterface.Block("📦", "Publish summary", rows)
}

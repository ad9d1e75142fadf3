// Where: internal/infra/taskgraph/run.go
// What: Planning and parallel execution of a task graph.
// Why: Independent publish tasks run concurrently while ordering edges hold.
package taskgraph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Outcome is the final state of a task in a run.
type Outcome string

const (
	OutcomeNotRun    Outcome = "not-run"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result records one task's outcome.
type Result struct {
	Task    string
	Outcome Outcome
	Err     error
}

// Report summarises a run.
type Report struct {
	Results map[string]Result
	// Started lists tasks in launch order.
	Started []string
}

// Outcome returns the outcome of name, or OutcomeNotRun when it was not part
// of the run.
func (r *Report) Outcome(name string) Outcome {
	if r == nil {
		return OutcomeNotRun
	}
	res, ok := r.Results[name]
	if !ok {
		return OutcomeNotRun
	}
	return res.Outcome
}

// Err joins the errors of failed tasks in launch order.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, name := range r.Started {
		if res := r.Results[name]; res.Outcome == OutcomeFailed && res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Run executes targets and their dependencies. With no targets every
// registered task runs. Launching stops after the first failure; tasks that
// never started are reported as not run.
func (g *Graph) Run(ctx context.Context, targets ...string) (*Report, error) {
	p, err := g.plan(targets)
	if err != nil {
		return nil, err
	}
	report := g.execute(ctx, p)
	if err := report.Err(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

type plan struct {
	tasks map[string]*Task
	preds map[string][]string
	succs map[string][]string
	deps  map[string][]string
}

func (g *Graph) plan(targets []string) (*plan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(targets) == 0 {
		targets = g.order
	}
	p := &plan{
		tasks: map[string]*Task{},
		preds: map[string][]string{},
		succs: map[string][]string{},
		deps:  map[string][]string{},
	}

	var visit func(name, from string) error
	visit = func(name, from string) error {
		if _, seen := p.tasks[name]; seen {
			return nil
		}
		t, ok := g.tasks[name]
		if !ok {
			if from != "" {
				return fmt.Errorf("%s depends on %s: %w", from, name, ErrUnknownTask)
			}
			return fmt.Errorf("%s: %w", name, ErrUnknownTask)
		}
		p.tasks[name] = t
		for _, dep := range t.deps {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range targets {
		if err := visit(name, ""); err != nil {
			return nil, err
		}
	}

	for name, t := range p.tasks {
		p.deps[name] = append([]string(nil), t.deps...)
		preds := append([]string(nil), t.deps...)
		for _, after := range t.after {
			if _, scheduled := p.tasks[after]; scheduled {
				preds = appendUnique(preds, after)
			}
		}
		p.preds[name] = preds
		for _, pred := range preds {
			p.succs[pred] = append(p.succs[pred], name)
		}
	}
	for name := range p.succs {
		p.sortBySeq(p.succs[name])
	}

	if err := p.checkAcyclic(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *plan) sortBySeq(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return p.tasks[names[i]].seq < p.tasks[names[j]].seq
	})
}

func (p *plan) checkAcyclic() error {
	indegree := make(map[string]int, len(p.tasks))
	var queue []string
	for name := range p.tasks {
		indegree[name] = len(p.preds[name])
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}
	visited := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		visited++
		for _, succ := range p.succs[name] {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}
	if visited == len(p.tasks) {
		return nil
	}
	var stuck []string
	for name, deg := range indegree {
		if deg > 0 {
			stuck = append(stuck, name)
		}
	}
	p.sortBySeq(stuck)
	return fmt.Errorf("%w: %s", ErrCycle, strings.Join(stuck, ", "))
}

func (g *Graph) execute(ctx context.Context, p *plan) *Report {
	report := &Report{Results: make(map[string]Result, len(p.tasks))}

	pending := make(map[string]int, len(p.tasks))
	var ready []string
	for name := range p.tasks {
		pending[name] = len(p.preds[name])
		if pending[name] == 0 {
			ready = append(ready, name)
		}
	}
	p.sortBySeq(ready)

	release := func(name string) {
		for _, succ := range p.succs[name] {
			pending[succ]--
			if pending[succ] == 0 {
				ready = append(ready, succ)
			}
		}
		p.sortBySeq(ready)
	}

	results := make(chan Result, len(p.tasks))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)

	running := 0
	stopped := false
	for {
		for !stopped && len(ready) > 0 {
			if ctx.Err() != nil {
				stopped = true
				break
			}
			name := ready[0]
			ready = ready[1:]
			if p.blocked(name, report) {
				report.Results[name] = Result{Task: name, Outcome: OutcomeNotRun}
				release(name)
				continue
			}
			t := p.tasks[name]
			report.Started = append(report.Started, name)
			running++
			eg.Go(func() error {
				results <- runTask(egCtx, t)
				return nil
			})
		}
		if running == 0 {
			break
		}
		res := <-results
		running--
		report.Results[res.Task] = res
		if res.Outcome == OutcomeFailed {
			stopped = true
		}
		release(res.Task)
	}
	_ = eg.Wait()

	for name := range p.tasks {
		if _, ok := report.Results[name]; !ok {
			report.Results[name] = Result{Task: name, Outcome: OutcomeNotRun}
		}
	}
	return report
}

// blocked reports whether a data dependency of name failed or never ran.
func (p *plan) blocked(name string, report *Report) bool {
	for _, dep := range p.deps[name] {
		switch report.Results[dep].Outcome {
		case OutcomeFailed, OutcomeNotRun:
			return true
		}
	}
	return false
}

func runTask(ctx context.Context, t *Task) Result {
	for _, pred := range t.onlyIf {
		if !pred(ctx) {
			return Result{Task: t.name, Outcome: OutcomeSkipped}
		}
	}
	if t.action == nil {
		return Result{Task: t.name, Outcome: OutcomeSucceeded}
	}
	if err := t.action(ctx); err != nil {
		return Result{Task: t.name, Outcome: OutcomeFailed, Err: fmt.Errorf("task %s: %w", t.name, err)}
	}
	return Result{Task: t.name, Outcome: OutcomeSucceeded}
}

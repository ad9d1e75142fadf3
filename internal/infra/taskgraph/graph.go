// Where: internal/infra/taskgraph/graph.go
// What: Task registration with dependency, ordering and predicate edges.
// Why: Publish tasks need "run after" ordering that is distinct from data dependencies.
package taskgraph

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrDuplicateTask = errors.New("task already registered")
	ErrUnknownTask   = errors.New("unknown task")
	ErrCycle         = errors.New("task graph contains a cycle")
)

// Action is the body of a task.
type Action func(ctx context.Context) error

// Predicate decides at execution time whether a task runs. A false result
// marks the task skipped, which does not block its dependents.
type Predicate func(ctx context.Context) bool

// Task is a named node of the graph.
type Task struct {
	graph  *Graph
	name   string
	action Action
	deps   []string
	after  []string
	onlyIf []Predicate
	seq    int
}

func (t *Task) Name() string {
	return t.name
}

// DependsOn declares tasks that must succeed (or be skipped) before t runs.
// Targets pull their dependencies into the run.
func (t *Task) DependsOn(names ...string) *Task {
	t.graph.mu.Lock()
	defer t.graph.mu.Unlock()
	t.deps = appendUnique(t.deps, names...)
	return t
}

// MustRunAfter orders t after the named tasks when both are part of the
// same run. It never pulls the named tasks into the run.
func (t *Task) MustRunAfter(names ...string) *Task {
	t.graph.mu.Lock()
	defer t.graph.mu.Unlock()
	t.after = appendUnique(t.after, names...)
	return t
}

// OnlyIf adds a predicate evaluated right before the action.
func (t *Task) OnlyIf(p Predicate) *Task {
	t.graph.mu.Lock()
	defer t.graph.mu.Unlock()
	t.onlyIf = append(t.onlyIf, p)
	return t
}

// Graph holds registered tasks.
type Graph struct {
	mu          sync.Mutex
	tasks       map[string]*Task
	order       []string
	parallelism int
}

// Option customises a Graph.
type Option func(*Graph)

// WithParallelism bounds the number of tasks executing at once.
func WithParallelism(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.parallelism = n
		}
	}
}

const defaultParallelism = 4

func New(opts ...Option) *Graph {
	g := &Graph{
		tasks:       map[string]*Task{},
		parallelism: defaultParallelism,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register adds a task. A nil action registers a lifecycle task that only
// aggregates dependencies.
func (g *Graph) Register(name string, action Action) (*Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if name == "" {
		return nil, fmt.Errorf("register task: name is required")
	}
	if _, exists := g.tasks[name]; exists {
		return nil, fmt.Errorf("register %s: %w", name, ErrDuplicateTask)
	}
	t := &Task{graph: g, name: name, action: action, seq: len(g.order)}
	g.tasks[name] = t
	g.order = append(g.order, name)
	return t, nil
}

// Task returns a registered task by name.
func (g *Graph) Task(name string) (*Task, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.tasks[name]
	return t, ok
}

// Names lists tasks in registration order.
func (g *Graph) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func appendUnique(list []string, names ...string) []string {
	for _, name := range names {
		if name == "" {
			continue
		}
		dup := false
		for _, existing := range list {
			if existing == name {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, name)
		}
	}
	return list
}

package taskgraph

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestRunHonoursDependenciesAndRegistrationOrder(t *testing.T) {
	g := New(WithParallelism(1))
	var mu sync.Mutex
	var ran []string
	record := func(name string) Action {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			ran = append(ran, name)
			return nil
		}
	}
	mustRegister(t, g, "publish", record("publish")).DependsOn("generate", "pom")
	mustRegister(t, g, "generate", record("generate"))
	mustRegister(t, g, "pom", record("pom"))

	report, err := g.Run(context.Background(), "publish")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"generate", "pom", "publish"}
	if !reflect.DeepEqual(ran, want) {
		t.Fatalf("unexpected order: %v", ran)
	}
	if !reflect.DeepEqual(report.Started, want) {
		t.Fatalf("unexpected started order: %v", report.Started)
	}
	for _, name := range want {
		if report.Outcome(name) != OutcomeSucceeded {
			t.Fatalf("%s: unexpected outcome %s", name, report.Outcome(name))
		}
	}
}

func TestMustRunAfterOnlyOrdersScheduledTasks(t *testing.T) {
	g := New(WithParallelism(1))
	var ran []string
	record := func(name string) Action {
		return func(context.Context) error {
			ran = append(ran, name)
			return nil
		}
	}
	mustRegister(t, g, "bridge", record("bridge")).MustRunAfter("variant")
	mustRegister(t, g, "variant", record("variant"))

	if _, err := g.Run(context.Background(), "bridge"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(ran, []string{"bridge"}) {
		t.Fatalf("must-run-after must not pull tasks in: %v", ran)
	}

	ran = nil
	if _, err := g.Run(context.Background(), "bridge", "variant"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(ran, []string{"variant", "bridge"}) {
		t.Fatalf("unexpected order: %v", ran)
	}
}

func TestMustRunAfterUnderParallelism(t *testing.T) {
	g := New(WithParallelism(8))
	var mu sync.Mutex
	finished := map[string]time.Time{}
	started := map[string]time.Time{}
	work := func(name string) Action {
		return func(context.Context) error {
			mu.Lock()
			started[name] = time.Now()
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			finished[name] = time.Now()
			mu.Unlock()
			return nil
		}
	}
	variants := []string{"a", "b", "c", "d"}
	for _, v := range variants {
		mustRegister(t, g, v, work(v))
	}
	mustRegister(t, g, "bridge", work("bridge")).MustRunAfter(variants...)

	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, v := range variants {
		if started["bridge"].Before(finished[v]) {
			t.Fatalf("bridge started before %s finished", v)
		}
	}
}

func TestOnlyIfSkipsWithoutBlockingDependents(t *testing.T) {
	g := New()
	var ran []string
	mustRegister(t, g, "gated", func(context.Context) error {
		ran = append(ran, "gated")
		return nil
	}).OnlyIf(func(context.Context) bool { return false })
	mustRegister(t, g, "after", func(context.Context) error {
		ran = append(ran, "after")
		return nil
	}).DependsOn("gated")

	report, err := g.Run(context.Background(), "after")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Outcome("gated") != OutcomeSkipped {
		t.Fatalf("expected gated to be skipped, got %s", report.Outcome("gated"))
	}
	if !reflect.DeepEqual(ran, []string{"after"}) {
		t.Fatalf("unexpected executions: %v", ran)
	}
}

func TestFailureStopsLaunchingAndBlocksDependents(t *testing.T) {
	g := New(WithParallelism(1))
	boom := errors.New("boom")
	mustRegister(t, g, "first", func(context.Context) error { return boom })
	mustRegister(t, g, "dependent", func(context.Context) error { return nil }).DependsOn("first")
	mustRegister(t, g, "independent", func(context.Context) error { return nil }).MustRunAfter("first")

	report, err := g.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if report.Outcome("first") != OutcomeFailed {
		t.Fatalf("unexpected outcome for first: %s", report.Outcome("first"))
	}
	if report.Outcome("dependent") != OutcomeNotRun || report.Outcome("independent") != OutcomeNotRun {
		t.Fatalf("expected remaining tasks not to run: %#v", report.Results)
	}
}

func TestCycleDetection(t *testing.T) {
	g := New()
	mustRegister(t, g, "a", nil).DependsOn("b")
	mustRegister(t, g, "b", nil).MustRunAfter("a")

	if _, err := g.Run(context.Background(), "a"); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestUnknownDependency(t *testing.T) {
	g := New()
	mustRegister(t, g, "a", nil).DependsOn("missing")
	if _, err := g.Run(context.Background(), "a"); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected unknown task error, got %v", err)
	}
	if _, err := g.Run(context.Background(), "nope"); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected unknown task error, got %v", err)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	g := New()
	mustRegister(t, g, "a", nil)
	if _, err := g.Register("a", nil); !errors.Is(err, ErrDuplicateTask) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestCancelledContextRunsNothing(t *testing.T) {
	g := New()
	called := false
	mustRegister(t, g, "a", func(context.Context) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := g.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if called || report.Outcome("a") != OutcomeNotRun {
		t.Fatalf("expected a not to run")
	}
}

func mustRegister(t *testing.T, g *Graph, name string, action Action) *Task {
	t.Helper()
	task, err := g.Register(name, action)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return task
}

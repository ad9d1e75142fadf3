package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/poruru/multipub/internal/infra/config"
	"github.com/poruru/multipub/internal/infra/ledger"
	"github.com/poruru/multipub/internal/infra/repository"
	"github.com/poruru/multipub/internal/infra/ui"
)

type testUI struct {
	mu      sync.Mutex
	success []string
	info    []string
	warn    []string
	blocks  []string
}

func (u *testUI) Info(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.info = append(u.info, msg)
}

func (u *testUI) Warn(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.warn = append(u.warn, msg)
}

func (u *testUI) Success(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.success = append(u.success, msg)
}

func (u *testUI) Block(_ string, title string, rows []ui.KeyValue) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.blocks = append(u.blocks, title)
}

func (u *testUI) warnings() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.warn...)
}

func (u *testUI) hasWarning(substr string) bool {
	for _, w := range u.warnings() {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

// memoryRepo is an in-memory repository.Repository recording put order.
type memoryRepo struct {
	name     string
	layout   repository.Layout
	skipGate bool

	mu       sync.Mutex
	files    map[string][]byte
	puts     []string
	fetchErr error
	putErr   func(p string) error
}

func newMemoryRepo(name string, layout repository.Layout) *memoryRepo {
	return &memoryRepo{name: name, layout: layout, files: map[string][]byte{}}
}

func (r *memoryRepo) Name() string              { return r.name }
func (r *memoryRepo) Layout() repository.Layout { return r.layout }
func (r *memoryRepo) SkipGate() bool            { return r.skipGate }
func (r *memoryRepo) URL(p string) string       { return "mem://" + r.name + "/" + p }

func (r *memoryRepo) Fetch(_ context.Context, p string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	data, ok := r.files[p]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, repository.ErrNotFound)
	}
	return data, nil
}

func (r *memoryRepo) Put(_ context.Context, p string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		if err := r.putErr(p); err != nil {
			return err
		}
	}
	r.files[p] = append([]byte(nil), data...)
	r.puts = append(r.puts, p)
	return nil
}

func (r *memoryRepo) putOrder() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.puts...)
}

func (r *memoryRepo) file(p string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.files[p]
	return data, ok
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []ledger.Entry
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, entry ledger.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func writeTestArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}

// sampleProject declares my-app with debug and release variants whose
// artifacts live under root.
func sampleProject(t *testing.T, kind string) config.Project {
	t.Helper()
	root := t.TempDir()
	writeTestArtifact(t, root, "out/debug/libcpp.so", "debug-binary")
	writeTestArtifact(t, root, "out/release/libcpp.so", "release-binary")
	return config.Project{
		Version:  1,
		Project:  "project",
		BuildDir: "build/publications",
		Root:     root,
		Publications: []config.Publication{{
			Name:    "cpp",
			Kind:    kind,
			Group:   "com.example",
			ID:      "my-app",
			Version: "1.2",
			Variants: []config.Variant{
				{Name: "debug", Artifacts: []string{"out/debug/libcpp.so"}},
				{Name: "release", Artifacts: []string{"out/release/libcpp.so"}},
			},
		}},
		Repositories: []config.Repository{{Name: "remote", Type: config.RepositoryFile, URL: "repo"}},
	}
}

func staticRepos(repos ...repository.Repository) RepositoryFactory {
	return func(_ context.Context, cfgs []config.Repository) ([]repository.Repository, error) {
		byName := map[string]repository.Repository{}
		for _, r := range repos {
			byName[r.Name()] = r
		}
		out := make([]repository.Repository, 0, len(cfgs))
		for _, cfg := range cfgs {
			r, ok := byName[cfg.Name]
			if !ok {
				return nil, errors.New("unknown repository " + cfg.Name)
			}
			out = append(out, r)
		}
		return out, nil
	}
}

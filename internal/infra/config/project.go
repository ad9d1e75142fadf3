// Where: internal/infra/config/project.go
// What: multipub.yaml load and normalization.
// Why: Publications and repositories are declared once and shared by every command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/multipub/internal/infra/fileops"
	"github.com/poruru/multipub/internal/meta"
	"gopkg.in/yaml.v3"
)

// ErrProjectNotFound reports that no project file exists at the resolved path.
var ErrProjectNotFound = errors.New("project config not found")

var (
	errDuplicatePublication = errors.New("duplicate publication name")
	errDuplicateRepository  = errors.New("duplicate repository name")
	errDuplicateVariant     = errors.New("duplicate variant name")
	errMissingBridgeID      = errors.New("publication id is required when project is not set")
	errUnknownSelection     = errors.New("unknown selection")
)

// Repository types.
const (
	RepositoryFile = "file"
	RepositoryHTTP = "http"
	RepositoryS3   = "s3"
)

// Project represents multipub.yaml.
type Project struct {
	Version      int           `yaml:"version"`
	Project      string        `yaml:"project,omitempty"`
	BuildDir     string        `yaml:"build_dir,omitempty"`
	Publications []Publication `yaml:"publications"`
	Repositories []Repository  `yaml:"repositories,omitempty"`
	Ledger       *Ledger       `yaml:"ledger,omitempty"`

	// Root is the directory holding the config file. Relative paths resolve
	// against it.
	Root string `yaml:"-"`
}

// Publication declares a bridge publication and its variants.
type Publication struct {
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind,omitempty"`
	Group      string            `yaml:"group"`
	ID         string            `yaml:"id,omitempty"`
	Version    string            `yaml:"version"`
	Artifacts  []string          `yaml:"artifacts,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
	Variants   []Variant         `yaml:"variants,omitempty"`
}

// Variant declares one platform-specific sibling of a publication.
type Variant struct {
	Name       string            `yaml:"name"`
	ID         string            `yaml:"id,omitempty"`
	Artifacts  []string          `yaml:"artifacts,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// Repository declares a publish target.
type Repository struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	URL      string `yaml:"url,omitempty"`
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Layout   string `yaml:"layout,omitempty"`
	SkipGate bool   `yaml:"skip_gate,omitempty"`
}

// Ledger configures the DynamoDB publish ledger.
type Ledger struct {
	Table    string `yaml:"table"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// ProjectConfigPath returns the config path to use: explicit wins, then
// dir/multipub.yaml. A directory resolves to the multipub.yaml inside it.
func ProjectConfigPath(explicit, dir string) (string, error) {
	path := strings.TrimSpace(explicit)
	if path == "" {
		path = dir
	}
	if fileops.DirExists(path) {
		path = filepath.Join(path, meta.ConfigFile)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	if !fileops.FileExists(abs) {
		return "", fmt.Errorf("%w: %s", ErrProjectNotFound, abs)
	}
	return abs, nil
}

// LoadProject reads, validates and normalizes a project file.
func LoadProject(path string) (Project, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read project config: %w", err)
	}
	return ParseProject(payload, filepath.Dir(path))
}

// ParseProject validates payload against the project schema and decodes it.
func ParseProject(payload []byte, root string) (Project, error) {
	if err := validateProject(payload); err != nil {
		return Project{}, fmt.Errorf("validate project config: %w", err)
	}

	var cfg Project
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Project{}, fmt.Errorf("decode project config: %w", err)
	}
	cfg.Root = root
	if err := cfg.normalize(); err != nil {
		return Project{}, err
	}
	return cfg, nil
}

func (p *Project) normalize() error {
	if p.BuildDir == "" {
		p.BuildDir = meta.BuildDir
	}
	seen := map[string]struct{}{}
	for i := range p.Publications {
		pub := &p.Publications[i]
		if _, dup := seen[pub.Name]; dup {
			return fmt.Errorf("%w: %s", errDuplicatePublication, pub.Name)
		}
		seen[pub.Name] = struct{}{}
		if pub.Kind == "" {
			pub.Kind = "maven"
		}
		if pub.ID == "" {
			if p.Project == "" {
				return fmt.Errorf("%s: %w", pub.Name, errMissingBridgeID)
			}
			pub.ID = p.Project
		}
		variants := map[string]struct{}{}
		for _, v := range pub.Variants {
			if _, dup := variants[v.Name]; dup {
				return fmt.Errorf("%w: %s.%s", errDuplicateVariant, pub.Name, v.Name)
			}
			variants[v.Name] = struct{}{}
		}
	}

	repos := map[string]struct{}{}
	for i := range p.Repositories {
		repo := &p.Repositories[i]
		if _, dup := repos[repo.Name]; dup {
			return fmt.Errorf("%w: %s", errDuplicateRepository, repo.Name)
		}
		repos[repo.Name] = struct{}{}
		if repo.Layout == "" {
			repo.Layout = "maven"
		}
	}
	return nil
}

// ResolvePath resolves a config-relative path.
func (p Project) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || p.Root == "" {
		return path
	}
	return filepath.Join(p.Root, path)
}

// BuildPath is the absolute directory generated descriptors are written to.
func (p Project) BuildPath() string {
	return p.ResolvePath(p.BuildDir)
}

// SelectPublications returns the named publications in declaration order,
// or all of them when names is empty.
func (p Project) SelectPublications(names []string) ([]Publication, error) {
	if len(names) == 0 {
		return p.Publications, nil
	}
	want, err := selectionSet(names, func(yield func(string)) {
		for _, pub := range p.Publications {
			yield(pub.Name)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("publication %w", err)
	}
	var out []Publication
	for _, pub := range p.Publications {
		if _, ok := want[pub.Name]; ok {
			out = append(out, pub)
		}
	}
	return out, nil
}

// SelectRepositories returns the named repositories in declaration order,
// or all of them when names is empty.
func (p Project) SelectRepositories(names []string) ([]Repository, error) {
	if len(names) == 0 {
		return p.Repositories, nil
	}
	want, err := selectionSet(names, func(yield func(string)) {
		for _, repo := range p.Repositories {
			yield(repo.Name)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("repository %w", err)
	}
	var out []Repository
	for _, repo := range p.Repositories {
		if _, ok := want[repo.Name]; ok {
			out = append(out, repo)
		}
	}
	return out, nil
}

func selectionSet(names []string, known func(yield func(string))) (map[string]struct{}, error) {
	available := map[string]struct{}{}
	known(func(name string) { available[name] = struct{}{} })
	want := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if _, ok := available[name]; !ok {
			return nil, fmt.Errorf("%w: %s", errUnknownSelection, name)
		}
		want[name] = struct{}{}
	}
	return want, nil
}

// Where: internal/infra/repository/repository.go
// What: Publish target abstraction and the local file implementation.
// Why: Gating, stitching and uploads talk to every repository type the same way.
package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/infra/fileops"
)

// ErrNotFound reports that a resource is absent from a repository. It is a
// recoverable signal, never a transport failure.
var ErrNotFound = errors.New("resource not found")

// Repository is a publish target addressed by layout-relative paths.
type Repository interface {
	Name() string
	Layout() Layout
	// SkipGate marks repositories whose bridge publish is never gated.
	SkipGate() bool
	// URL returns the public location of a layout-relative path.
	URL(p string) string
	Fetch(ctx context.Context, p string) ([]byte, error)
	Put(ctx context.Context, p string, data []byte) error
}

// Resolve returns the public module descriptor URL of ref in repo.
func Resolve(repo Repository, ref coordinate.Ref) string {
	return repo.URL(repo.Layout().ModulePath(ref))
}

// IsNotFound reports whether err carries ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type base struct {
	name     string
	layout   Layout
	skipGate bool
}

func (b base) Name() string {
	return b.name
}

func (b base) Layout() Layout {
	return b.layout
}

func (b base) SkipGate() bool {
	return b.skipGate
}

// FileRepository stores files under a local directory.
type FileRepository struct {
	base
	root string
}

func NewFileRepository(name, root string, layout Layout, skipGate bool) *FileRepository {
	return &FileRepository{
		base: base{name: name, layout: layout, skipGate: skipGate},
		root: root,
	}
}

func (r *FileRepository) URL(p string) string {
	return "file://" + filepath.ToSlash(r.path(p))
}

func (r *FileRepository) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path(p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", r.URL(p), ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", r.URL(p), err)
	}
	return data, nil
}

func (r *FileRepository) Put(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileops.WriteFile(r.path(p), data); err != nil {
		return fmt.Errorf("write %s: %w", r.URL(p), err)
	}
	return nil
}

func (r *FileRepository) path(p string) string {
	return filepath.Join(r.root, filepath.FromSlash(strings.TrimPrefix(p, "/")))
}

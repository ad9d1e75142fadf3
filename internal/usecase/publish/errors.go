// Where: internal/usecase/publish/errors.go
// What: Error types surfaced by publish tasks.
// Why: Callers distinguish a gated skip from a real failure with errors.As.
package publish

import (
	"errors"
	"fmt"

	"github.com/poruru/multipub/internal/domain/coordinate"
)

var (
	errWorkflowNotConfigured = errors.New("publish workflow is not configured")
	errNoRepositories        = errors.New("no repositories selected")
)

// MissingSiblingManifestError reports a variant whose module descriptor is
// absent from a repository. The gate turns it into a skip, never a failure.
type MissingSiblingManifestError struct {
	Coordinate coordinate.Ref
	Repository string
	URL        string
	Err        error
}

func (e *MissingSiblingManifestError) Error() string {
	return fmt.Sprintf("Publication with coordinate '%s' not published.", e.Coordinate)
}

func (e *MissingSiblingManifestError) Unwrap() error {
	return e.Err
}

// IOFailureError wraps a local filesystem failure while staging or
// stitching descriptors.
type IOFailureError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOFailureError) Unwrap() error {
	return e.Err
}

func ioFailure(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOFailureError{Op: op, Path: path, Err: err}
}

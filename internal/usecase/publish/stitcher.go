// Where: internal/usecase/publish/stitcher.go
// What: Merge remote variant pointers into the bridge module descriptor.
// Why: Consumers of the bridge discover each platform variant through available-at entries.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/domain/descriptor"
	"github.com/poruru/multipub/internal/infra/fileops"
	"github.com/poruru/multipub/internal/infra/repository"
	"github.com/poruru/multipub/internal/infra/ui"
)

// pathLocks serializes work on one file path.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPathLocks() *pathLocks {
	return &pathLocks{locks: map[string]*sync.Mutex{}}
}

func (p *pathLocks) lock(path string) func() {
	p.mu.Lock()
	l, ok := p.locks[path]
	if !ok {
		l = &sync.Mutex{}
		p.locks[path] = l
	}
	p.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Stitcher augments a bridge module file for the duration of one publish
// operation. The file is backed up first and restored on every path, so
// repeated runs start from the generated content.
type Stitcher struct {
	UI    ui.UserInterface
	locks *pathLocks
}

func NewStitcher(userInterface ui.UserInterface) *Stitcher {
	return &Stitcher{UI: userInterface, locks: newPathLocks()}
}

// StitchRequest describes one bridge publish to one repository.
type StitchRequest struct {
	ModulePath string
	Bridge     coordinate.Ref
	Variants   []coordinate.Ref
	Repository repository.Repository
	// Publish runs while the stitched content is on disk.
	Publish func(ctx context.Context) error
}

// Run backs up, stitches, publishes and restores. Two requests for the same
// module path never overlap.
func (s *Stitcher) Run(ctx context.Context, req StitchRequest) (err error) {
	unlock := s.locks.lock(req.ModulePath)
	defer unlock()

	if _, err := fileops.Backup(req.ModulePath); err != nil {
		return ioFailure("backup", req.ModulePath, err)
	}
	defer func() {
		if restoreErr := fileops.Restore(req.ModulePath); restoreErr != nil {
			err = errors.Join(err, ioFailure("restore", req.ModulePath, restoreErr))
		}
	}()

	if err := s.stitch(ctx, req); err != nil {
		return err
	}
	if req.Publish == nil {
		return nil
	}
	return req.Publish(ctx)
}

func (s *Stitcher) stitch(ctx context.Context, req StitchRequest) error {
	data, err := os.ReadFile(req.ModulePath)
	if err != nil {
		return ioFailure("read", req.ModulePath, err)
	}
	doc, err := descriptor.Parse(data, req.ModulePath)
	if err != nil {
		return err
	}

	layout := req.Repository.Layout()
	for _, ref := range req.Variants {
		remote, err := s.remoteVariants(ctx, req, ref)
		if err != nil {
			return err
		}
		at := descriptor.AvailableAt{
			URL:     layout.RelativeModuleURL(req.Bridge, ref),
			Group:   ref.Group,
			Module:  ref.ID,
			Version: ref.Version,
		}
		for _, v := range remote {
			if err := doc.AppendVariant(v.Remote(at)); err != nil {
				return err
			}
		}
	}

	if err := descriptor.Validate(doc); err != nil {
		return err
	}
	out, err := doc.Bytes()
	if err != nil {
		return err
	}
	return ioFailure("write", req.ModulePath, fileops.WriteFile(req.ModulePath, out))
}

// remoteVariants fetches the published descriptor of ref and returns its
// local variants. A missing descriptor is warned about and yields nothing.
func (s *Stitcher) remoteVariants(ctx context.Context, req StitchRequest, ref coordinate.Ref) ([]descriptor.Variant, error) {
	p := req.Repository.Layout().ModulePath(ref)
	data, err := req.Repository.Fetch(ctx, p)
	if err != nil {
		if repository.IsNotFound(err) {
			s.warn(fmt.Sprintf("Publication with coordinate '%s' not found in '%s'.", ref, req.Repository.Name()))
			return nil, nil
		}
		return nil, fmt.Errorf("fetch %s: %w", req.Repository.URL(p), err)
	}
	doc, err := descriptor.Parse(data, req.Repository.URL(p))
	if err != nil {
		return nil, err
	}
	variants, err := doc.Variants()
	if err != nil {
		return nil, err
	}
	local := make([]descriptor.Variant, 0, len(variants))
	for _, v := range variants {
		if v.IsRemote() {
			continue
		}
		local = append(local, v)
	}
	return local, nil
}

func (s *Stitcher) warn(msg string) {
	if s.UI != nil {
		s.UI.Warn(msg)
	}
}

// Where: internal/usecase/publish/uploader.go
// What: Upload one staged publication to one repository.
// Why: The module descriptor goes last so its presence implies a complete publication.
package publish

import (
	"context"
	"fmt"
	"os"

	"github.com/poruru/multipub/internal/infra/repository"
)

func upload(ctx context.Context, repo repository.Repository, s *stagedPublication) error {
	out, err := s.generate()
	if err != nil {
		return err
	}
	layout := repo.Layout()
	for _, f := range out.Files {
		if err := putFile(ctx, repo, f.Path, layout.ArtifactPath(s.ref, f.Path)); err != nil {
			return err
		}
	}
	if err := putFile(ctx, repo, s.descriptorPath(), layout.DescriptorPath(s.ref)); err != nil {
		return err
	}
	return putFile(ctx, repo, s.modulePath(), layout.ModulePath(s.ref))
}

func putFile(ctx context.Context, repo repository.Repository, local, remote string) error {
	data, err := os.ReadFile(local)
	if err != nil {
		return ioFailure("read", local, err)
	}
	if err := repo.Put(ctx, remote, data); err != nil {
		return fmt.Errorf("upload to %s: %w", repo.Name(), err)
	}
	return nil
}

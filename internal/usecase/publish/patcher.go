// Where: internal/usecase/publish/patcher.go
// What: Rewrite generated descriptor files to the resolved variant id.
// Why: Generators capture the id before finalization; the published files must not.
package publish

import (
	"os"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/domain/manifest"
	"github.com/poruru/multipub/internal/infra/fileops"
)

// PatchModuleFile rewrites component.module of the module file at path.
func PatchModuleFile(path, id string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ioFailure("read", path, err)
	}
	patched, err := manifest.PatchModule(data, path, id)
	if err != nil {
		return err
	}
	return ioFailure("write", path, fileops.WriteFile(path, patched))
}

// PatchDescriptorFile rewrites the identifier of the POM or ivy.xml at path.
func PatchDescriptorFile(kind coordinate.Kind, path, id string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ioFailure("read", path, err)
	}
	patched, err := manifest.PatchSecondary(kind, string(data), path, id)
	if err != nil {
		return err
	}
	return ioFailure("write", path, fileops.WriteFile(path, []byte(patched)))
}

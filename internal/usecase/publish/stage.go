// Where: internal/usecase/publish/stage.go
// What: Per-publication build directory holding generated descriptors.
// Why: Generate and publish tasks share one set of files per publication.
package publish

import (
	"path/filepath"
	"sync"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/domain/manifest"
	"github.com/poruru/multipub/internal/infra/fileops"
	"github.com/poruru/multipub/internal/infra/generator"
)

const moduleFileName = "module.json"

// stagedPublication is one bridge or variant publication with its build
// directory. Descriptors are generated once, on first use.
type stagedPublication struct {
	name        string
	kind        coordinate.Kind
	declared    coordinate.Ref
	ref         coordinate.Ref
	variantName string
	attributes  map[string]string
	artifacts   []string
	dir         string
	toolVersion string

	once sync.Once
	out  generator.Output
	err  error
}

func (s *stagedPublication) modulePath() string {
	return filepath.Join(s.dir, moduleFileName)
}

func (s *stagedPublication) descriptorPath() string {
	name, err := manifest.SecondaryFileName(s.kind)
	if err != nil {
		return filepath.Join(s.dir, "descriptor")
	}
	return filepath.Join(s.dir, name)
}

// generate renders and writes the descriptors into a freshly cleaned
// directory, then patches them when the declared id differs from the
// published one.
func (s *stagedPublication) generate() (generator.Output, error) {
	s.once.Do(func() {
		s.out, s.err = s.render()
	})
	return s.out, s.err
}

func (s *stagedPublication) render() (generator.Output, error) {
	out, err := generator.Generate(generator.Input{
		Kind:        s.kind,
		Ref:         s.declared,
		Published:   s.ref,
		VariantName: s.variantName,
		Attributes:  s.attributes,
		Artifacts:   s.artifacts,
		ToolVersion: s.toolVersion,
	})
	if err != nil {
		return generator.Output{}, err
	}
	if err := fileops.RemoveDir(s.dir); err != nil {
		return generator.Output{}, ioFailure("clean", s.dir, err)
	}
	if err := fileops.EnsureDir(s.dir); err != nil {
		return generator.Output{}, ioFailure("create", s.dir, err)
	}
	if err := fileops.WriteFile(s.modulePath(), out.Module); err != nil {
		return generator.Output{}, ioFailure("write", s.modulePath(), err)
	}
	if err := fileops.WriteFile(s.descriptorPath(), out.Secondary); err != nil {
		return generator.Output{}, ioFailure("write", s.descriptorPath(), err)
	}
	if s.declared.ID != s.ref.ID {
		if err := PatchModuleFile(s.modulePath(), s.ref.ID); err != nil {
			return generator.Output{}, err
		}
		if err := PatchDescriptorFile(s.kind, s.descriptorPath(), s.ref.ID); err != nil {
			return generator.Output{}, err
		}
	}
	return out, nil
}

// Where: internal/infra/repository/layout.go
// What: Path conventions of Maven and Ivy repositories.
// Why: The gate, the stitcher and the uploader must agree on where a coordinate lives.
package repository

import (
	"fmt"
	"path"
	"strings"

	"github.com/poruru/multipub/internal/domain/coordinate"
)

// Layout is a repository path convention.
type Layout string

const (
	LayoutMaven Layout = "maven"
	LayoutIvy   Layout = "ivy"
)

// ParseLayout accepts "maven" and "ivy"; empty means maven.
func ParseLayout(value string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(LayoutMaven):
		return LayoutMaven, nil
	case string(LayoutIvy):
		return LayoutIvy, nil
	default:
		return "", fmt.Errorf("unknown repository layout %q", value)
	}
}

// Kind returns the coordinate kind this layout serves.
func (l Layout) Kind() coordinate.Kind {
	if l == LayoutIvy {
		return coordinate.KindIvy
	}
	return coordinate.KindMaven
}

// Dir returns the directory holding every file of ref.
func (l Layout) Dir(ref coordinate.Ref) string {
	group := ref.Group
	if l == LayoutMaven {
		group = strings.ReplaceAll(group, ".", "/")
	}
	return path.Join(group, ref.ID, ref.Version)
}

// ModulePath returns group-as-path/id/version/id-version.module.
func (l Layout) ModulePath(ref coordinate.Ref) string {
	return path.Join(l.Dir(ref), fmt.Sprintf("%s-%s.module", ref.ID, ref.Version))
}

// DescriptorPath returns the POM or ivy.xml location of ref.
func (l Layout) DescriptorPath(ref coordinate.Ref) string {
	if l == LayoutIvy {
		return path.Join(l.Dir(ref), fmt.Sprintf("ivy-%s.xml", ref.Version))
	}
	return path.Join(l.Dir(ref), fmt.Sprintf("%s-%s.pom", ref.ID, ref.Version))
}

// ArtifactPath returns the location of an artifact file. The published name
// is id-version followed by the extension of fileName.
func (l Layout) ArtifactPath(ref coordinate.Ref, fileName string) string {
	return path.Join(l.Dir(ref), ArtifactName(ref, fileName))
}

// ArtifactName is the published file name of an artifact.
func ArtifactName(ref coordinate.Ref, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := ""
	if i := strings.Index(base, "."); i > 0 {
		ext = base[i:]
	}
	return fmt.Sprintf("%s-%s%s", ref.ID, ref.Version, ext)
}

// RelativeModuleURL is the location of target's module file as seen from
// from's module file. Both share group and version in practice, so the
// result is ../../<id>/<version>/<id>-<version>.module.
func (l Layout) RelativeModuleURL(from, target coordinate.Ref) string {
	fromDir := l.Dir(from)
	targetPath := l.ModulePath(target)
	up := strings.Count(fromDir, "/") + 1
	common := commonPrefix(fromDir, path.Dir(targetPath))
	if common != "" {
		up = strings.Count(strings.TrimPrefix(fromDir, common), "/")
		targetPath = strings.TrimPrefix(targetPath, common+"/")
	}
	return strings.Repeat("../", up) + targetPath
}

func commonPrefix(a, b string) string {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	var out []string
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			break
		}
		out = append(out, as[i])
	}
	return strings.Join(out, "/")
}

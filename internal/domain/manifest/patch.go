// Where: internal/domain/manifest/patch.go
// What: Identifier rewrites for generated descriptors.
// Why: Generated files must carry the resolved variant id, not the generator's input.
package manifest

import (
	"fmt"
	"html"
	"regexp"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/domain/descriptor"
)

var (
	pomArtifactIDPattern = regexp.MustCompile(`<artifactId>[^<]+</artifactId>`)
	ivyModulePattern     = regexp.MustCompile(`(\s)module="[^"]+"`)
)

// PatchModule rewrites component.module of a module descriptor.
func PatchModule(data []byte, source, id string) ([]byte, error) {
	doc, err := descriptor.Parse(data, source)
	if err != nil {
		return nil, err
	}
	if err := doc.SetComponentModule(id); err != nil {
		return nil, err
	}
	return doc.Bytes()
}

// PatchSecondary rewrites the first identifier occurrence of a POM or
// ivy.xml file. Only the first match is touched so dependency entries keep
// their own identifiers. id is XML-escaped and spliced in literally.
func PatchSecondary(kind coordinate.Kind, content, source, id string) (string, error) {
	var (
		pattern *regexp.Regexp
		field   string
	)
	switch kind {
	case coordinate.KindMaven:
		pattern = pomArtifactIDPattern
		field = "artifactId"
	case coordinate.KindIvy:
		pattern = ivyModulePattern
		field = "module"
	default:
		return "", &coordinate.UnsupportedKindError{Type: string(kind)}
	}

	loc := pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", &descriptor.MalformedDescriptorError{Source: source, Field: field, Reason: "is missing"}
	}
	escaped := html.EscapeString(id)
	var replacement string
	switch kind {
	case coordinate.KindMaven:
		replacement = "<artifactId>" + escaped + "</artifactId>"
	default:
		replacement = content[loc[2]:loc[3]] + `module="` + escaped + `"`
	}
	return content[:loc[0]] + replacement + content[loc[1]:], nil
}

// SecondaryFileName returns the conventional file name of the secondary
// descriptor for kind.
func SecondaryFileName(kind coordinate.Kind) (string, error) {
	switch kind {
	case coordinate.KindMaven:
		return "pom-default.xml", nil
	case coordinate.KindIvy:
		return "ivy.xml", nil
	default:
		return "", fmt.Errorf("secondary descriptor: %w", &coordinate.UnsupportedKindError{Type: string(kind)})
	}
}

// Where: internal/domain/manifest/patch_test.go
// What: Tests for descriptor identifier rewrites.
// Why: Only the owning identifier may change; dependencies must be left alone.
package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/domain/descriptor"
)

func TestPatchModule(t *testing.T) {
	in := []byte(`{"formatVersion":"1.1","component":{"group":"com.example","module":"project","version":"1.2"},"variants":[]}`)
	out, err := PatchModule(in, "cppDebug.module", "my-app_debug")
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if !strings.Contains(string(out), `"module": "my-app_debug"`) {
		t.Fatalf("module not patched:\n%s", out)
	}
}

func TestPatchModuleMissingComponent(t *testing.T) {
	_, err := PatchModule([]byte(`{"variants":[]}`), "bad.module", "x")
	if !errors.Is(err, descriptor.ErrMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestPatchSecondaryPOMFirstOccurrenceOnly(t *testing.T) {
	pom := `<project>
  <groupId>com.example</groupId>
  <artifactId>project</artifactId>
  <version>1.2</version>
  <dependencies>
    <dependency>
      <groupId>org.zlib</groupId>
      <artifactId>zlib</artifactId>
    </dependency>
  </dependencies>
</project>
`
	got, err := PatchSecondary(coordinate.KindMaven, pom, "pom-default.xml", "my-app_debug")
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if !strings.Contains(got, "<artifactId>my-app_debug</artifactId>") {
		t.Fatalf("artifactId not patched:\n%s", got)
	}
	if !strings.Contains(got, "<artifactId>zlib</artifactId>") {
		t.Fatalf("dependency artifactId must be untouched:\n%s", got)
	}
}

func TestPatchSecondaryIvy(t *testing.T) {
	ivy := `<ivy-module version="2.0">
  <info organisation="com.example" module="project" revision="1.2" status="integration"/>
  <dependencies>
    <dependency org="org.zlib" name="zlib" rev="1.3"/>
  </dependencies>
</ivy-module>
`
	got, err := PatchSecondary(coordinate.KindIvy, ivy, "ivy.xml", "my-app_debug")
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if !strings.Contains(got, `<info organisation="com.example" module="my-app_debug" revision="1.2"`) {
		t.Fatalf("module not patched:\n%s", got)
	}
}

func TestPatchSecondaryMissingIdentifier(t *testing.T) {
	_, err := PatchSecondary(coordinate.KindMaven, "<project/>", "pom-default.xml", "x")
	var malformed *descriptor.MalformedDescriptorError
	if !errors.As(err, &malformed) || malformed.Field != "artifactId" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPatchSecondaryUnsupportedKind(t *testing.T) {
	_, err := PatchSecondary(coordinate.Kind("npm"), "", "x", "y")
	if !errors.Is(err, coordinate.ErrUnsupportedKind) {
		t.Fatalf("expected unsupported kind, got %v", err)
	}
}

func TestPatchSecondaryEscapesIdentifier(t *testing.T) {
	cases := []struct {
		kind    coordinate.Kind
		content string
		want    string
	}{
		{
			kind:    coordinate.KindMaven,
			content: "<project>\n  <artifactId>project</artifactId>\n</project>\n",
			want:    "<artifactId>a$1&amp;b&lt;c</artifactId>",
		},
		{
			kind:    coordinate.KindIvy,
			content: `<info organisation="com.example" module="project" revision="1.2"/>`,
			want:    `<info organisation="com.example" module="a$1&amp;b&lt;c" revision="1.2"/>`,
		},
	}
	for _, tc := range cases {
		got, err := PatchSecondary(tc.kind, tc.content, "descriptor", "a$1&b<c")
		if err != nil {
			t.Fatalf("%s: patch: %v", tc.kind, err)
		}
		if !strings.Contains(got, tc.want) {
			t.Fatalf("%s: expected %q in:\n%s", tc.kind, tc.want, got)
		}
	}
}

// Where: internal/domain/coordinate/coordinate_test.go
// What: Tests for coordinate adapters.
// Why: Adapters must write through and share identity with the wrapped publication.
package coordinate

import (
	"errors"
	"testing"
)

func TestWrapMavenWritesThrough(t *testing.T) {
	pub := &MavenPublication{Name: "cpp"}
	c, err := Wrap(pub)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}

	c.SetGroup("com.example")
	c.SetID("my-app")
	c.SetVersion("1.2")

	if pub.GroupID != "com.example" || pub.ArtifactID != "my-app" || pub.Version != "1.2" {
		t.Fatalf("unexpected publication: %#v", pub)
	}
	if got := RefOf(c).String(); got != "com.example:my-app:1.2" {
		t.Fatalf("unexpected ref: %s", got)
	}
	if c.Kind() != KindMaven {
		t.Fatalf("unexpected kind: %s", c.Kind())
	}
}

func TestWrapIvyWritesThrough(t *testing.T) {
	pub := &IvyPublication{Name: "cpp"}
	c, err := Wrap(pub)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}

	c.SetGroup("com.example")
	c.SetID("my-app")
	c.SetVersion("1.2")

	if pub.Organisation != "com.example" || pub.Module != "my-app" || pub.Revision != "1.2" {
		t.Fatalf("unexpected publication: %#v", pub)
	}
}

func TestAdaptersOverSamePublicationAreEqual(t *testing.T) {
	pub := &MavenPublication{Name: "cppDebug"}
	a, _ := Wrap(pub)
	b, _ := Wrap(pub)
	other, _ := Wrap(&MavenPublication{Name: "cppDebug"})

	if a != b {
		t.Fatal("expected adapters over the same publication to be equal")
	}
	if !Same(a, b) {
		t.Fatal("expected Same to report true")
	}
	if Same(a, other) {
		t.Fatal("expected distinct publications to differ")
	}

	seen := map[Coordinate]string{a: "first"}
	if seen[b] != "first" {
		t.Fatal("expected adapters to hash equal")
	}
}

func TestWrapUnsupportedKind(t *testing.T) {
	_, err := Wrap(struct{}{})
	if !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("expected ErrUnsupportedKind, got %v", err)
	}
	var kindErr *UnsupportedKindError
	if !errors.As(err, &kindErr) || kindErr.Type != "struct {}" {
		t.Fatalf("unexpected error: %#v", err)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		err  bool
	}{
		{in: "maven", want: KindMaven},
		{in: " Ivy ", want: KindIvy},
		{in: "npm", err: true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.err {
			if !errors.Is(err, ErrUnsupportedKind) {
				t.Fatalf("ParseKind(%q): expected error, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseKind(%q) = %q, %v", tt.in, got, err)
		}
	}
}

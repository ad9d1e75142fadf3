// Where: internal/domain/coordinate/coordinate.go
// What: Ecosystem-agnostic (group, id, version) coordinate contract.
// Why: Let the publishing core work on one triple regardless of Maven or Ivy naming.
package coordinate

import (
	"fmt"
	"strings"
)

// Kind identifies the packaging ecosystem behind a coordinate adapter.
type Kind string

const (
	KindMaven Kind = "maven"
	KindIvy   Kind = "ivy"
)

// ParseKind normalizes a configured kind name.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindMaven:
		return KindMaven, nil
	case KindIvy:
		return KindIvy, nil
	default:
		return "", &UnsupportedKindError{Type: value}
	}
}

// Coordinate wraps a concrete publication behind group/id/version accessors.
// Setters write through to the wrapped publication immediately.
type Coordinate interface {
	Name() string
	Kind() Kind

	Group() string
	SetGroup(value string)
	ID() string
	SetID(value string)
	Version() string
	SetVersion(value string)

	// Identity returns the wrapped publication so that two adapters over the
	// same publication compare equal.
	Identity() any
}

// Ref is a detached copy of a coordinate.
type Ref struct {
	Group   string
	ID      string
	Version string
}

// RefOf snapshots the current values of c.
func RefOf(c Coordinate) Ref {
	return Ref{Group: c.Group(), ID: c.ID(), Version: c.Version()}
}

// String renders the coordinate as group:id:version.
func (r Ref) String() string {
	return fmt.Sprintf("%s:%s:%s", r.Group, r.ID, r.Version)
}

// WithID returns a copy of r carrying a different id.
func (r Ref) WithID(id string) Ref {
	r.ID = id
	return r
}

// Same reports whether a and b wrap the same underlying publication.
func Same(a, b Coordinate) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Identity() == b.Identity()
}

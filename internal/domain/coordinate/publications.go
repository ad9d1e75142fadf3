// Where: internal/domain/coordinate/publications.go
// What: Concrete Maven and Ivy publications plus their coordinate adapters.
// Why: Keep ecosystem field names (artifactId, organisation, revision) out of the core.
package coordinate

import (
	"errors"
	"fmt"
)

// ErrUnsupportedKind reports an adapter request for an unknown publication type.
var ErrUnsupportedKind = errors.New("unsupported coordinate kind")

// UnsupportedKindError names the publication type that has no adapter.
type UnsupportedKindError struct {
	Type string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedKind, e.Type)
}

func (e *UnsupportedKindError) Unwrap() error {
	return ErrUnsupportedKind
}

// MavenPublication is a publication described by a POM.
type MavenPublication struct {
	Name       string
	GroupID    string
	ArtifactID string
	Version    string
}

// IvyPublication is a publication described by an ivy.xml file.
type IvyPublication struct {
	Name         string
	Organisation string
	Module       string
	Revision     string
}

// Wrap returns the coordinate adapter for a concrete publication pointer.
func Wrap(publication any) (Coordinate, error) {
	switch p := publication.(type) {
	case *MavenPublication:
		if p == nil {
			return nil, &UnsupportedKindError{Type: "nil *MavenPublication"}
		}
		return mavenCoordinate{p: p}, nil
	case *IvyPublication:
		if p == nil {
			return nil, &UnsupportedKindError{Type: "nil *IvyPublication"}
		}
		return ivyCoordinate{p: p}, nil
	case Coordinate:
		return p, nil
	default:
		return nil, &UnsupportedKindError{Type: fmt.Sprintf("%T", publication)}
	}
}

// New creates an empty publication of the given kind and returns its adapter.
func New(kind Kind, name string) (Coordinate, error) {
	switch kind {
	case KindMaven:
		return Wrap(&MavenPublication{Name: name})
	case KindIvy:
		return Wrap(&IvyPublication{Name: name})
	default:
		return nil, &UnsupportedKindError{Type: string(kind)}
	}
}

type mavenCoordinate struct {
	p *MavenPublication
}

func (c mavenCoordinate) Name() string            { return c.p.Name }
func (c mavenCoordinate) Kind() Kind              { return KindMaven }
func (c mavenCoordinate) Group() string           { return c.p.GroupID }
func (c mavenCoordinate) SetGroup(value string)   { c.p.GroupID = value }
func (c mavenCoordinate) ID() string              { return c.p.ArtifactID }
func (c mavenCoordinate) SetID(value string)      { c.p.ArtifactID = value }
func (c mavenCoordinate) Version() string         { return c.p.Version }
func (c mavenCoordinate) SetVersion(value string) { c.p.Version = value }
func (c mavenCoordinate) Identity() any           { return c.p }

type ivyCoordinate struct {
	p *IvyPublication
}

func (c ivyCoordinate) Name() string            { return c.p.Name }
func (c ivyCoordinate) Kind() Kind              { return KindIvy }
func (c ivyCoordinate) Group() string           { return c.p.Organisation }
func (c ivyCoordinate) SetGroup(value string)   { c.p.Organisation = value }
func (c ivyCoordinate) ID() string              { return c.p.Module }
func (c ivyCoordinate) SetID(value string)      { c.p.Module = value }
func (c ivyCoordinate) Version() string         { return c.p.Revision }
func (c ivyCoordinate) SetVersion(value string) { c.p.Revision = value }
func (c ivyCoordinate) Identity() any           { return c.p }

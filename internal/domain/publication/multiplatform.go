// Where: internal/domain/publication/multiplatform.go
// What: Bridge publication owning a lazy view of variant publications.
// Why: Tie registration, finalization and coordinate derivation to one component.
package publication

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/domain/view"
)

// Defaults are the ecosystem values a freshly created publication starts with,
// typically the project name as id.
type Defaults struct {
	Group   string
	ID      string
	Version string
}

// Variant is a finalized variant publication.
type Variant struct {
	// Name is the variant name with the bridge prefix stripped.
	Name        string
	Coordinate  coordinate.Coordinate
	ResolvedID  string
	Overridden  bool
	Publication string
}

// Ref returns the coordinate under which the variant is published.
func (v Variant) Ref() coordinate.Ref {
	return coordinate.RefOf(v.Coordinate).WithID(v.ResolvedID)
}

// Multiplatform is one bridge publication plus its variants.
type Multiplatform struct {
	name     string
	kind     coordinate.Kind
	bridge   coordinate.Coordinate
	variants *view.View[coordinate.Coordinate]
	ids      *DerivedIDs
	resolver *Resolver
}

// New creates a multiplatform publication whose bridge and variants are
// publications of kind, seeded with defaults.
func New(name string, kind coordinate.Kind, defaults Defaults) (*Multiplatform, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("publication name is required")
	}
	bridge, err := newPublication(kind, name, defaults)
	if err != nil {
		return nil, err
	}

	ids := NewDerivedIDs()
	m := &Multiplatform{
		name:     name,
		kind:     kind,
		bridge:   bridge,
		ids:      ids,
		resolver: NewResolver(bridge, ids),
	}
	m.variants = view.New(func(fullName string) (coordinate.Coordinate, error) {
		return newPublication(kind, fullName, defaults)
	})
	m.variants.ConfigureEach(ids.Capture)
	m.variants.WhenElementFinalized(func(c coordinate.Coordinate) {
		m.resolver.Resolve(c, m.VariantName(c.Name()))
	})
	return m, nil
}

func newPublication(kind coordinate.Kind, name string, defaults Defaults) (coordinate.Coordinate, error) {
	c, err := coordinate.New(kind, name)
	if err != nil {
		return nil, err
	}
	c.SetGroup(defaults.Group)
	c.SetID(defaults.ID)
	c.SetVersion(defaults.Version)
	return c, nil
}

func (m *Multiplatform) Name() string {
	return m.name
}

func (m *Multiplatform) Kind() coordinate.Kind {
	return m.kind
}

// Bridge returns the bridge publication coordinate.
func (m *Multiplatform) Bridge() coordinate.Coordinate {
	return m.bridge
}

// IDs exposes the derived id map of the variants.
func (m *Multiplatform) IDs() *DerivedIDs {
	return m.ids
}

// View exposes the lazy variant view.
func (m *Multiplatform) View() *view.View[coordinate.Coordinate] {
	return m.variants
}

// Register adds a variant named name. Its fully-qualified name is the bridge
// name followed by the capitalized variant name (cpp + debug = cppDebug).
func (m *Multiplatform) Register(name string, configure ...func(coordinate.Coordinate)) (view.Handle[coordinate.Coordinate], error) {
	if strings.TrimSpace(name) == "" {
		return view.Handle[coordinate.Coordinate]{}, fmt.Errorf("variant name is required")
	}
	return m.variants.Register(m.QualifiedName(name), configure...)
}

// QualifiedName returns the fully-qualified publication name of a variant.
func (m *Multiplatform) QualifiedName(variantName string) string {
	return m.name + capitalize(variantName)
}

// VariantName strips the bridge prefix from a fully-qualified name.
func (m *Multiplatform) VariantName(fullName string) string {
	return uncapitalize(strings.TrimPrefix(fullName, m.name))
}

// Finalize is the external "configuration done" trigger.
func (m *Multiplatform) Finalize() {
	m.variants.Finalize()
}

// Variants finalizes the publication and returns its variants in
// registration order.
func (m *Multiplatform) Variants() ([]Variant, error) {
	elements, err := m.variants.Elements()
	if err != nil {
		return nil, err
	}
	out := make([]Variant, 0, len(elements))
	for _, c := range elements {
		id, ok := m.ids.Lookup(c)
		if !ok {
			return nil, fmt.Errorf("variant %q was not resolved", c.Name())
		}
		out = append(out, Variant{
			Name:        m.VariantName(c.Name()),
			Coordinate:  c,
			ResolvedID:  id,
			Overridden:  m.ids.Overridden(c),
			Publication: c.Name(),
		})
	}
	return out, nil
}

func (m *Multiplatform) String() string {
	return fmt.Sprintf("multiplatform %s publication '%s'", m.kind, m.name)
}

func capitalize(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if size == 0 {
		return value
	}
	return string(unicode.ToUpper(r)) + value[size:]
}

func uncapitalize(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if size == 0 {
		return value
	}
	return string(unicode.ToLower(r)) + value[size:]
}

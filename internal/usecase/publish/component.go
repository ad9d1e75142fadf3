// Where: internal/usecase/publish/component.go
// What: Build finalized multiplatform publications from configuration.
// Why: Every command works from the same resolved bridge and variant coordinates.
package publish

import (
	"fmt"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/domain/publication"
	"github.com/poruru/multipub/internal/infra/config"
)

// Component is a finalized multiplatform publication.
type Component struct {
	Name     string
	Kind     coordinate.Kind
	Bridge   coordinate.Ref
	Variants []publication.Variant

	// Declared holds the id each variant carried before finalization,
	// keyed by fully-qualified publication name.
	Declared map[string]string
	Config   config.Publication
}

// Components registers and finalizes every publication of cfgs. Variants
// start from projectID (or the bridge id when empty), the value a generator
// sees before ids are derived.
func Components(projectID string, cfgs []config.Publication) ([]Component, error) {
	out := make([]Component, 0, len(cfgs))
	for _, cfg := range cfgs {
		c, err := newComponent(projectID, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func newComponent(projectID string, cfg config.Publication) (Component, error) {
	kind, err := coordinate.ParseKind(cfg.Kind)
	if err != nil {
		return Component{}, fmt.Errorf("publication %s: %w", cfg.Name, err)
	}
	defaultID := projectID
	if defaultID == "" {
		defaultID = cfg.ID
	}
	m, err := publication.New(cfg.Name, kind, publication.Defaults{
		Group:   cfg.Group,
		ID:      defaultID,
		Version: cfg.Version,
	})
	if err != nil {
		return Component{}, err
	}
	m.Bridge().SetID(cfg.ID)

	for _, v := range cfg.Variants {
		var configure []func(coordinate.Coordinate)
		if id := v.ID; id != "" {
			configure = append(configure, func(c coordinate.Coordinate) { c.SetID(id) })
		}
		if _, err := m.Register(v.Name, configure...); err != nil {
			return Component{}, fmt.Errorf("publication %s: %w", cfg.Name, err)
		}
	}

	variants, err := m.Variants()
	if err != nil {
		return Component{}, fmt.Errorf("publication %s: %w", cfg.Name, err)
	}
	declared := make(map[string]string, len(variants))
	for _, v := range variants {
		snapshot, ok := m.IDs().Snapshot(v.Coordinate)
		if !ok {
			snapshot = defaultID
		}
		declared[v.Publication] = snapshot
	}

	return Component{
		Name:     cfg.Name,
		Kind:     kind,
		Bridge:   coordinate.RefOf(m.Bridge()),
		Variants: variants,
		Declared: declared,
		Config:   cfg,
	}, nil
}

// VariantConfig returns the configuration of the variant with the given
// short name.
func (c Component) VariantConfig(name string) (config.Variant, bool) {
	for _, v := range c.Config.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return config.Variant{}, false
}

// VariantRefs returns the published coordinates of every variant.
func (c Component) VariantRefs() []coordinate.Ref {
	refs := make([]coordinate.Ref, 0, len(c.Variants))
	for _, v := range c.Variants {
		refs = append(refs, v.Ref())
	}
	return refs
}

// Where: internal/domain/publication/resolver.go
// What: Variant coordinate derivation from the bridge coordinate.
// Why: Default variant ids to <bridge>_<variant> unless the user changed them.
package publication

import (
	"sync"

	"github.com/poruru/multipub/internal/domain/coordinate"
)

// ResolveID computes the effective id of a variant. A current id equal to
// the snapshot taken at registration is treated as "not overridden"; a user
// override that happens to equal the snapshot is indistinguishable and
// yields the default.
func ResolveID(bridgeID, variantName, snapshot, current string) (id string, overridden bool) {
	if current == snapshot {
		return DefaultVariantID(bridgeID, variantName), false
	}
	return current, true
}

// DefaultVariantID returns <bridgeID>_<variantName>.
func DefaultVariantID(bridgeID, variantName string) string {
	return bridgeID + "_" + variantName
}

// DerivedIDs maps variant identity to its snapshot and resolved id.
type DerivedIDs struct {
	mu         sync.RWMutex
	snapshots  map[any]string
	resolved   map[any]string
	overridden map[any]bool
}

// NewDerivedIDs returns an empty map.
func NewDerivedIDs() *DerivedIDs {
	return &DerivedIDs{
		snapshots:  map[any]string{},
		resolved:   map[any]string{},
		overridden: map[any]bool{},
	}
}

// Capture records the pre-finalization id of c.
func (d *DerivedIDs) Capture(c coordinate.Coordinate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshots[c.Identity()] = c.ID()
}

// Snapshot returns the captured id of c.
func (d *DerivedIDs) Snapshot(c coordinate.Coordinate) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.snapshots[c.Identity()]
	return v, ok
}

// Lookup returns the resolved id of c.
func (d *DerivedIDs) Lookup(c coordinate.Coordinate) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.resolved[c.Identity()]
	return v, ok
}

// Overridden reports whether the resolved id of c came from the user.
func (d *DerivedIDs) Overridden(c coordinate.Coordinate) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.overridden[c.Identity()]
}

func (d *DerivedIDs) store(c coordinate.Coordinate, id string, overridden bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resolved[c.Identity()] = id
	d.overridden[c.Identity()] = overridden
}

// Resolver finalizes variant coordinates against a bridge.
type Resolver struct {
	bridge coordinate.Coordinate
	ids    *DerivedIDs
}

// NewResolver binds a resolver to bridge and ids.
func NewResolver(bridge coordinate.Coordinate, ids *DerivedIDs) *Resolver {
	return &Resolver{bridge: bridge, ids: ids}
}

// Resolve fixes the variant's id, group and version and records the
// resolved id. Group and version always follow the bridge.
func (r *Resolver) Resolve(variant coordinate.Coordinate, variantName string) string {
	snapshot, ok := r.ids.Snapshot(variant)
	if !ok {
		snapshot = variant.ID()
	}
	id, overridden := ResolveID(r.bridge.ID(), variantName, snapshot, variant.ID())
	if !overridden {
		variant.SetID(id)
	}
	variant.SetGroup(r.bridge.Group())
	variant.SetVersion(r.bridge.Version())
	r.ids.store(variant, id, overridden)
	return id
}

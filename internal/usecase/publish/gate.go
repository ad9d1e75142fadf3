// Where: internal/usecase/publish/gate.go
// What: Availability gate for bridge publishes.
// Why: A bridge must not point at variants that are absent from the same repository.
package publish

import (
	"context"

	"github.com/poruru/multipub/internal/domain/coordinate"
	"github.com/poruru/multipub/internal/infra/repository"
	"github.com/poruru/multipub/internal/infra/ui"
)

// AvailabilityGate checks that every variant descriptor exists in one
// repository.
type AvailabilityGate struct {
	Repository repository.Repository
	Variants   []coordinate.Ref
	UI         ui.UserInterface
}

// Missing fetches each variant descriptor once and returns one error per
// absent variant. Any fetch failure counts as absent.
func (g AvailabilityGate) Missing(ctx context.Context) []*MissingSiblingManifestError {
	var missing []*MissingSiblingManifestError
	layout := g.Repository.Layout()
	for _, ref := range g.Variants {
		if _, err := g.Repository.Fetch(ctx, layout.ModulePath(ref)); err != nil {
			missing = append(missing, &MissingSiblingManifestError{
				Coordinate: ref,
				Repository: g.Repository.Name(),
				URL:        repository.Resolve(g.Repository, ref),
				Err:        err,
			})
		}
	}
	return missing
}

// Allow reports whether the bridge publish may run, warning once per
// missing variant. It is a taskgraph predicate.
func (g AvailabilityGate) Allow(ctx context.Context) bool {
	missing := g.Missing(ctx)
	for _, m := range missing {
		if g.UI != nil {
			g.UI.Warn(m.Error())
		}
	}
	return len(missing) == 0
}

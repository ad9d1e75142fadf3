// Where: internal/command/coordinates.go
// What: coordinates command adapter.
// Why: Show the finalized bridge and variant coordinates without publishing.
package command

import (
	"context"
	"fmt"

	"github.com/poruru/multipub/internal/infra/ui"
	"github.com/poruru/multipub/internal/usecase/publish"
)

func runCoordinates(_ context.Context, cli CLI, deps Dependencies, userInterface ui.UserInterface) int {
	inputs, err := resolveProject(cli, deps)
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	pubs, err := inputs.Project.SelectPublications(trimmed(cli.Coordinates.Publication))
	if err != nil {
		return exitWithError(deps.Out, err)
	}
	components, err := publish.Components(inputs.Project.Project, pubs)
	if err != nil {
		return exitWithError(deps.Out, err)
	}

	for _, c := range components {
		rows := []ui.KeyValue{{Key: c.Name, Value: c.Bridge.String()}}
		for _, v := range c.Variants {
			value := v.Ref().String()
			if v.Overridden {
				value += " (override)"
			}
			rows = append(rows, ui.KeyValue{Key: v.Publication, Value: value})
		}
		userInterface.Block("🧭", fmt.Sprintf("%s publication '%s'", c.Kind, c.Name), rows)
	}
	return 0
}

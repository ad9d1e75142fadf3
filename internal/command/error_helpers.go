// Where: internal/command/error_helpers.go
// What: Shared CLI error output.
// Why: Every command reports failures the same way.
package command

import (
	"fmt"
	"io"

	"github.com/poruru/multipub/internal/infra/ui"
)

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	ui.NewConsoleUI(out, false).Warn(fmt.Sprintf("✗ %v", err))
	return 1
}

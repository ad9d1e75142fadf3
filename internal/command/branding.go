// Where: internal/command/branding.go
// What: CLI naming.
// Why: Keep user-facing command names consistent when the binary is renamed.
package command

import (
	"os"
	"strings"

	"github.com/poruru/multipub/internal/meta"
)

func cliName() string {
	name := strings.TrimSpace(os.Getenv("CLI_CMD"))
	if name == "" {
		name = strings.TrimSpace(meta.Slug)
	}
	if name == "" {
		name = "multipub"
	}
	return name
}

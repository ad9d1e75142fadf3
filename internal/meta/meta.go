// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep the tool's naming and file layout in one place.
package meta

const (
	// Project Identity
	AppName   = "multipub"
	Slug      = "multipub"
	EnvPrefix = "MULTIPUB"

	// Files and Directory Layout
	ConfigFile = "multipub.yaml"
	EnvFile    = ".env"
	BuildDir   = "build/publications"
)

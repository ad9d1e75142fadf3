// Where: internal/version/version.go
// What: Version information for the multipub binary.
// Why: Report the release tag when linked in, otherwise the VCS revision.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at link time with -ldflags "-X ...version.Version=v1.2.3".
var Version = ""

// GetVersion returns the linked release version, falling back to the VCS
// revision from build info (suffixed with "(dirty)" for modified trees) and
// finally "dev".
func GetVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	return fromSettings(info.Settings)
}

func fromSettings(settings []debug.BuildSetting) string {
	var revision string
	var modified bool
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}

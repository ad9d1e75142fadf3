// Where: internal/domain/descriptor/variant.go
// What: Local and remote descriptor variant entries.
// Why: Remote variants point at another module instead of carrying files.
package descriptor

const (
	fieldName         = "name"
	fieldAvailableAt  = "available-at"
	fieldFiles        = "files"
	fieldDependencies = "dependencies"
)

// Variant is one entry of the descriptor's variants list.
type Variant map[string]any

// AvailableAt locates the module that actually carries a remote variant.
type AvailableAt struct {
	URL     string
	Group   string
	Module  string
	Version string
}

// Name returns the variant name, or "" when absent.
func (v Variant) Name() string {
	name, _ := v[fieldName].(string)
	return name
}

// IsRemote reports whether v is a pointer to another module.
func (v Variant) IsRemote() bool {
	_, ok := v[fieldAvailableAt]
	return ok
}

// AvailableAt returns the remote location of v.
func (v Variant) AvailableAt() (AvailableAt, bool) {
	obj, ok := v[fieldAvailableAt].(map[string]any)
	if !ok {
		return AvailableAt{}, false
	}
	str := func(key string) string {
		s, _ := obj[key].(string)
		return s
	}
	return AvailableAt{
		URL:     str("url"),
		Group:   str("group"),
		Module:  str(fieldModule),
		Version: str("version"),
	}, true
}

// Remote copies a local variant into a remote one pointing at at. Files and
// dependencies are dropped; every other field is kept.
func (v Variant) Remote(at AvailableAt) Variant {
	out := make(Variant, len(v)+1)
	for key, value := range v {
		switch key {
		case fieldFiles, fieldDependencies:
			continue
		}
		out[key] = value
	}
	out[fieldAvailableAt] = map[string]any{
		"url":       at.URL,
		"group":     at.Group,
		fieldModule: at.Module,
		"version":   at.Version,
	}
	return out
}

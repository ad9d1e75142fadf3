// Where: internal/domain/descriptor/document.go
// What: Structured module descriptor document (component + variants).
// Why: Patch and stitch generated descriptors without knowing their full grammar.
package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed reports a descriptor missing a field the core depends on.
var ErrMalformed = errors.New("malformed descriptor")

// MalformedDescriptorError names the missing or mistyped field.
type MalformedDescriptorError struct {
	Source string
	Field  string
	Reason string
}

func (e *MalformedDescriptorError) Error() string {
	msg := fmt.Sprintf("%s: field %q", ErrMalformed, e.Field)
	if e.Reason != "" {
		msg += " " + e.Reason
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	return msg
}

func (e *MalformedDescriptorError) Unwrap() error {
	return ErrMalformed
}

const (
	fieldComponent = "component"
	fieldModule    = "module"
	fieldVariants  = "variants"
)

// Document is a generic descriptor tree. Unknown fields are preserved.
type Document struct {
	source string
	root   map[string]any
}

// Parse decodes a descriptor. source is only used in error messages.
func Parse(data []byte, source string) (*Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var root map[string]any
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode descriptor %s: %w", source, err)
	}
	if root == nil {
		return nil, &MalformedDescriptorError{Source: source, Field: "$", Reason: "is not an object"}
	}
	return &Document{source: source, root: root}, nil
}

// Bytes encodes the document with two-space indentation.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d.root); err != nil {
		return nil, fmt.Errorf("encode descriptor %s: %w", d.source, err)
	}
	return buf.Bytes(), nil
}

// ComponentModule returns component.module.
func (d *Document) ComponentModule() (string, error) {
	component, err := d.component()
	if err != nil {
		return "", err
	}
	module, ok := component[fieldModule].(string)
	if !ok {
		return "", &MalformedDescriptorError{Source: d.source, Field: "component.module", Reason: "is missing"}
	}
	return module, nil
}

// SetComponentModule rewrites component.module in place.
func (d *Document) SetComponentModule(id string) error {
	component, err := d.component()
	if err != nil {
		return err
	}
	if _, ok := component[fieldModule].(string); !ok {
		return &MalformedDescriptorError{Source: d.source, Field: "component.module", Reason: "is missing"}
	}
	component[fieldModule] = id
	return nil
}

// Variants returns the variant entries in document order.
func (d *Document) Variants() ([]Variant, error) {
	raw, err := d.variantList()
	if err != nil {
		return nil, err
	}
	out := make([]Variant, 0, len(raw))
	for i, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, &MalformedDescriptorError{
				Source: d.source,
				Field:  fmt.Sprintf("variants[%d]", i),
				Reason: "is not an object",
			}
		}
		out = append(out, Variant(obj))
	}
	return out, nil
}

// AppendVariant adds v at the end of the variants list.
func (d *Document) AppendVariant(v Variant) error {
	raw, err := d.variantList()
	if err != nil {
		return err
	}
	d.root[fieldVariants] = append(raw, map[string]any(v))
	return nil
}

func (d *Document) component() (map[string]any, error) {
	component, ok := d.root[fieldComponent].(map[string]any)
	if !ok {
		return nil, &MalformedDescriptorError{Source: d.source, Field: fieldComponent, Reason: "is missing"}
	}
	return component, nil
}

func (d *Document) variantList() ([]any, error) {
	value, ok := d.root[fieldVariants]
	if !ok || value == nil {
		return []any{}, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, &MalformedDescriptorError{Source: d.source, Field: fieldVariants, Reason: "is not a list"}
	}
	return list, nil
}

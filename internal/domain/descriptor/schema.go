// Where: internal/domain/descriptor/schema.go
// What: JSON schema validation for module descriptors.
// Why: Refuse to upload a generated or stitched descriptor that consumers cannot read.
package descriptor

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const moduleSchemaURL = "https://multipub.local/schema/module.schema.json"

//go:embed schema/module.schema.json
var moduleSchema []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// Validate checks d against the embedded module descriptor schema.
func Validate(d *Document) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(any(d.root)); err != nil {
		return fmt.Errorf("validate descriptor %s: %w", d.source, err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(moduleSchemaURL, bytes.NewReader(moduleSchema)); err != nil {
			schemaErr = fmt.Errorf("load module schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(moduleSchemaURL)
	})
	return compiledSchema, schemaErr
}

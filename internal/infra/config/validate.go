// Where: internal/infra/config/validate.go
// What: Schema validation for multipub.yaml.
// Why: Report structural mistakes with a precise location before anything is published.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

const projectSchemaURL = "https://multipub.local/schema/project.schema.json"

//go:embed schema/project.schema.json
var projectSchema []byte

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

func validateProject(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := yaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	var document any
	if err := dec.Decode(&document); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	if err := sch.Validate(document); err != nil {
		return err
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(projectSchemaURL, bytes.NewReader(projectSchema)); err != nil {
			schemaErr = fmt.Errorf("load project schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(projectSchemaURL)
	})
	return compiledSchema, schemaErr
}

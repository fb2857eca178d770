package treefmt

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aledsdavies/bashcst/pkgs/ast"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tree.schema.json
var schemaJSON []byte

const schemaURL = "schema://tree.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema every dump conforms to.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func treeSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Validate checks a decoded dump against the tree schema. Values are
// normalized through JSON first, so dumps decoded from any format work.
func Validate(dump interface{}) error {
	schema, err := treeSchema()
	if err != nil {
		return fmt.Errorf("schema compilation failed: %w", err)
	}

	data, err := json.Marshal(dump)
	if err != nil {
		return fmt.Errorf("dump is not JSON-compatible: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return err
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("tree dump does not match schema: %w", err)
	}
	return nil
}

// ValidateNode dumps node with trivia and validates the result.
func ValidateNode(node ast.Node) error {
	return Validate(ast.ToMapWithTrivia(node))
}

// ValidateBytes decodes an encoded dump and validates it.
func ValidateBytes(data []byte, f Format) error {
	v, err := Unmarshal(data, f)
	if err != nil {
		return err
	}
	return Validate(v)
}

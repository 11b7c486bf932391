package decl

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "https://github.com/search-rug/cpptool-lib-metrics/decl.schema.json"

const dumpSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["records"],
  "properties": {
    "records": {"type": "array", "items": {"$ref": "#/$defs/record"}},
    "types": {"type": "array", "items": {"$ref": "#/$defs/typeDecl"}}
  },
  "$defs": {
    "access": {"enum": ["public", "protected", "private", ""]},
    "typeRef": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "builtin": {"type": "boolean"},
        "ref": {"type": "string"},
        "external": {"type": "boolean"}
      }
    },
    "method": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "access": {"$ref": "#/$defs/access"},
        "virtual": {"type": "boolean"},
        "static": {"type": "boolean"},
        "params": {"type": ["array", "null"], "items": {"$ref": "#/$defs/typeRef"}}
      }
    },
    "field": {
      "type": "object",
      "required": ["name", "type"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "access": {"$ref": "#/$defs/access"},
        "type": {"$ref": "#/$defs/typeRef"}
      }
    },
    "parent": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"$ref": "#/$defs/typeRef"},
        "access": {"$ref": "#/$defs/access"}
      }
    },
    "scope": {
      "type": ["object", "null"],
      "properties": {
        "methods": {"type": ["array", "null"], "items": {"$ref": "#/$defs/method"}},
        "fields": {"type": ["array", "null"], "items": {"$ref": "#/$defs/field"}},
        "records": {"type": ["array", "null"], "items": {"$ref": "#/$defs/record"}}
      }
    },
    "record": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "id": {"type": "string"},
        "name": {"type": "string", "minLength": 1},
        "variant": {"enum": ["class", "struct", "union", ""]},
        "file": {"type": "string"},
        "line": {"type": "integer", "minimum": 0},
        "parents": {"type": ["array", "null"], "items": {"$ref": "#/$defs/parent"}},
        "scope": {"$ref": "#/$defs/scope"}
      }
    },
    "typeDecl": {
      "type": "object",
      "required": ["id", "name", "kind"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string", "minLength": 1},
        "kind": {"enum": ["enum", "typedef", "other"]},
        "file": {"type": "string"},
        "line": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(dumpSchema))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Validate checks a JSON dump document against the dump schema.
func Validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile dump schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	return nil
}

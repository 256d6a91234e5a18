package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://question-bank.json"

// documentSchema describes a bank document: an array of question records.
// Kind-specific rules (letter ranges, option bounds) are checked during
// normalization.
var documentSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "minLength": 1},
			"q":        map[string]any{"type": "string", "minLength": 1},
			"text":     map[string]any{"type": "string", "minLength": 1},
			"options": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string"},
			},
			"answer":        map[string]any{"type": "string"},
			"correctAnswer": map[string]any{"type": "integer", "minimum": 0},
			"type": map[string]any{
				"type": "string",
				"enum": []any{string(KindMultipleChoice), string(KindFillInBlank), string(KindTrueFalse)},
			},
		},
		"anyOf": []any{
			map[string]any{"required": []any{"question"}},
			map[string]any{"required": []any{"q"}},
			map[string]any{"required": []any{"text"}},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func bankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value, so round-trip the map.
		raw, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks raw JSON against the bank schema.
func validateDocument(raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := bankSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if _, ok := doc.([]any); !ok {
		return fmt.Errorf("document is %T, want an array of questions", doc)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

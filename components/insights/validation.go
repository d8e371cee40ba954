package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// datasetSchema is the JSON-schema form of the ingestion contract: ordered
// headers, per-header declared types, rows of string-or-number cells.
var datasetSchema = map[string]any{
	"type":     "object",
	"required": []string{"headers", "rows"},
	"properties": map[string]any{
		"headers": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "string", "minLength": 1},
		},
		"types": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type": "string",
				"enum": []string{string(ColumnString), string(ColumnNumber)},
			},
		},
		"rows": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"oneOf": []map[string]any{
						{"type": "string"},
						{"type": "number"},
					},
				},
			},
		},
	},
	"additionalProperties": false,
}

// DatasetValidator checks ingestion payloads against the dataset schema plus
// the structural rules the schema cannot express.
type DatasetValidator struct {
	compiled *jsonschema.Schema
}

// NewDatasetValidator compiles the dataset schema once.
func NewDatasetValidator() *DatasetValidator {
	data, err := json.Marshal(datasetSchema)
	if err != nil {
		panic(fmt.Sprintf("insights: marshal dataset schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("dataset.json", bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("insights: load dataset schema: %v", err))
	}
	compiled, err := compiler.Compile("dataset.json")
	if err != nil {
		panic(fmt.Sprintf("insights: compile dataset schema: %v", err))
	}
	return &DatasetValidator{compiled: compiled}
}

// Validate rejects malformed ingestion payloads. Data-level problems inside
// cells (bad dates, non-numeric metrics) are not errors; the pipeline
// degrades on those per its contract.
func (v *DatasetValidator) Validate(input DatasetInput) error {
	if input.Types == nil {
		input.Types = map[string]ColumnType{}
	}
	if input.Rows == nil {
		input.Rows = []map[string]any{}
	}
	payload, err := normalizePayload(input)
	if err != nil {
		return err
	}
	if err := v.compiled.Validate(payload); err != nil {
		return fmt.Errorf("insights: dataset failed validation: %w", err)
	}
	seen := make(map[string]struct{}, len(input.Headers))
	for _, header := range input.Headers {
		if _, dup := seen[header]; dup {
			return fmt.Errorf("insights: duplicate header %q", header)
		}
		seen[header] = struct{}{}
	}
	for header := range input.Types {
		if _, ok := seen[header]; !ok {
			return fmt.Errorf("insights: type declared for unknown header %q", header)
		}
	}
	for i, row := range input.Rows {
		for header := range row {
			if _, ok := seen[header]; !ok {
				return fmt.Errorf("insights: row %d references unknown header %q", i, header)
			}
		}
	}
	return nil
}

// ReportConfigValidator compiles report schemas on first use and validates
// configuration maps against them.
type ReportConfigValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewReportConfigValidator builds a validator backed by jsonschema v5.
func NewReportConfigValidator() *ReportConfigValidator {
	return &ReportConfigValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate ensures the provided configuration satisfies the report schema.
func (v *ReportConfigValidator) Validate(def ReportDefinition, config map[string]any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	var payload map[string]any
	if config == nil {
		payload = map[string]any{}
	} else {
		data, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("insights: marshal config for %s: %w", def.Code, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("insights: normalize config for %s: %w", def.Code, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("insights: configuration for %s failed validation: %w", def.Code, err)
	}
	return nil
}

func (v *ReportConfigValidator) schemaFor(def ReportDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("insights: marshal schema %s: %w", def.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.Code + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("insights: load schema %s: %w", def.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("insights: compile schema %s: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[def.Code] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func normalizePayload(input DatasetInput) (map[string]any, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("insights: marshal dataset payload: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("insights: normalize dataset payload: %w", err)
	}
	return payload, nil
}

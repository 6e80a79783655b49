package rules

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRulesJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// rules file must satisfy, as a generic map.
func BuildRulesJSONSchema() map[string]any {
	nameArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "minLength": 1},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"whitelist":       nameArray,
			"providers":       nameArray,
			"org_like_labels": nameArray,
			"day_first":       map[string]any{"type": "boolean"},
		},
	}
}

// ValidateRulesJSON validates a raw rules document against the schema.
func ValidateRulesJSON(data []byte) error {
	b, err := json.Marshal(BuildRulesJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("rules.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal rules: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("rules do not match schema: %w", err)
	}
	return nil
}

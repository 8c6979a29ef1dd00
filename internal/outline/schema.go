package outline

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const contractSchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["title", "outline"],
  "properties": {
    "title": {"type": "string"},
    "outline": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["level", "text", "page"],
        "properties": {
          "level": {"enum": ["H1", "H2", "H3"]},
          "text": {"type": "string", "minLength": 1},
          "page": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var contractSchema = jsonschema.MustCompileString("outline.schema.json", contractSchemaJSON)

// Validate checks an encoded result against the output contract.
func Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal outline: %w", err)
	}
	if err := contractSchema.Validate(v); err != nil {
		return fmt.Errorf("outline does not match contract: %w", err)
	}
	return nil
}

// ValidateResult encodes r and validates it.
func ValidateResult(r Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal outline: %w", err)
	}
	return Validate(data)
}

package decision

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseFormatSchema is the shape handed to the oracle's structured-output
// mode. Strict mode forbids conditionals, so the percentage coupling is not
// expressible here; outputSchema below enforces it on our side.
const responseFormatSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["decision", "percentage", "reason", "expected_next_day_price"],
  "properties": {
    "decision": {
      "type": "string",
      "enum": ["BUY", "SELL", "HOLD"]
    },
    "percentage": {
      "type": "integer"
    },
    "reason": {
      "type": "string"
    },
    "expected_next_day_price": {
      "type": "number"
    }
  }
}`

// outputSchemaSource is the full validation contract applied to every reply,
// including the decision/percentage coupling.
const outputSchemaSource = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "required": ["decision", "percentage", "reason", "expected_next_day_price"],
  "properties": {
    "decision": {
      "type": "string",
      "enum": ["BUY", "SELL", "HOLD"]
    },
    "percentage": {
      "type": "integer"
    },
    "reason": {
      "type": "string",
      "minLength": 1
    },
    "expected_next_day_price": {
      "type": "number"
    }
  },
  "allOf": [
    {
      "if": {
        "properties": { "decision": { "const": "HOLD" } }
      },
      "then": {
        "properties": { "percentage": { "const": 0 } }
      }
    },
    {
      "if": {
        "properties": { "decision": { "enum": ["BUY", "SELL"] } }
      },
      "then": {
        "properties": { "percentage": { "minimum": 1, "maximum": 100 } }
      }
    }
  ]
}`

var outputSchema = jsonschema.MustCompileString("verdict.schema.json", outputSchemaSource)

// ResponseFormat returns the schema for the chat completion response_format
// block.
func ResponseFormat() json.RawMessage {
	return json.RawMessage(responseFormatSchema)
}

// Parse validates and decodes a raw oracle reply. Any schema violation is a
// hard error; a run never proceeds on a half-valid verdict.
func Parse(raw []byte) (*Record, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("oracle reply is not valid JSON: %w", err)
	}
	if err := outputSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("oracle reply rejected by schema: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("oracle reply decode: %w", err)
	}
	return &rec, nil
}

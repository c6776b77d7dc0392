package outlines

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidPayload is returned for payloads that do not match the schema.
var ErrInvalidPayload = errors.New("invalid outline payload")

const payloadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["strokes"],
  "properties": {
    "strokes": {
      "type": "array",
      "items": {"type": "string"}
    },
    "medians": {
      "type": "array",
      "items": {
        "type": "array",
        "items": {
          "type": "array",
          "items": {"type": "number"},
          "minItems": 2,
          "maxItems": 2
        }
      }
    },
    "radStrokes": {
      "type": "array",
      "items": {"type": "integer", "minimum": 0}
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(payloadSchema)

// Validate checks a raw payload against the outline schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
	}
	return nil
}

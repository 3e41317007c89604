package dataset

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const documentSchema = `{
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "propertyNames": {"pattern": "^[A-Za-z0-9_]+$"},
    "additionalProperties": {
      "type": "object",
      "properties": {
        "test_suites": {
          "oneOf": [
            {"type": "string"},
            {"type": "array", "items": {"type": "string"}}
          ]
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// ValidationError lists the schema violations of a data file.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid data file: %s", e.Path, strings.Join(e.Problems, "; "))
}

func validate(path string, document gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, document)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{Path: path}
	for _, desc := range result.Errors() {
		verr.Problems = append(verr.Problems, desc.String())
	}
	return verr
}

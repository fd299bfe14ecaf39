package sheet

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSheet is returned when a score sheet does not match the sheet schema.
var ErrInvalidSheet = errors.New("invalid score sheet")

//go:embed score_sheet.schema.json
var schemaSource string

var schema = gojsonschema.NewStringLoader(schemaSource)

// checkDocument validates a decoded sheet document against the embedded schema.
func checkDocument(doc map[string]any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("checking score sheet schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidSheet, strings.Join(problems, "; "))
}

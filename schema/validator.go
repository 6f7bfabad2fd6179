package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed hookplan.schema.json
var embeddedSchemaData []byte

// SchemaURL is the resource name the embedded schema is registered under.
const SchemaURL = "hookplan.json"

// Violation is a single schema failure at an instance location
// (a JSON pointer such as "/repos/0/hooks/1").
type Violation struct {
	Location string
	Message  string
}

// Validator validates descriptor documents against the embedded JSON Schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a new schema validator, loading the embedded schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(SchemaURL, strings.NewReader(string(embeddedSchemaData))); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema resource: %w", err)
	}

	schema, err := compiler.Compile(SchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Raw returns the embedded schema document.
func Raw() []byte {
	return embeddedSchemaData
}

// Validate checks data against the schema and returns every leaf violation.
// It expects data to be anything that can be marshaled to JSON.
func (v *Validator) Validate(data interface{}) ([]Violation, error) {
	// The schema library works on plain JSON values, so round-trip through
	// encoding/json to normalise numbers and maps.
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document to JSON for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var violations []Violation
			collectErrors(validationErr, &violations)
			return violations, nil
		}
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	return nil, nil
}

// collectErrors recursively collects the leaf validation errors
func collectErrors(err *jsonschema.ValidationError, violations *[]Violation) {
	if len(err.Causes) == 0 {
		*violations = append(*violations, Violation{Location: err.InstanceLocation, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, violations)
	}
}

// PointerToPath converts a JSON pointer into the dotted path notation used in
// descriptor diagnostics: "/repos/0/hooks/1/id" becomes "repos[0].hooks[1].id".
func PointerToPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return ""
	}
	var b strings.Builder
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token = strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
		if isIndex(token) {
			fmt.Fprintf(&b, "[%s]", token)
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(token)
	}
	return b.String()
}

func isIndex(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

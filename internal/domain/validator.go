package domain

// ValidationIssue is a single schema violation reported by a SchemaValidator.
type ValidationIssue struct {
	Message string
}

// SchemaValidator validates a text document against an opaque schema handle.
//
// Implementations return ErrSchemaUnsupported (possibly wrapped) when they cannot
// evaluate the given schema or content; that is a capability gap, not a violation.
type SchemaValidator interface {
	Validate(schema any, text string) ([]ValidationIssue, error)
}

// SchemaValidatorFunc adapts a function to the SchemaValidator interface.
type SchemaValidatorFunc func(schema any, text string) ([]ValidationIssue, error)

// Validate calls f(schema, text).
func (f SchemaValidatorFunc) Validate(schema any, text string) ([]ValidationIssue, error) {
	return f(schema, text)
}

// SchemaResult is the outcome of checking a text against a body schema.
type SchemaResult struct {
	Issues []ValidationIssue
	// Unsupported is set when the validator could not evaluate the schema at all.
	Unsupported bool
}

// Valid reports whether the text can be accepted: no issues, or no validation possible.
func (r SchemaResult) Valid() bool {
	return len(r.Issues) == 0
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrUnknownMethod indicates the contract declares a method token outside the known set.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrUnsupportedCapability indicates a call into an operation this model does not implement.
	ErrUnsupportedCapability = errors.New("unsupported capability")

	// ErrSchemaUnsupported is returned by a SchemaValidator that cannot evaluate a schema/content pairing.
	ErrSchemaUnsupported = errors.New("schema validation not supported")

	// ErrTransformation indicates a body could not be turned into a structured document.
	ErrTransformation = errors.New("transformation failed")

	// ErrBadRequest indicates a request body violates its declared schema.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound indicates a lookup into the model found nothing.
	ErrNotFound = errors.New("not found")
)

// UnknownMethodError is returned when a method token cannot be mapped to an HTTPMethod.
type UnknownMethodError struct {
	Token string
	// Path is the resource declaring the method, when known.
	Path string
}

// Error returns a human-readable error message.
func (e *UnknownMethodError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("unknown method %q on resource %s", e.Token, e.Path)
	}

	return fmt.Sprintf("unknown method %q", e.Token)
}

// Is reports whether target matches this error type.
func (e *UnknownMethodError) Is(target error) bool {
	return target == ErrUnknownMethod
}

// UnsupportedCapabilityError is returned by every operation a Capability gates.
type UnsupportedCapabilityError struct {
	Capability Capability
	Op         string
}

// Error returns a human-readable error message.
func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("%s: unsupported capability %s", e.Op, e.Capability)
}

// Is reports whether target matches this error type.
func (e *UnsupportedCapabilityError) Is(target error) bool {
	return target == ErrUnsupportedCapability
}

// TransformationError reports that a body could not be extracted or serialized
// for validation. It never means the body is invalid.
type TransformationError struct {
	Stage string
	Cause error
}

// Error returns a human-readable error message.
func (e *TransformationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransformationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TransformationError) Is(target error) bool {
	return target == ErrTransformation
}

// BadRequestError aggregates every schema violation found in a request body.
type BadRequestError struct {
	Issues []ValidationIssue
}

// Error joins the issue messages with newlines, in validator order.
func (e *BadRequestError) Error() string {
	return joinIssues(e.Issues)
}

// Is reports whether target matches this error type.
func (e *BadRequestError) Is(target error) bool {
	return target == ErrBadRequest
}

// BadFormParametersError is the bad-request failure of the url-encoded form pipeline.
type BadFormParametersError struct {
	Issues []ValidationIssue
}

// Error joins the issue messages with newlines, in validator order.
func (e *BadFormParametersError) Error() string {
	return joinIssues(e.Issues)
}

// Is reports whether target matches this error type.
func (e *BadFormParametersError) Is(target error) bool {
	return target == ErrBadRequest
}

// NotFoundError reports a failed lookup of a resource, action or body.
type NotFoundError struct {
	Kind string
	Key  string
}

// Error returns a human-readable error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// Is reports whether target matches this error type.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func joinIssues(issues []ValidationIssue) string {
	msgs := make([]string, 0, len(issues))
	for _, issue := range issues {
		msgs = append(msgs, issue.Message)
	}

	return strings.Join(msgs, "\n")
}

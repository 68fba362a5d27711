// Package domain provides the core ports and value types shared by the contract model,
// the validation pipeline and their adapters.
package domain

// ContractSource is a parsed API contract as handed over by a parser adapter.
type ContractSource interface {
	Title() string
	Version() string
	// BaseURI is the first declared server URL, or "" when none is declared.
	BaseURI() string
	Endpoints() []Endpoint
}

// Endpoint is one path of the contract with the operations declared on it.
type Endpoint interface {
	Path() string
	Operations() []Operation
	// Parameters returns the URI parameters declared on the path.
	Parameters() []ParameterNode
}

// Operation is one method declared on an endpoint.
type Operation interface {
	// Method returns the raw method token as written in the contract.
	Method() string
	// Request returns the request definition, if the operation declares one.
	Request() (Request, bool)
	Responses() []ResponseNode
}

// Request groups the request-side declarations of an operation.
type Request interface {
	Payloads() []PayloadNode
	QueryParameters() []ParameterNode
	Headers() []ParameterNode
}

// ResponseNode is one declared response of an operation.
type ResponseNode interface {
	StatusCode() string
	Payloads() []PayloadNode
	Headers() []ParameterNode
}

// PayloadNode is a body variant identified by its media type.
type PayloadNode interface {
	MediaType() string
	// Schema is an opaque handle understood by the bound SchemaValidator.
	Schema() any
}

// ParameterNode is a named parameter declaration.
type ParameterNode interface {
	Name() string
	Location() ParameterLocation
	Type() ScalarType
	Required() bool
	Default() (string, bool)
	Description() string
}

// ParameterLocation tells where a parameter travels in a request.
type ParameterLocation string

// Parameter locations.
const (
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationPath   ParameterLocation = "path"
	LocationCookie ParameterLocation = "cookie"
)

// ScalarType is the declared type of a parameter.
type ScalarType string

// Scalar types.
const (
	TypeString  ScalarType = "string"
	TypeInteger ScalarType = "integer"
	TypeNumber  ScalarType = "number"
	TypeBoolean ScalarType = "boolean"
	TypeArray   ScalarType = "array"
	TypeObject  ScalarType = "object"
	TypeFile    ScalarType = "file"
	TypeAny     ScalarType = "any"
)

// ParseScalarType maps a declared type name to a ScalarType. Unknown names map to TypeAny.
func ParseScalarType(name string) ScalarType {
	switch t := ScalarType(name); t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject, TypeFile:
		return t
	default:
		return TypeAny
	}
}

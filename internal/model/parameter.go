package model

import "github.com/GabrielNunesIT/apicontract/internal/domain"

// Parameter is a named query, header or URI parameter. It is immutable.
type Parameter struct {
	name        string
	location    domain.ParameterLocation
	typ         domain.ScalarType
	required    bool
	def         string
	hasDefault  bool
	description string
}

// NewParameter copies a parameter declaration into the model.
func NewParameter(node domain.ParameterNode) *Parameter {
	def, hasDefault := node.Default()

	return &Parameter{
		name:        node.Name(),
		location:    node.Location(),
		typ:         node.Type(),
		required:    node.Required(),
		def:         def,
		hasDefault:  hasDefault,
		description: node.Description(),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string { return p.name }

// Location returns where the parameter travels.
func (p *Parameter) Location() domain.ParameterLocation { return p.location }

// Type returns the declared scalar type.
func (p *Parameter) Type() domain.ScalarType { return p.typ }

// Required reports whether the parameter must be present.
func (p *Parameter) Required() bool { return p.required }

// Default returns the declared default value, if any.
func (p *Parameter) Default() (string, bool) { return p.def, p.hasDefault }

// Description returns the parameter description.
func (p *Parameter) Description() string { return p.description }

// parameterMap keys parameters by name. A repeated name keeps the last declaration.
func parameterMap(nodes []domain.ParameterNode) *Ordered[string, *Parameter] {
	out := newOrdered[string, *Parameter](len(nodes))
	for _, node := range nodes {
		out.set(node.Name(), NewParameter(node))
	}

	return out
}

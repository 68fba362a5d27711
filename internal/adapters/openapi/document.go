package openapi

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

// Document exposes a kin-openapi document as a domain.ContractSource.
type Document struct {
	doc *openapi3.T
}

// NewDocument wraps an already loaded document.
func NewDocument(doc *openapi3.T) *Document {
	return &Document{doc: doc}
}

// T returns the underlying kin-openapi document.
func (d *Document) T() *openapi3.T { return d.doc }

// Title returns info.title.
func (d *Document) Title() string {
	if d.doc.Info == nil {
		return ""
	}
	return d.doc.Info.Title
}

// Version returns info.version.
func (d *Document) Version() string {
	if d.doc.Info == nil {
		return ""
	}
	return d.doc.Info.Version
}

// BaseURI returns the first server URL.
func (d *Document) BaseURI() string {
	for _, server := range d.doc.Servers {
		if server != nil {
			return server.URL
		}
	}
	return ""
}

// Endpoints returns every path in lexical order.
func (d *Document) Endpoints() []domain.Endpoint {
	if d.doc.Paths == nil {
		return nil
	}

	items := d.doc.Paths.Map()
	endpoints := make([]domain.Endpoint, 0, len(items))
	for _, path := range slices.Sorted(maps.Keys(items)) {
		if item := items[path]; item != nil {
			endpoints = append(endpoints, &endpoint{path: path, item: item})
		}
	}

	return endpoints
}

type endpoint struct {
	path string
	item *openapi3.PathItem
}

func (e *endpoint) Path() string { return e.path }

func (e *endpoint) Operations() []domain.Operation {
	declared := e.item.Operations()

	ops := make([]domain.Operation, 0, len(declared))
	for _, method := range domain.Methods {
		if op := declared[method.String()]; op != nil {
			ops = append(ops, &operation{method: method.String(), op: op, item: e.item})
		}
	}

	return ops
}

// Parameters returns the path parameters declared on the path item, then any
// declared only on its operations.
func (e *endpoint) Parameters() []domain.ParameterNode {
	params := filterParameters(e.item.Parameters, openapi3.ParameterInPath)

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		seen[p.Name()] = true
	}

	declared := e.item.Operations()
	for _, method := range domain.Methods {
		op := declared[method.String()]
		if op == nil {
			continue
		}
		for _, p := range filterParameters(op.Parameters, openapi3.ParameterInPath) {
			if !seen[p.Name()] {
				seen[p.Name()] = true
				params = append(params, p)
			}
		}
	}

	return params
}

type operation struct {
	method string
	op     *openapi3.Operation
	item   *openapi3.PathItem
}

func (o *operation) Method() string { return o.method }

func (o *operation) Request() (domain.Request, bool) {
	r := &request{op: o.op, item: o.item}
	if len(r.Payloads()) == 0 && len(r.QueryParameters()) == 0 && len(r.Headers()) == 0 {
		return nil, false
	}
	return r, true
}

func (o *operation) Responses() []domain.ResponseNode {
	if o.op.Responses == nil {
		return nil
	}

	declared := o.op.Responses.Map()
	responses := make([]domain.ResponseNode, 0, len(declared))
	for _, code := range slices.Sorted(maps.Keys(declared)) {
		if ref := declared[code]; ref != nil && ref.Value != nil {
			responses = append(responses, &response{code: code, r: ref.Value})
		}
	}

	return responses
}

type request struct {
	op   *openapi3.Operation
	item *openapi3.PathItem
}

func (r *request) Payloads() []domain.PayloadNode {
	if r.op.RequestBody == nil || r.op.RequestBody.Value == nil {
		return nil
	}
	return payloads(r.op.RequestBody.Value.Content)
}

// QueryParameters lists path-level declarations first so operation-level ones
// with the same name take precedence.
func (r *request) QueryParameters() []domain.ParameterNode {
	return append(
		filterParameters(r.item.Parameters, openapi3.ParameterInQuery),
		filterParameters(r.op.Parameters, openapi3.ParameterInQuery)...,
	)
}

func (r *request) Headers() []domain.ParameterNode {
	return append(
		filterParameters(r.item.Parameters, openapi3.ParameterInHeader),
		filterParameters(r.op.Parameters, openapi3.ParameterInHeader)...,
	)
}

type response struct {
	code string
	r    *openapi3.Response
}

func (r *response) StatusCode() string { return r.code }

func (r *response) Payloads() []domain.PayloadNode { return payloads(r.r.Content) }

func (r *response) Headers() []domain.ParameterNode {
	headers := make([]domain.ParameterNode, 0, len(r.r.Headers))
	for _, name := range slices.Sorted(maps.Keys(r.r.Headers)) {
		if ref := r.r.Headers[name]; ref != nil && ref.Value != nil {
			headers = append(headers, &parameter{p: &ref.Value.Parameter, name: name, in: domain.LocationHeader})
		}
	}

	return headers
}

type payload struct {
	mediaType string
	schema    *openapi3.SchemaRef
}

func payloads(content openapi3.Content) []domain.PayloadNode {
	nodes := make([]domain.PayloadNode, 0, len(content))
	for _, mediaType := range slices.Sorted(maps.Keys(content)) {
		if mt := content[mediaType]; mt != nil {
			nodes = append(nodes, &payload{mediaType: mediaType, schema: mt.Schema})
		}
	}

	return nodes
}

func (p *payload) MediaType() string { return p.mediaType }

// Schema returns the *openapi3.SchemaRef, or nil when the media type declares none.
func (p *payload) Schema() any {
	if p.schema == nil {
		return nil
	}
	return p.schema
}

type parameter struct {
	p    *openapi3.Parameter
	name string
	in   domain.ParameterLocation
}

func filterParameters(refs openapi3.Parameters, in string) []domain.ParameterNode {
	var params []domain.ParameterNode
	for _, ref := range refs {
		if ref == nil || ref.Value == nil || ref.Value.In != in {
			continue
		}
		params = append(params, &parameter{p: ref.Value, name: ref.Value.Name, in: domain.ParameterLocation(in)})
	}

	return params
}

func (p *parameter) Name() string { return p.name }
func (p *parameter) Location() domain.ParameterLocation { return p.in }
func (p *parameter) Required() bool { return p.p.Required }
func (p *parameter) Description() string { return p.p.Description }

func (p *parameter) Type() domain.ScalarType {
	if p.p.Schema == nil || p.p.Schema.Value == nil || p.p.Schema.Value.Type == nil {
		return domain.TypeAny
	}

	types := p.p.Schema.Value.Type.Slice()
	if len(types) == 0 {
		return domain.TypeAny
	}

	return domain.ParseScalarType(types[0])
}

func (p *parameter) Default() (string, bool) {
	if p.p.Schema == nil || p.p.Schema.Value == nil || p.p.Schema.Value.Default == nil {
		return "", false
	}

	switch v := p.p.Schema.Value.Default.(type) {
	case string:
		return v, true
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), true
		}
		return string(b), true
	}
}

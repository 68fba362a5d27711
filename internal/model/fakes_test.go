package model

import (
	"sync/atomic"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
)

type fakeSource struct {
	title     string
	version   string
	baseURI   string
	endpoints []domain.Endpoint
}

func (s *fakeSource) Title() string { return s.title }
func (s *fakeSource) Version() string { return s.version }
func (s *fakeSource) BaseURI() string { return s.baseURI }
func (s *fakeSource) Endpoints() []domain.Endpoint { return s.endpoints }

type fakeEndpoint struct {
	path   string
	ops    []domain.Operation
	params []domain.ParameterNode
	// calls counts Operations() invocations.
	calls atomic.Int32
}

func (e *fakeEndpoint) Path() string { return e.path }
func (e *fakeEndpoint) Operations() []domain.Operation {
	e.calls.Add(1)
	return e.ops
}
func (e *fakeEndpoint) Parameters() []domain.ParameterNode { return e.params }

type fakeOperation struct {
	method    string
	request   *fakeRequest
	responses []domain.ResponseNode
}

func (o *fakeOperation) Method() string { return o.method }
func (o *fakeOperation) Request() (domain.Request, bool) {
	if o.request == nil {
		return nil, false
	}
	return o.request, true
}
func (o *fakeOperation) Responses() []domain.ResponseNode { return o.responses }

type fakeRequest struct {
	payloads []domain.PayloadNode
	query    []domain.ParameterNode
	headers  []domain.ParameterNode
}

func (r *fakeRequest) Payloads() []domain.PayloadNode { return r.payloads }
func (r *fakeRequest) QueryParameters() []domain.ParameterNode { return r.query }
func (r *fakeRequest) Headers() []domain.ParameterNode { return r.headers }

type fakeResponse struct {
	code     string
	payloads []domain.PayloadNode
	headers  []domain.ParameterNode
}

func (r *fakeResponse) StatusCode() string { return r.code }
func (r *fakeResponse) Payloads() []domain.PayloadNode { return r.payloads }
func (r *fakeResponse) Headers() []domain.ParameterNode { return r.headers }

type fakePayload struct {
	mediaType string
	schema    any
}

func (p fakePayload) MediaType() string { return p.mediaType }
func (p fakePayload) Schema() any { return p.schema }

type fakeParam struct {
	name     string
	in       domain.ParameterLocation
	typ      domain.ScalarType
	required bool
	def      *string
}

func (p fakeParam) Name() string { return p.name }
func (p fakeParam) Location() domain.ParameterLocation { return p.in }
func (p fakeParam) Type() domain.ScalarType { return p.typ }
func (p fakeParam) Required() bool { return p.required }
func (p fakeParam) Description() string { return "" }
func (p fakeParam) Default() (string, bool) {
	if p.def == nil {
		return "", false
	}
	return *p.def, true
}

func op(method string, codes ...string) *fakeOperation {
	o := &fakeOperation{method: method}
	for _, c := range codes {
		o.responses = append(o.responses, &fakeResponse{code: c})
	}
	return o
}

func source(endpoints ...*fakeEndpoint) *fakeSource {
	s := &fakeSource{title: "Orders API", version: "v1", baseURI: "https://api.example.com/{version}"}
	for _, ep := range endpoints {
		s.endpoints = append(s.endpoints, ep)
	}
	return s
}

package model

import (
	"sync"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
)

// Action is one HTTP method declared on a resource. Its collections are derived
// from the operation node on first use and cached for the life of the model.
type Action struct {
	method   domain.HTTPMethod
	resource *Resource

	bodies          func() *Ordered[string, *MimeType]
	queryParameters func() *Ordered[string, *Parameter]
	headers         func() *Ordered[string, *Parameter]
	responses       func() *Ordered[string, *Response]
}

func newAction(method domain.HTTPMethod, resource *Resource, op domain.Operation, env *env) *Action {
	return &Action{
		method:   method,
		resource: resource,
		bodies: sync.OnceValue(func() *Ordered[string, *MimeType] {
			req, ok := op.Request()
			if !ok {
				return newOrdered[string, *MimeType](0)
			}
			return mimeTypeMap(req.Payloads(), env)
		}),
		queryParameters: sync.OnceValue(func() *Ordered[string, *Parameter] {
			req, ok := op.Request()
			if !ok {
				return newOrdered[string, *Parameter](0)
			}
			return parameterMap(req.QueryParameters())
		}),
		headers: sync.OnceValue(func() *Ordered[string, *Parameter] {
			req, ok := op.Request()
			if !ok {
				return newOrdered[string, *Parameter](0)
			}
			return parameterMap(req.Headers())
		}),
		responses: sync.OnceValue(func() *Ordered[string, *Response] {
			nodes := op.Responses()
			out := newOrdered[string, *Response](len(nodes))
			for _, node := range nodes {
				out.set(node.StatusCode(), newResponse(node, env))
			}
			return out
		}),
	}
}

// Type returns the HTTP method of the action.
func (a *Action) Type() domain.HTTPMethod { return a.method }

// Resource returns the resource the action is declared on.
func (a *Action) Resource() *Resource { return a.resource }

// Body returns the request bodies keyed by media type.
// A media type declared twice keeps the last declaration.
func (a *Action) Body() *Ordered[string, *MimeType] { return a.bodies() }

// HasBody reports whether the action declares at least one request body.
func (a *Action) HasBody() bool { return a.bodies().Len() > 0 }

// QueryParameters returns the query parameters keyed by name.
func (a *Action) QueryParameters() *Ordered[string, *Parameter] { return a.queryParameters() }

// Headers returns the request headers keyed by name.
func (a *Action) Headers() *Ordered[string, *Parameter] { return a.headers() }

// Responses returns the declared responses keyed by status code.
func (a *Action) Responses() *Ordered[string, *Response] { return a.responses() }

// Supports reports whether the action implements c. No optional capability is
// implemented by this representation.
func (a *Action) Supports(c domain.Capability) bool { return false }

// BaseURIParameters is not supported.
func (a *Action) BaseURIParameters() (map[string][]*Parameter, error) {
	return nil, domain.Unsupported(domain.CapabilityBaseURIParameters, "Action.BaseURIParameters")
}

// CleanBaseURIParameters is not supported.
func (a *Action) CleanBaseURIParameters() error {
	return domain.Unsupported(domain.CapabilityBaseURIParameters, "Action.CleanBaseURIParameters")
}

// SecuredBy is not supported.
func (a *Action) SecuredBy() ([]string, error) {
	return nil, domain.Unsupported(domain.CapabilitySecurityReferences, "Action.SecuredBy")
}

// AddSecurityReference is not supported.
func (a *Action) AddSecurityReference(string) error {
	return domain.Unsupported(domain.CapabilitySecurityReferences, "Action.AddSecurityReference")
}

// Is is not supported.
func (a *Action) Is() ([]string, error) {
	return nil, domain.Unsupported(domain.CapabilityTraits, "Action.Is")
}

// AddIs is not supported.
func (a *Action) AddIs(string) error {
	return domain.Unsupported(domain.CapabilityTraits, "Action.AddIs")
}

// SetHeaders is not supported.
func (a *Action) SetHeaders(*Ordered[string, *Parameter]) error {
	return domain.Unsupported(domain.CapabilityMutation, "Action.SetHeaders")
}

// SetQueryParameters is not supported.
func (a *Action) SetQueryParameters(*Ordered[string, *Parameter]) error {
	return domain.Unsupported(domain.CapabilityMutation, "Action.SetQueryParameters")
}

// SetBody is not supported.
func (a *Action) SetBody(*Ordered[string, *MimeType]) error {
	return domain.Unsupported(domain.CapabilityMutation, "Action.SetBody")
}

// AddResponse is not supported.
func (a *Action) AddResponse(string, *Response) error {
	return domain.Unsupported(domain.CapabilityMutation, "Action.AddResponse")
}

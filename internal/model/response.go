package model

import (
	"sync"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
)

// Response maps one declared status code to its bodies and headers.
type Response struct {
	statusCode string
	bodies     func() *Ordered[string, *MimeType]
	headers    func() *Ordered[string, *Parameter]
}

func newResponse(node domain.ResponseNode, env *env) *Response {
	return &Response{
		statusCode: node.StatusCode(),
		bodies: sync.OnceValue(func() *Ordered[string, *MimeType] {
			return mimeTypeMap(node.Payloads(), env)
		}),
		headers: sync.OnceValue(func() *Ordered[string, *Parameter] {
			return parameterMap(node.Headers())
		}),
	}
}

// StatusCode returns the status code exactly as declared, e.g. "200" or "4XX".
func (r *Response) StatusCode() string { return r.statusCode }

// Bodies returns the response bodies keyed by media type.
func (r *Response) Bodies() *Ordered[string, *MimeType] { return r.bodies() }

// Headers returns the response headers keyed by name.
func (r *Response) Headers() *Ordered[string, *Parameter] { return r.headers() }

// HasBody reports whether at least one body is declared.
func (r *Response) HasBody() bool { return r.bodies().Len() > 0 }

package model

import (
	"strings"
	"sync"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
)

// VersionPlaceholder is the token ResolvedURI substitutes.
const VersionPlaceholder = "{version}"

// Resource is one URI path of the contract.
type Resource struct {
	uri    string
	parent *Resource

	actions       func() (*Ordered[domain.HTTPMethod, *Action], error)
	uriParameters func() *Ordered[string, *Parameter]
}

func newResource(endpoint domain.Endpoint, parent *Resource, env *env) *Resource {
	r := &Resource{
		uri:    endpoint.Path(),
		parent: parent,
	}

	r.actions = sync.OnceValues(func() (*Ordered[domain.HTTPMethod, *Action], error) {
		return r.loadActions(endpoint, env)
	})
	r.uriParameters = sync.OnceValue(func() *Ordered[string, *Parameter] {
		return parameterMap(endpoint.Parameters())
	})

	return r
}

func (r *Resource) loadActions(endpoint domain.Endpoint, env *env) (*Ordered[domain.HTTPMethod, *Action], error) {
	ops := endpoint.Operations()
	out := newOrdered[domain.HTTPMethod, *Action](len(ops))

	for _, op := range ops {
		method, err := domain.ParseMethod(op.Method())
		if err != nil {
			return nil, &domain.UnknownMethodError{Token: op.Method(), Path: r.uri}
		}

		out.set(method, newAction(method, r, op, env))
	}

	env.log.Debug().Str("resource", r.uri).Int("actions", out.Len()).Msg("actions materialized")

	return out, nil
}

// URI returns the absolute URI of the resource.
func (r *Resource) URI() string { return r.uri }

// Parent returns the closest declared ancestor resource, or nil for a root resource.
func (r *Resource) Parent() *Resource { return r.parent }

// ParentURI returns the URI of the parent resource, or "" for a root resource.
func (r *Resource) ParentURI() string {
	if r.parent == nil {
		return ""
	}

	return r.parent.uri
}

// RelativeURI returns the part of the URI below the parent resource.
func (r *Resource) RelativeURI() string {
	return strings.TrimPrefix(r.uri, r.ParentURI())
}

// ResolvedURI replaces the version placeholder in the URI with version.
// An empty version leaves the URI untouched.
func (r *Resource) ResolvedURI(version string) string {
	return ResolveVersion(r.uri, version)
}

// DisplayName returns the URI.
func (r *Resource) DisplayName() string { return r.uri }

// String returns the URI.
func (r *Resource) String() string { return r.uri }

// Actions returns the actions keyed by method, in declaration order. It fails with
// an *domain.UnknownMethodError when the contract declares an unknown method.
func (r *Resource) Actions() (*Ordered[domain.HTTPMethod, *Action], error) {
	return r.actions()
}

// Action looks up an action by method token, ignoring case.
func (r *Resource) Action(token string) (*Action, bool, error) {
	method, err := domain.ParseMethod(token)
	if err != nil {
		return nil, false, err
	}

	actions, err := r.actions()
	if err != nil {
		return nil, false, err
	}

	a, ok := actions.Get(method)

	return a, ok, nil
}

// ResolvedURIParameters returns the URI parameters declared on the resource, keyed by name.
func (r *Resource) ResolvedURIParameters() *Ordered[string, *Parameter] {
	return r.uriParameters()
}

// Supports reports whether the resource implements c.
func (r *Resource) Supports(c domain.Capability) bool { return false }

// Resources is not supported: nested resources are not enumerated.
func (r *Resource) Resources() (map[string]*Resource, error) {
	return nil, domain.Unsupported(domain.CapabilityChildResources, "Resource.Resources")
}

// BaseURIParameters is not supported.
func (r *Resource) BaseURIParameters() (map[string][]*Parameter, error) {
	return nil, domain.Unsupported(domain.CapabilityBaseURIParameters, "Resource.BaseURIParameters")
}

// CleanBaseURIParameters is not supported.
func (r *Resource) CleanBaseURIParameters() error {
	return domain.Unsupported(domain.CapabilityBaseURIParameters, "Resource.CleanBaseURIParameters")
}

// SetParentURI is not supported.
func (r *Resource) SetParentURI(string) error {
	return domain.Unsupported(domain.CapabilityMutation, "Resource.SetParentURI")
}

// ResolveVersion replaces every VersionPlaceholder in uri with version.
func ResolveVersion(uri, version string) string {
	if version == "" {
		return uri
	}

	return strings.ReplaceAll(uri, VersionPlaceholder, version)
}

// Package model provides the normalized, read-only view of an API contract.
//
// The graph is built from a domain.ContractSource. Resources are created up front;
// everything below them (actions, bodies, parameters, responses) is derived on
// first access, exactly once, and the same value is returned afterwards. All
// types are safe for concurrent use.
package model

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultWarmConcurrency = 8

// Option configures a Specification.
type Option func(*env)

// env is shared by every node of one model graph.
type env struct {
	validator       domain.SchemaValidator
	log             zerolog.Logger
	warmConcurrency int
}

// WithSchemaValidator binds the validator used by every MimeType of the model.
func WithSchemaValidator(v domain.SchemaValidator) Option {
	return func(e *env) {
		e.validator = v
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *env) {
		e.log = log
	}
}

// WithWarmConcurrency bounds the number of resources Warm materializes at once.
func WithWarmConcurrency(n int) Option {
	return func(e *env) {
		if n > 0 {
			e.warmConcurrency = n
		}
	}
}

// Specification is the root of the model: the set of resources of a contract.
type Specification struct {
	title     string
	version   string
	baseURI   string
	env       *env
	resources []*Resource
	byPath    map[string]*Resource
}

// New builds the resource tree of source.
func New(source domain.ContractSource, opts ...Option) *Specification {
	e := &env{
		log:             zerolog.Nop(),
		warmConcurrency: defaultWarmConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}

	endpoints := slices.Clone(source.Endpoints())
	slices.SortStableFunc(endpoints, func(a, b domain.Endpoint) int {
		return strings.Compare(a.Path(), b.Path())
	})

	spec := &Specification{
		title:     source.Title(),
		version:   source.Version(),
		baseURI:   source.BaseURI(),
		env:       e,
		resources: make([]*Resource, 0, len(endpoints)),
		byPath:    make(map[string]*Resource, len(endpoints)),
	}

	// Sorted order guarantees every ancestor is registered before its descendants.
	for _, ep := range endpoints {
		r := newResource(ep, spec.ancestorOf(ep.Path()), e)
		if _, dup := spec.byPath[r.uri]; dup {
			i := slices.IndexFunc(spec.resources, func(x *Resource) bool { return x.uri == r.uri })
			spec.resources[i] = r
		} else {
			spec.resources = append(spec.resources, r)
		}
		spec.byPath[r.uri] = r
	}

	e.log.Debug().Str("title", spec.title).Int("resources", len(spec.resources)).Msg("specification built")

	return spec
}

// ancestorOf returns the closest registered resource whose URI is a segment-wise prefix of path.
func (s *Specification) ancestorOf(path string) *Resource {
	for p := path; ; {
		i := strings.LastIndex(p, "/")
		if i <= 0 {
			return nil
		}

		p = p[:i]
		if r, ok := s.byPath[p]; ok {
			return r
		}
	}
}

// Title returns the contract title.
func (s *Specification) Title() string { return s.title }

// Version returns the contract version.
func (s *Specification) Version() string { return s.version }

// BaseURI returns the base URI of the API, or "".
func (s *Specification) BaseURI() string { return s.baseURI }

// ResolvedBaseURI substitutes version into the base URI.
func (s *Specification) ResolvedBaseURI(version string) string {
	return ResolveVersion(s.baseURI, version)
}

// Resources returns every resource ordered by URI.
func (s *Specification) Resources() []*Resource {
	return append([]*Resource(nil), s.resources...)
}

// Resource looks up a resource by its exact URI.
func (s *Specification) Resource(path string) (*Resource, bool) {
	r, ok := s.byPath[path]
	return r, ok
}

// Lookup returns the action declared for method on the resource at path.
func (s *Specification) Lookup(path, method string) (*Action, error) {
	r, ok := s.byPath[path]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "resource", Key: path}
	}

	a, ok, err := r.Action(method)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.NotFoundError{Kind: "action", Key: fmt.Sprintf("%s %s", strings.ToUpper(method), path)}
	}

	return a, nil
}

// Warm materializes every lazily derived collection of the model and returns the
// first build failure, such as an unknown method token.
func (s *Specification) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.env.warmConcurrency)

	for _, r := range s.resources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return warmResource(r)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to build model: %w", err)
	}

	s.env.log.Debug().Int("resources", len(s.resources)).Msg("model warmed")

	return nil
}

func warmResource(r *Resource) error {
	r.ResolvedURIParameters()

	actions, err := r.Actions()
	if err != nil {
		return err
	}

	for _, a := range actions.All() {
		a.Body()
		a.QueryParameters()
		a.Headers()
		for _, resp := range a.Responses().All() {
			resp.Bodies()
			resp.Headers()
		}
	}

	return nil
}

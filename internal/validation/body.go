package validation

import (
	"fmt"
	"mime"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/adapters/form"
	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/GabrielNunesIT/apicontract/internal/model"
	"github.com/puzpuzpuz/xsync/v4"
)

// BodyValidator picks the validation strategy for a body from its declared
// media type. It caches one FormPipeline per body definition.
type BodyValidator struct {
	opts      options
	pipelines *xsync.Map[*model.MimeType, *FormPipeline]
}

// NewBodyValidator returns a validator; opts are handed to every FormPipeline.
func NewBodyValidator(opts ...Option) *BodyValidator {
	return &BodyValidator{
		opts:      newOptions(opts),
		pipelines: xsync.NewMap[*model.MimeType, *FormPipeline](),
	}
}

// Validate checks payload against the body definition mt.
//
// Url-encoded forms go through the FormPipeline. JSON bodies are validated as
// they are and fail with a *domain.BadRequestError. Any other media type is
// passed through.
func (v *BodyValidator) Validate(mt *model.MimeType, payload domain.Payload) (Result, error) {
	mediaType := baseMediaType(mt.MediaType())

	switch {
	case mediaType == form.MediaType:
		return v.pipeline(mt).Validate(payload)
	case isJSON(mediaType):
		res := mt.Check(string(payload.Body))
		if res.Unsupported {
			return passThrough(payload, "schema unsupported"), nil
		}
		if len(res.Issues) > 0 {
			return Result{}, &domain.BadRequestError{Issues: res.Issues}
		}
		return validated(payload), nil
	default:
		v.opts.log.Debug().Str("media_type", mediaType).Msg("no body validation for media type")
		return passThrough(payload, "media type not validated"), nil
	}
}

// ValidateRequest resolves the body definition for method on path and validates
// payload against it. Media type parameters are ignored for the lookup; an
// action declaring a single body uses it whatever the content type.
func (v *BodyValidator) ValidateRequest(spec *model.Specification, path, method string, payload domain.Payload) (Result, error) {
	action, err := spec.Lookup(path, method)
	if err != nil {
		return Result{}, err
	}

	mt, ok := bodyFor(action, payload.ContentType)
	if !ok {
		return Result{}, &domain.NotFoundError{Kind: "media type", Key: mediaTypeKey(action, payload.ContentType)}
	}

	return v.Validate(mt, payload)
}

func (v *BodyValidator) pipeline(mt *model.MimeType) *FormPipeline {
	p, _ := v.pipelines.LoadOrCompute(mt, func() (*FormPipeline, bool) {
		return newFormPipeline(mt, v.opts), false
	})

	return p
}

func bodyFor(action *model.Action, contentType string) (*model.MimeType, bool) {
	bodies := action.Body()

	want := baseMediaType(contentType)
	for declared, mt := range bodies.All() {
		if baseMediaType(declared) == want {
			return mt, true
		}
	}

	if bodies.Len() == 1 {
		return bodies.Values()[0], true
	}

	return nil, false
}

// mediaTypeKey names the requested content type and the declared ones.
func mediaTypeKey(action *model.Action, contentType string) string {
	if contentType == "" {
		contentType = "(none)"
	}

	declared := action.Body().Keys()
	if len(declared) == 0 {
		return contentType + " (no body declared)"
	}

	return fmt.Sprintf("%s (declared: %s)", contentType, strings.Join(declared, ", "))
}

func baseMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}

	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isJSON(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/GabrielNunesIT/apicontract/internal/adapters/form"
	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/GabrielNunesIT/apicontract/internal/model"
	"github.com/rs/zerolog"
)

type options struct {
	log       zerolog.Logger
	extractor domain.FormExtractor
}

func newOptions(opts []Option) options {
	o := options{
		log:       zerolog.Nop(),
		extractor: form.URLEncoded{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Option configures a FormPipeline or a BodyValidator.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithExtractor replaces the url-encoded codec used to read form fields.
func WithExtractor(extractor domain.FormExtractor) Option {
	return func(o *options) {
		if extractor != nil {
			o.extractor = extractor
		}
	}
}

// FormPipeline validates url-encoded bodies against one body definition.
// It keeps no per-request state and is safe for concurrent use.
type FormPipeline struct {
	mime      *model.MimeType
	extractor domain.FormExtractor
	log       zerolog.Logger
}

// NewFormPipeline returns a pipeline bound to mime.
func NewFormPipeline(mime *model.MimeType, opts ...Option) *FormPipeline {
	return newFormPipeline(mime, newOptions(opts))
}

func newFormPipeline(mime *model.MimeType, o options) *FormPipeline {
	return &FormPipeline{
		mime:      mime,
		extractor: o.extractor,
		log:       o.log.With().Str("media_type", mime.MediaType()).Logger(),
	}
}

// Validate runs extract, serialize, validate and re-encode over payload.
//
// Violations fail with a *domain.BadFormParametersError. When the fields cannot
// be extracted or serialized, or the schema cannot be evaluated, the original
// payload comes back unchanged with outcome PassThrough.
func (p *FormPipeline) Validate(payload domain.Payload) (Result, error) {
	fields, err := p.extractor.Extract(payload)
	if err != nil {
		return p.skip(payload, &domain.TransformationError{Stage: "extract form fields", Cause: err}), nil
	}

	doc, err := FieldsToJSON(fields)
	if err != nil {
		return p.skip(payload, &domain.TransformationError{Stage: "serialize form fields", Cause: err}), nil
	}

	res := p.mime.Check(string(doc))
	if res.Unsupported {
		p.log.Debug().Msg("form schema cannot be evaluated, passing body through")
		return passThrough(payload, "schema unsupported"), nil
	}

	if len(res.Issues) > 0 {
		return Result{}, &domain.BadFormParametersError{Issues: res.Issues}
	}

	return validated(domain.Payload{Body: form.Encode(fields), ContentType: payload.ContentType}), nil
}

func (p *FormPipeline) skip(payload domain.Payload, err error) Result {
	p.log.Warn().Err(err).Str("content_type", payload.ContentType).Msg("form body not validated")
	return passThrough(payload, err.Error())
}

// FieldsToJSON renders fields as a JSON object with keys in first-seen order.
// A name seen once maps to a string, a repeated name to an array of strings.
// Names and values must be valid UTF-8, since JSON cannot carry other bytes unchanged.
func FieldsToJSON(fields *domain.Multimap) ([]byte, error) {
	if fields == nil {
		return nil, errors.New("no form fields")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, name := range fields.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}

		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("field name %q is not valid UTF-8", name)
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		values := fields.Get(name)
		for _, v := range values {
			if !utf8.ValidString(v) {
				return nil, fmt.Errorf("value of field %q is not valid UTF-8", name)
			}
		}

		var value any
		if len(values) == 1 {
			value = values[0]
		} else {
			value = values
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(encoded)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

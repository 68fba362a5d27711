package model

import (
	"errors"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/rs/zerolog"
)

// MimeType is one body variant of an action or response, identified by its media type.
type MimeType struct {
	mediaType string
	schema    any
	validator domain.SchemaValidator
	log       zerolog.Logger
}

// NewMimeType binds a media type and its schema handle to a validator.
// A nil validator makes every check report Unsupported.
func NewMimeType(mediaType string, schema any, validator domain.SchemaValidator) *MimeType {
	return &MimeType{
		mediaType: mediaType,
		schema:    schema,
		validator: validator,
		log:       zerolog.Nop(),
	}
}

func newMimeType(node domain.PayloadNode, env *env) *MimeType {
	mt := NewMimeType(node.MediaType(), node.Schema(), env.validator)
	mt.log = env.log

	return mt
}

// MediaType returns the media type name.
func (m *MimeType) MediaType() string { return m.mediaType }

// Schema returns the opaque schema handle.
func (m *MimeType) Schema() any { return m.schema }

// Validate returns the schema violations of text. A schema the validator
// cannot evaluate yields no issues.
func (m *MimeType) Validate(text string) []domain.ValidationIssue {
	return m.Check(text).Issues
}

// Check validates text and tells apart "no violations" from "not validated".
func (m *MimeType) Check(text string) domain.SchemaResult {
	if m.validator == nil || m.schema == nil {
		return domain.SchemaResult{Unsupported: true}
	}

	issues, err := m.validator.Validate(m.schema, text)
	switch {
	case errors.Is(err, domain.ErrSchemaUnsupported):
		m.log.Debug().Str("media_type", m.mediaType).Err(err).Msg("schema validation not applicable")
		return domain.SchemaResult{Unsupported: true}
	case err != nil:
		// The validator could not read the text itself; report it as a violation.
		issues = append(issues, domain.ValidationIssue{Message: err.Error()})
	}

	return domain.SchemaResult{Issues: issues}
}

func mimeTypeMap(nodes []domain.PayloadNode, env *env) *Ordered[string, *MimeType] {
	out := newOrdered[string, *MimeType](len(nodes))
	for _, node := range nodes {
		out.set(node.MediaType(), newMimeType(node, env))
	}

	return out
}

package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/GabrielNunesIT/apicontract/internal/adapters/form"
	"github.com/GabrielNunesIT/apicontract/internal/adapters/openapi"
	"github.com/GabrielNunesIT/apicontract/internal/adapters/schema"
	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/GabrielNunesIT/apicontract/internal/model"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formContentType = "application/x-www-form-urlencoded"

// pairSchema accepts {"a": [two strings], "b": string} and requires "b".
func pairSchema() *openapi3.SchemaRef {
	return openapi3.NewObjectSchema().
		WithProperty("a", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()).WithMinItems(2).WithMaxItems(2)).
		WithProperty("b", openapi3.NewStringSchema()).
		WithRequired([]string{"b"}).
		NewRef()
}

func formMime(s *openapi3.SchemaRef) *model.MimeType {
	return model.NewMimeType(formContentType, s, schema.OpenAPI{})
}

func stubMime(mediaType string, fn func(schema any, text string) ([]domain.ValidationIssue, error)) *model.MimeType {
	return model.NewMimeType(mediaType, "stub", domain.SchemaValidatorFunc(fn))
}

func formPayload(body string) domain.Payload {
	return domain.Payload{Body: []byte(body), ContentType: formContentType}
}

// =============================================================================
// Form pipeline
// =============================================================================

func TestFormPipeline_Validated(t *testing.T) {
	tests := []struct {
		name   string
		schema *openapi3.SchemaRef
		body   string
		want   string
	}{
		{"repeated values become an array", pairSchema(), "a=1&a=2&b=x", "a=1&a=2&b=x"},
		{"single value stays a string", pairSchema(), "b=x", "b=x"},
		{"empty body without required fields", openapi3.NewObjectSchema().NewRef(), "", ""},
		{"empty value is present", openapi3.NewObjectSchema().WithRequired([]string{"a"}).NewRef(), "a=", "a="},
		{"escapes normalized", pairSchema(), "b=x%20y", "b=x+y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewFormPipeline(formMime(tt.schema))

			got, err := p.Validate(formPayload(tt.body))
			require.NoError(t, err)
			assert.Equal(t, Validated, got.Outcome)
			assert.Equal(t, tt.want, string(got.Payload.Body))
			assert.Equal(t, formContentType, got.Payload.ContentType)
		})
	}
}

func TestFormPipeline_KeepsContentType(t *testing.T) {
	p := NewFormPipeline(formMime(pairSchema()))

	payload := domain.Payload{Body: []byte("b=x"), ContentType: formContentType + "; charset=utf-8"}
	got, err := p.Validate(payload)
	require.NoError(t, err)
	assert.Equal(t, payload.ContentType, got.Payload.ContentType)
}

func TestFormPipeline_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains []string
		lines    int
	}{
		{"missing required field", "a=1", []string{`"b"`}, 2},
		{"wrong cardinality", "a=1&a=2&a=3&b=x", []string{"maximum number of items is 2"}, 1},
		{"single value is not an array", "a=1&b=x", []string{"value must be an array"}, 1},
		{"field names are case sensitive", "B=x", []string{`property "b" is missing`}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewFormPipeline(formMime(pairSchema()))

			got, err := p.Validate(formPayload(tt.body))
			require.Error(t, err)
			assert.Equal(t, Result{}, got)

			assert.ErrorIs(t, err, domain.ErrBadRequest)
			var badForm *domain.BadFormParametersError
			require.ErrorAs(t, err, &badForm)
			assert.Len(t, badForm.Issues, tt.lines)
			assert.Len(t, strings.Split(err.Error(), "\n"), tt.lines)
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestFormPipeline_IssuesJoinedInValidatorOrder(t *testing.T) {
	mt := stubMime(formContentType, func(any, string) ([]domain.ValidationIssue, error) {
		return []domain.ValidationIssue{{Message: "z is wrong"}, {Message: "a is wrong"}, {Message: "m is wrong"}}, nil
	})

	_, err := NewFormPipeline(mt).Validate(formPayload("a=1"))
	require.Error(t, err)
	assert.Equal(t, "z is wrong\na is wrong\nm is wrong", err.Error())
}

func TestFormPipeline_SerializedDocument(t *testing.T) {
	var seen string
	mt := stubMime(formContentType, func(_ any, text string) ([]domain.ValidationIssue, error) {
		seen = text
		return nil, nil
	})

	_, err := NewFormPipeline(mt).Validate(formPayload("z=1&a=2&z=3&m="))
	require.NoError(t, err)
	assert.Equal(t, `{"z":["1","3"],"a":"2","m":""}`, seen)
}

func TestFormPipeline_PassThrough(t *testing.T) {
	unsupported := stubMime(formContentType, func(any, string) ([]domain.ValidationIssue, error) {
		return nil, fmt.Errorf("engine: %w", domain.ErrSchemaUnsupported)
	})
	failing := domain.FormExtractorFunc(func(domain.Payload) (*domain.Multimap, error) {
		return nil, errors.New("cannot read")
	})

	tests := []struct {
		name       string
		pipeline   *FormPipeline
		body       string
		wantReason string
	}{
		{"schema unsupported", NewFormPipeline(unsupported), "a=1&b=%20", "schema unsupported"},
		{"no schema", NewFormPipeline(model.NewMimeType(formContentType, nil, schema.OpenAPI{})), "a=1", "schema unsupported"},
		{"undecodable body", NewFormPipeline(formMime(pairSchema())), "a=%zz", "extract form fields"},
		{"extractor failure", NewFormPipeline(formMime(pairSchema()), WithExtractor(failing)), "b=x", "cannot read"},
		{"invalid utf-8 value", NewFormPipeline(formMime(pairSchema())), "a=%FF&b=%C3", "serialize form fields"},
		{"invalid utf-8 name", NewFormPipeline(formMime(pairSchema())), "%FE=1&b=x", "not valid UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := formPayload(tt.body)

			got, err := tt.pipeline.Validate(payload)
			require.NoError(t, err)
			assert.Equal(t, PassThrough, got.Outcome)
			assert.Equal(t, payload, got.Payload)
			assert.Contains(t, got.Reason, tt.wantReason)
		})
	}
}

func TestFormPipeline_LogsTransformationFailure(t *testing.T) {
	var buf bytes.Buffer
	p := NewFormPipeline(formMime(pairSchema()), WithLogger(zerolog.New(&buf)))

	_, err := p.Validate(formPayload("a=%zz"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "form body not validated")
	assert.Contains(t, out, formContentType)
}

func TestFormPipeline_RoundTrip(t *testing.T) {
	permissive := stubMime(formContentType, func(any, string) ([]domain.ValidationIssue, error) {
		return nil, nil
	})
	p := NewFormPipeline(permissive)

	bodies := []string{
		"",
		"a=1",
		"a=1&a=2&b=x",
		"b=x&a=1&b=y&a=2&c=",
		"name=Ada+Lovelace&tag=%26&tag=%3D",
		"k=v&k=v&k=v",
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			got, err := p.Validate(formPayload(body))
			require.NoError(t, err)
			assert.Equal(t, Validated, got.Outcome)
			assert.Equal(t, body, string(got.Payload.Body))
		})
	}
}

func TestFormPipeline_ExpressionExtractor(t *testing.T) {
	expr, err := form.NewExpression(`.[] | select(.name != "csrf")`)
	require.NoError(t, err)

	p := NewFormPipeline(formMime(pairSchema()), WithExtractor(expr))

	got, err := p.Validate(formPayload("csrf=t&a=1&a=2&b=x"))
	require.NoError(t, err)
	assert.Equal(t, Validated, got.Outcome)
	assert.Equal(t, "a=1&a=2&b=x", string(got.Payload.Body))
}

func TestFormPipeline_Concurrent(t *testing.T) {
	p := NewFormPipeline(formMime(pairSchema()))

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				got, err := p.Validate(formPayload("a=1&a=2&b=x"))
				assert.NoError(t, err)
				assert.Equal(t, "a=1&a=2&b=x", string(got.Payload.Body))
				return
			}
			_, err := p.Validate(formPayload("a=1"))
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		}()
	}
	wg.Wait()
}

func TestFieldsToJSON(t *testing.T) {
	tests := []struct {
		name   string
		fields *domain.Multimap
		want   string
	}{
		{"empty", &domain.Multimap{}, `{}`},
		{"escapes", domain.NewMultimap(domain.Field{Name: `q"`, Value: "<&>"}), `{"q\"":"<&>"}`},
		{
			name: "first-seen order",
			fields: domain.NewMultimap(
				domain.Field{Name: "b", Value: "1"},
				domain.Field{Name: "a", Value: "2"},
				domain.Field{Name: "b", Value: "3"},
			),
			want: `{"b":["1","3"],"a":"2"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FieldsToJSON(tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}

	_, err := FieldsToJSON(nil)
	assert.Error(t, err)

	_, err = FieldsToJSON(domain.NewMultimap(domain.Field{Name: "v", Value: "\xff"}))
	assert.ErrorContains(t, err, "not valid UTF-8")
}

// =============================================================================
// Body validator
// =============================================================================

func TestBodyValidator_Dispatch(t *testing.T) {
	order := openapi3.NewObjectSchema().WithProperty("sku", openapi3.NewStringSchema()).WithRequired([]string{"sku"}).NewRef()

	tests := []struct {
		name        string
		mime        *model.MimeType
		payload     domain.Payload
		wantOutcome Outcome
		wantErr     error
	}{
		{
			name:        "json valid",
			mime:        model.NewMimeType("application/json", order, schema.OpenAPI{}),
			payload:     domain.Payload{Body: []byte(`{"sku":"A"}`), ContentType: "application/json"},
			wantOutcome: Validated,
		},
		{
			name:    "json invalid",
			mime:    model.NewMimeType("application/json", order, schema.OpenAPI{}),
			payload: domain.Payload{Body: []byte(`{}`), ContentType: "application/json"},
			wantErr: domain.ErrBadRequest,
		},
		{
			name:    "json suffix",
			mime:    model.NewMimeType("application/problem+json", order, schema.OpenAPI{}),
			payload: domain.Payload{Body: []byte(`[]`), ContentType: "application/problem+json"},
			wantErr: domain.ErrBadRequest,
		},
		{
			name:        "json without schema",
			mime:        model.NewMimeType("application/json", nil, schema.OpenAPI{}),
			payload:     domain.Payload{Body: []byte(`{}`), ContentType: "application/json"},
			wantOutcome: PassThrough,
		},
		{
			name:        "form",
			mime:        formMime(pairSchema()),
			payload:     formPayload("b=x"),
			wantOutcome: Validated,
		},
		{
			name:        "other media type",
			mime:        model.NewMimeType("application/xml", "<xsd/>", schema.OpenAPI{}),
			payload:     domain.Payload{Body: []byte(`<a/>`), ContentType: "application/xml"},
			wantOutcome: PassThrough,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewBodyValidator().Validate(tt.mime, tt.payload)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				var badRequest *domain.BadRequestError
				assert.ErrorAs(t, err, &badRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, got.Outcome)
			if tt.wantOutcome == PassThrough {
				assert.Equal(t, tt.payload, got.Payload)
			}
		})
	}
}

func TestBodyValidator_CachesOnePipelinePerMimeType(t *testing.T) {
	v := NewBodyValidator()
	first, second := formMime(pairSchema()), formMime(pairSchema())

	var wg sync.WaitGroup
	pipelines := make([]*FormPipeline, 16)
	for i := range pipelines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pipelines[i] = v.pipeline(first)
		}()
	}
	wg.Wait()

	for _, p := range pipelines {
		assert.Same(t, pipelines[0], p)
	}
	assert.NotSame(t, pipelines[0], v.pipeline(second))
}

const ordersContract = `
openapi: 3.0.3
info:
  title: Orders API
  version: "1.0"
paths:
  /orders:
    get:
      responses:
        "200":
          description: ok
    post:
      requestBody:
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              required: [b]
              properties:
                a:
                  type: array
                  items:
                    type: string
                  minItems: 2
                  maxItems: 2
                b:
                  type: string
          application/json:
            schema:
              type: object
              required: [sku]
              properties:
                sku:
                  type: string
      responses:
        "201":
          description: created
  /orders/{id}/notes:
    parameters:
      - name: id
        in: path
        required: true
        schema:
          type: string
    put:
      requestBody:
        content:
          text/plain:
            schema:
              type: string
      responses:
        "204":
          description: stored
`

func ordersSpec(t *testing.T) *model.Specification {
	t.Helper()

	doc, err := openapi.Load(context.Background(), []byte(ordersContract))
	require.NoError(t, err)

	spec := model.New(doc, model.WithSchemaValidator(schema.OpenAPI{}))
	require.NoError(t, spec.Warm(context.Background()))

	return spec
}

func TestBodyValidator_ValidateRequest(t *testing.T) {
	spec := ordersSpec(t)
	v := NewBodyValidator()

	t.Run("form with charset parameter", func(t *testing.T) {
		got, err := v.ValidateRequest(spec, "/orders", "post", domain.Payload{
			Body:        []byte("a=1&a=2&b=x"),
			ContentType: "Application/X-WWW-Form-Urlencoded; charset=utf-8",
		})
		require.NoError(t, err)
		assert.Equal(t, Validated, got.Outcome)
		assert.Equal(t, "a=1&a=2&b=x", string(got.Payload.Body))
	})

	t.Run("form missing required field", func(t *testing.T) {
		_, err := v.ValidateRequest(spec, "/orders", "POST", formPayload("a=1"))
		var badForm *domain.BadFormParametersError
		require.ErrorAs(t, err, &badForm)
		assert.Contains(t, err.Error(), "b")
	})

	t.Run("json body", func(t *testing.T) {
		_, err := v.ValidateRequest(spec, "/orders", "POST", domain.Payload{Body: []byte(`{"sku":1}`), ContentType: "application/json"})
		var badRequest *domain.BadRequestError
		require.ErrorAs(t, err, &badRequest)
		assert.Contains(t, err.Error(), "value must be a string")
	})

	t.Run("single body used whatever the content type", func(t *testing.T) {
		got, err := v.ValidateRequest(spec, "/orders/{id}/notes", "PUT", domain.Payload{Body: []byte("hello")})
		require.NoError(t, err)
		assert.Equal(t, PassThrough, got.Outcome)
	})

	t.Run("not found", func(t *testing.T) {
		tests := []struct {
			path, method, contentType string
		}{
			{"/customers", "POST", formContentType},
			{"/orders", "DELETE", formContentType},
			{"/orders", "POST", "text/csv"},
		}
		for _, tt := range tests {
			_, err := v.ValidateRequest(spec, tt.path, tt.method, domain.Payload{ContentType: tt.contentType})
			assert.ErrorIs(t, err, domain.ErrNotFound, "%s %s %s", tt.method, tt.path, tt.contentType)
		}
	})

	t.Run("missing content type names the declared bodies", func(t *testing.T) {
		_, err := v.ValidateRequest(spec, "/orders", "POST", domain.Payload{Body: []byte("b=x")})
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "media type not found: (none) (declared: ")
		assert.Contains(t, err.Error(), formContentType)
		assert.Contains(t, err.Error(), "application/json")
	})

	t.Run("undeclared content type on a bodiless action", func(t *testing.T) {
		_, err := v.ValidateRequest(spec, "/orders", "GET", formPayload("b=x"))
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.EqualError(t, err, "media type not found: "+formContentType+" (no body declared)")
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := v.ValidateRequest(spec, "/orders", "FETCH", formPayload(""))
		assert.ErrorIs(t, err, domain.ErrUnknownMethod)
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "validated", Validated.String())
	assert.Equal(t, "pass-through", PassThrough.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}

package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strconv"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/itchyny/gojq"
)

// Expression extracts form fields by running a jq expression over the payload.
//
// The input is the decoded JSON body, or, for url-encoded bodies, an array of
// {"name", "value"} objects in received order. Every result must be a
// [name, value] pair or an object with "name" (or "key") and "value".
type Expression struct {
	src  string
	code *gojq.Code
}

// NewExpression compiles src.
func NewExpression(src string) (*Expression, error) {
	query, err := gojq.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile form expression: %w", err)
	}

	return &Expression{src: src, code: code}, nil
}

// String returns the expression source.
func (e *Expression) String() string { return e.src }

// Extract evaluates the expression and collects its results in order.
func (e *Expression) Extract(payload domain.Payload) (*domain.Multimap, error) {
	input, err := expressionInput(payload)
	if err != nil {
		return nil, err
	}

	out := &domain.Multimap{}

	iter := e.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("form expression %q: %w", e.src, err)
		}

		name, value, err := fieldOf(v)
		if err != nil {
			return nil, fmt.Errorf("form expression %q: %w", e.src, err)
		}

		out.Add(name, value)
	}

	return out, nil
}

func expressionInput(payload domain.Payload) (any, error) {
	mediaType, _, _ := mime.ParseMediaType(payload.ContentType)
	if mediaType == MediaType {
		fields, err := Decode(payload.Body)
		if err != nil {
			return nil, err
		}

		input := make([]any, 0, fields.Len())
		for name, value := range fields.All() {
			input = append(input, map[string]any{"name": name, "value": value})
		}
		return input, nil
	}

	if len(payload.Body) == 0 {
		return nil, nil
	}

	var input any
	if err := json.Unmarshal(payload.Body, &input); err != nil {
		return nil, fmt.Errorf("failed to decode payload for form expression: %w", err)
	}

	return input, nil
}

func fieldOf(v any) (string, string, error) {
	switch v := v.(type) {
	case []any:
		if len(v) != 2 {
			return "", "", fmt.Errorf("expected [name, value] pair, got %d elements", len(v))
		}
		return scalarString(v[0]), scalarString(v[1]), nil
	case map[string]any:
		name, ok := v["name"]
		if !ok {
			name, ok = v["key"]
		}
		if !ok {
			return "", "", errors.New(`expected object with "name" and "value"`)
		}
		return scalarString(name), scalarString(v["value"]), nil
	default:
		return "", "", fmt.Errorf("unexpected result of type %T", v)
	}
}

func scalarString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

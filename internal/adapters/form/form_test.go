package form

import (
	"testing"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []domain.Field
	}{
		{"empty body", "", nil},
		{"single field", "a=1", []domain.Field{{Name: "a", Value: "1"}}},
		{
			name: "repeated names keep order",
			body: "a=1&b=x&a=2",
			want: []domain.Field{{Name: "a", Value: "1"}, {Name: "b", Value: "x"}, {Name: "a", Value: "2"}},
		},
		{"empty value", "a=", []domain.Field{{Name: "a", Value: ""}}},
		{"no equals sign", "a", []domain.Field{{Name: "a", Value: ""}}},
		{"skips empty pairs", "a=1&&b=2&", []domain.Field{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}},
		{"unescapes", "full+name=Ada%20Lovelace&q=%26%3D", []domain.Field{{Name: "full name", Value: "Ada Lovelace"}, {Name: "q", Value: "&="}}},
		{"preserves case", "Name=a&name=b", []domain.Field{{Name: "Name", Value: "a"}, {Name: "name", Value: "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Fields())
		})
	}
}

func TestDecode_InvalidEscape(t *testing.T) {
	_, err := Decode([]byte("a=%zz"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)

	_, err = Decode([]byte("%zz=1"))
	require.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	bodies := []string{
		"",
		"a=1&a=2&b=x",
		"b=x&a=1&b=y&a=2",
		"a=&b=",
		"full+name=Ada+Lovelace&q=%26%3D",
		"x=1&x=1&x=1",
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			m, err := Decode([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, body, string(Encode(m)))
		})
	}
}

func TestEncode_Canonical(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"q=a*b", "q=a%2Ab"},
		{"p=%2f", "p=%2F"},
		{"s=a%20b", "s=a+b"},
		{"a=1&&b=2", "a=1&b=2"},
		{"flag", "flag="},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			m, err := Decode([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(Encode(m)))
		})
	}
}

func TestURLEncoded_Extract(t *testing.T) {
	m, err := URLEncoded{}.Extract(domain.Payload{Body: []byte("a=1&a=2"), ContentType: MediaType})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, m.Get("a"))
}

func TestExpression(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		payload domain.Payload
		want    []domain.Field
	}{
		{
			name:    "pairs from json object",
			expr:    `.fields[] | [.n, .v]`,
			payload: domain.Payload{Body: []byte(`{"fields":[{"n":"a","v":1},{"n":"a","v":2.5},{"n":"b","v":true}]}`), ContentType: "application/json"},
			want:    []domain.Field{{Name: "a", Value: "1"}, {Name: "a", Value: "2.5"}, {Name: "b", Value: "true"}},
		},
		{
			name:    "key value objects",
			expr:    `to_entries[]`,
			payload: domain.Payload{Body: []byte(`{"a":"x"}`), ContentType: "application/json"},
			want:    []domain.Field{{Name: "a", Value: "x"}},
		},
		{
			name:    "filters url-encoded fields",
			expr:    `.[] | select(.name != "csrf")`,
			payload: domain.Payload{Body: []byte("a=1&csrf=t&a=2"), ContentType: MediaType + "; charset=utf-8"},
			want:    []domain.Field{{Name: "a", Value: "1"}, {Name: "a", Value: "2"}},
		},
		{
			name:    "empty body",
			expr:    `empty`,
			payload: domain.Payload{},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewExpression(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, e.String())

			m, err := e.Extract(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Fields())
		})
	}
}

func TestExpression_Errors(t *testing.T) {
	_, err := NewExpression(`.[`)
	require.Error(t, err)

	tests := []struct {
		name    string
		expr    string
		payload domain.Payload
	}{
		{"invalid json", `.`, domain.Payload{Body: []byte(`{`), ContentType: "application/json"}},
		{"scalar result", `1`, domain.Payload{Body: []byte(`{}`), ContentType: "application/json"}},
		{"wrong pair size", `[1,2,3]`, domain.Payload{Body: []byte(`{}`), ContentType: "application/json"}},
		{"object without name", `{value: 1}`, domain.Payload{Body: []byte(`{}`), ContentType: "application/json"}},
		{"runtime error", `error("nope")`, domain.Payload{Body: []byte(`{}`), ContentType: "application/json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewExpression(tt.expr)
			require.NoError(t, err)

			_, err = e.Extract(tt.payload)
			assert.Error(t, err)
		})
	}
}

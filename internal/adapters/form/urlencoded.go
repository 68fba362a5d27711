// Package form provides FormExtractor implementations and the
// application/x-www-form-urlencoded codec used to re-encode validated bodies.
package form

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/GabrielNunesIT/apicontract/internal/domain"
)

// MediaType is the media type handled by this package.
const MediaType = "application/x-www-form-urlencoded"

// URLEncoded extracts form fields straight from an url-encoded body.
type URLEncoded struct{}

// Extract decodes the payload body.
func (URLEncoded) Extract(payload domain.Payload) (*domain.Multimap, error) {
	return Decode(payload.Body)
}

// Decode parses an url-encoded body into a multimap, keeping every field in the
// order received. A field without '=' has an empty value.
func Decode(body []byte) (*domain.Multimap, error) {
	m := &domain.Multimap{}

	rest := string(body)
	for rest != "" {
		var pair string
		pair, rest, _ = strings.Cut(rest, "&")
		if pair == "" {
			continue
		}

		rawName, rawValue, _ := strings.Cut(pair, "=")

		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, fmt.Errorf("invalid field name %q: %w", rawName, err)
		}

		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid value for field %q: %w", name, err)
		}

		m.Add(name, value)
	}

	return m, nil
}

// Encode renders a multimap as an url-encoded body in entry order, escaping with
// url.QueryEscape. Encode(Decode(b)) equals b only when b is already canonical.
func Encode(m *domain.Multimap) []byte {
	var b strings.Builder

	first := true
	for name, value := range m.All() {
		if !first {
			b.WriteByte('&')
		}
		first = false

		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	return []byte(b.String())
}

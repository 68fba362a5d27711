package domain

import "strings"

// HTTPMethod is the closed set of action types a resource may declare.
type HTTPMethod string

// HTTP methods.
const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodDelete  HTTPMethod = "DELETE"
	MethodHead    HTTPMethod = "HEAD"
	MethodPatch   HTTPMethod = "PATCH"
	MethodOptions HTTPMethod = "OPTIONS"
	MethodTrace   HTTPMethod = "TRACE"
	MethodConnect HTTPMethod = "CONNECT"
)

// Methods lists every known method in canonical order.
var Methods = []HTTPMethod{
	MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead,
	MethodPatch, MethodOptions, MethodTrace, MethodConnect,
}

// ParseMethod upper-cases token and maps it to an HTTPMethod.
// Tokens outside the known set yield an *UnknownMethodError.
func ParseMethod(token string) (HTTPMethod, error) {
	m := HTTPMethod(strings.ToUpper(strings.TrimSpace(token)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}

	return "", &UnknownMethodError{Token: token}
}

// String returns the method token.
func (m HTTPMethod) String() string {
	return string(m)
}

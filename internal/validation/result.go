// Package validation checks inbound request bodies against the body
// definitions of the contract model.
//
// A body either fails with a bad-request error carrying every violation, or
// produces a Result. The Result tells whether the body was actually validated
// (and possibly re-encoded) or passed through untouched because it could not be
// checked.
package validation

import "github.com/GabrielNunesIT/apicontract/internal/domain"

// Outcome classifies a successful validation.
type Outcome int

// Outcomes.
const (
	// Validated means the body was checked and matched its schema.
	Validated Outcome = iota + 1
	// PassThrough means the body could not be checked and is returned as received.
	PassThrough
)

func (o Outcome) String() string {
	switch o {
	case Validated:
		return "validated"
	case PassThrough:
		return "pass-through"
	default:
		return "unknown"
	}
}

// Result is the body to forward downstream.
type Result struct {
	Outcome Outcome
	Payload domain.Payload
	// Reason explains a PassThrough.
	Reason string
}

func validated(payload domain.Payload) Result {
	return Result{Outcome: Validated, Payload: payload}
}

func passThrough(payload domain.Payload, reason string) Result {
	return Result{Outcome: PassThrough, Payload: payload, Reason: reason}
}

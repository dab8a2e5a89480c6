package assistant

import (
	"errors"

	"github.com/bububa/qa-agents/agents"
	"github.com/bububa/qa-agents/schema"
)

type ErrorKind string

const (
	InputBlocked ErrorKind = "input_blocked"
	GeneralError ErrorKind = "general_error"
)

// QueryError is the failure of a query, Kind tells whether the guardrail blocked it
type QueryError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *QueryError) Error() string {
	return string(e.Kind) + ": " + e.Reason
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func newQueryError(err error) *QueryError {
	var tripErr *agents.InputGuardrailTripwireError
	if errors.As(err, &tripErr) {
		reason := schema.Stringify(tripErr.Result.Output.OutputInfo)
		if v, ok := tripErr.Result.Output.OutputInfo.(*SensitiveCheckOutput); ok {
			reason = v.Reasoning
		}
		return &QueryError{Kind: InputBlocked, Reason: reason, Err: err}
	}
	return &QueryError{Kind: GeneralError, Reason: err.Error(), Err: err}
}

package service

import "errors"

// Pipeline failure taxonomy. Every backend-pipeline failure is converted to
// one of these at the pipeline boundary; callers never see sub-causes.
var (
	// ErrValidationRejected means the generated statement failed the safety
	// gate. Fatal for the request, never retried; the statement itself is
	// never surfaced to the user.
	ErrValidationRejected = errors.New("generated statement rejected by safety validator")

	// ErrExecutionFailed covers graph execution errors and model-call
	// failures. Surfaced as a generic "could not answer" message.
	ErrExecutionFailed = errors.New("query execution failed")
)

// ResultKind classifies a successful pipeline outcome
type ResultKind int

const (
	// ResultOK means rows were found and answered normally
	ResultOK ResultKind = iota
	// ResultEmpty means the query succeeded but matched zero rows. Not an
	// error; rendered as a dedicated empty-state message.
	ResultEmpty
)

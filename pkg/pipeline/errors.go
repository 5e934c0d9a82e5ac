package pipeline

import (
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/cubeql/pkg/chain"
)

var (
	// ErrNoCubeSelected matches a *NoCubeSelectedError.
	ErrNoCubeSelected = errors.New("no cube selected")
	// ErrEmptyQuestion is returned before any upstream call for blank input.
	ErrEmptyQuestion = errors.New("question must not be empty")
	// ErrEmptyCube is returned by GenerateQuery for a blank cube identifier.
	ErrEmptyCube = errors.New("cube must not be empty")
)

// Upstream services named by UpstreamError.
const (
	ServiceSPARQL = "sparql"
	ServiceLLM    = "llm"
)

// NoCubeSelectedError carries the selection response in which no cube
// identifier was found. The model usually explains itself in it.
type NoCubeSelectedError struct {
	Response string
}

func (e *NoCubeSelectedError) Error() string {
	return "Service was unable to select proper cube. Full response: " + e.Response
}

func (e *NoCubeSelectedError) Is(target error) bool {
	return target == ErrNoCubeSelected
}

// UpstreamError wraps a failed call to the SPARQL endpoint or the LLM.
type UpstreamError struct {
	Service string
	Op      string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func upstream(service, op string, err error) error {
	var ue *UpstreamError
	if errors.As(err, &ue) || errors.Is(err, chain.ErrMissingVariable) {
		return err
	}
	return &UpstreamError{Service: service, Op: op, Err: err}
}

package agents

import (
	"fmt"

	"github.com/jonathan/smarthire/internal/llm"
)

// ErrMissingAPIKey is returned by every agent when no model credential is configured.
var ErrMissingAPIKey = llm.ErrMissingAPIKey

// APICallError represents an error from the model provider
type APICallError struct {
	Agent   string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: API call failed: %s: %v", e.Agent, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: API call failed: %s", e.Agent, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a response that is not a JSON object
type ParseError struct {
	Agent   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: parse error: %s: %v", e.Agent, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: parse error: %s", e.Agent, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents JSON that does not satisfy the agent's output schema
type ValidationError struct {
	Agent   string
	Message string
	Field   string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: validation error in %s: %s", e.Agent, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: validation error: %s", e.Agent, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

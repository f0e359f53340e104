package agents

import "fmt"

// ParseError reports that a gateway response did not match the agent's
// expected structure. It never results from silent coercion; malformed
// output aborts the run.
type ParseError struct {
	Agent Name
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: response did not match expected structure: %v", e.Agent, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ExecutionError is the typed failure surfaced to orchestrator callers when
// an agent run aborts. The cause is preserved unchanged.
type ExecutionError struct {
	Agent Name
	Err   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("agent %s failed: %v", e.Agent, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

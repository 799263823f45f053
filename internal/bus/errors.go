package bus

import "fmt"

// ContractViolationError reports disagreement between a publisher and a command about an
// event, e.g. a payload referencing an entity that must exist by construction.
// It is never converted into a response: the bus logs it and panics.
type ContractViolationError struct {
	Key     EventKey
	Command string
	Err     error
}

// NewContractViolation creates a contract violation raised by the named command.
func NewContractViolation(key EventKey, command string, err error) *ContractViolationError {
	return &ContractViolationError{Key: key, Command: command, Err: err}
}

// Error implements the error interface.
func (e *ContractViolationError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("contract violation on %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("contract violation on %q in %s: %v", e.Key, e.Command, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ContractViolationError) Unwrap() error {
	return e.Err
}

package runner

import "fmt"

// StepError attributes a run failure to the step that produced it.
type StepError struct {
	// Index is the step's 1-based position in the steps sequence.
	Index int

	// Name is the step name, empty if the step had none.
	Name string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("step %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("step %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *StepError) Unwrap() error {
	return e.Err
}

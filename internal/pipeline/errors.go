package pipeline

import (
	"fmt"
)

// StepError ties a failure to the step that produced it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FaultError is a recovered panic.
type FaultError struct {
	Value      any
	StackTrace []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("unexpected fault: %v", e.Value)
}

// Unwrap returns the panic value when it was an error.
func (e *FaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Stack returns the goroutine stack captured at recovery.
func (e *FaultError) Stack() string {
	return string(e.StackTrace)
}

// Package error formats pipeline errors for the CLI boundary, attributing
// each one to the stage of the generate/label/reduce pipeline it came from
// so a user sees where things went wrong, not just what.
package error

import "fmt"

// StageError wraps an error from one stage of the table-generation/reduce
// pipeline with the stage name, the way the teacher's SpecError attributed
// an error to a source row.
type StageError struct {
	Cause error
	Stage string
}

func (e *StageError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("error: %v", e.Cause)
	}
	return fmt.Sprintf("%v: error: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error { return e.Cause }

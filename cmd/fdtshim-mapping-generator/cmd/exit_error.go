package cmd

import "fmt"

// Exit codes
const (
	ExitOK         = 0
	ExitUsage      = 1
	ExitNotDir     = 2
	ExitTraversal  = 3
	ExitExtraction = 4
)

// ExitError carries a process exit status out of a RunE handler.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

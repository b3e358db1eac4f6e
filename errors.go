package querybench

import (
	"errors"
	"fmt"
)

// Stage kinds tagged onto failures before the top-level wrap, so callers can
// tell where a run died with errors.Is without parsing messages.
var (
	ErrCompile   = errors.New("compile failed")
	ErrBreakdown = errors.New("breakdown failed")
	ErrExecute   = errors.New("execution failed")
)

// BenchmarkError is the single error type Run returns: the underlying cause
// wrapped once with the name of the query that failed.
type BenchmarkError struct {
	Query string
	Err   error
}

func (e *BenchmarkError) Error() string {
	return fmt.Sprintf("benchmark of query %v failed: %v", e.Query, e.Err)
}

func (e *BenchmarkError) Unwrap() error { return e.Err }

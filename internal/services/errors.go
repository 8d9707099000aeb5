package services

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var ErrErrorBudgetExceeded = errors.New("error budget exceeded")

// Default number of violations tolerated before a check run is aborted.
const DefaultMaxErrors = 10

// ErrorBudget counts violations and warnings across every check sharing it.
// A maximum of zero or less never aborts. Safe for concurrent use.
type ErrorBudget struct {
	max   int64
	count atomic.Int64
}

func NewErrorBudget(max int) *ErrorBudget {
	return &ErrorBudget{max: int64(max)}
}

// Record one violation. Returns ErrErrorBudgetExceeded once the count passes the maximum.
func (b *ErrorBudget) Increment() error {
	n := b.count.Add(1)
	if b.max > 0 && n > b.max {
		return fmt.Errorf("%w: %d errors, maximum is %d", ErrErrorBudgetExceeded, n, b.max)
	}
	return nil
}

func (b *ErrorBudget) Count() int { return int(b.count.Load()) }

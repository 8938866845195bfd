// Package solver adapts the abstract linear program to a concrete LP
// library. A non-Optimal status is a first-class terminal outcome, not
// an error: callers branch on Result.Status and must never turn a
// failed solve into an empty plan.
package solver

import (
	"context"

	"flowplan/internal/lp"
)

type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	}
	return "Error"
}

// Options are passed through to the backend opaquely. Tol is the
// simplex optimality tolerance; zero selects the library default.
type Options struct {
	Tol float64
}

// Result carries the solve outcome. Values holds one quantity per
// Program variable, in Program order, and is only set when Status is
// Optimal. Detail carries whatever diagnostic the backend offered for a
// non-Optimal status.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64
	Detail    string
}

type Solver interface {
	Solve(ctx context.Context, p *lp.Program, opts Options) (Result, error)
}

package solver

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	gnlp "gonum.org/v1/gonum/optimize/convex/lp"

	"flowplan/internal/lp"
)

// Simplex solves programs with gonum's Danzig simplex. Inequality rows
// get one slack variable each, producing the standard form
// min c^T x, A x = b, x >= 0 that gnlp.Simplex expects; the original
// variables keep their indices in the widened layout.
type Simplex struct{}

func NewSimplex() *Simplex { return &Simplex{} }

func (s *Simplex) Solve(ctx context.Context, p *lp.Program, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusError, Detail: err.Error()}, err
	}

	// Constraints with an empty left-hand side cannot be handed to the
	// simplex. A row that can never hold (e.g. demand with no serving
	// route) makes the whole program infeasible; a trivially true row
	// is dropped.
	var rows []lp.Constraint
	for _, c := range p.Constraints {
		if len(c.Expr.Terms) == 0 {
			if emptyRowViolated(c) {
				return Result{
					Status: StatusInfeasible,
					Detail: fmt.Sprintf("constraint %q has no variables and bound %v, it can never hold", c.Name, c.Bound),
				}, nil
			}
			continue
		}
		rows = append(rows, c)
	}

	n := p.NumVariables()
	if n == 0 {
		return Result{Status: StatusOptimal, Values: []float64{}}, nil
	}

	obj := make([]float64, n)
	for _, t := range p.Objective.Terms {
		obj[t.Var] += t.Coeff
	}

	if len(rows) == 0 {
		// Nothing constrains the variables; with nonnegative costs the
		// minimum is all zeros, a negative cost makes it unbounded.
		for _, c := range obj {
			if c < 0 {
				return Result{Status: StatusUnbounded, Detail: "negative objective coefficient with no binding constraints"}, nil
			}
		}
		return Result{Status: StatusOptimal, Values: make([]float64, n)}, nil
	}

	var eq, ineq []lp.Constraint
	for _, c := range rows {
		if c.Rel == lp.Equal {
			eq = append(eq, c)
		} else {
			ineq = append(ineq, c)
		}
	}

	// Standard form layout: [x_0..x_{n-1}, s_0..s_{nIneq-1}].
	cols := n + len(ineq)
	c := make([]float64, cols)
	copy(c, obj)

	a := mat.NewDense(len(rows), cols, nil)
	b := make([]float64, len(rows))
	for i, con := range eq {
		for _, t := range con.Expr.Terms {
			a.Set(i, t.Var, a.At(i, t.Var)+t.Coeff)
		}
		b[i] = con.Bound
	}
	for j, con := range ineq {
		i := len(eq) + j
		sign := 1.0
		if con.Rel == lp.GreaterEq {
			sign = -1
		}
		for _, t := range con.Expr.Terms {
			a.Set(i, t.Var, a.At(i, t.Var)+sign*t.Coeff)
		}
		a.Set(i, n+j, 1)
		b[i] = sign * con.Bound
	}

	optF, x, err := gnlp.Simplex(c, a, b, opts.Tol, nil)
	switch {
	case err == nil:
		values := make([]float64, n)
		copy(values, x[:n])
		return Result{Status: StatusOptimal, Objective: optF, Values: values}, nil
	case errors.Is(err, gnlp.ErrInfeasible):
		return Result{Status: StatusInfeasible, Detail: err.Error()}, nil
	case errors.Is(err, gnlp.ErrUnbounded):
		return Result{Status: StatusUnbounded, Detail: err.Error()}, nil
	default:
		return Result{Status: StatusError, Detail: err.Error()}, nil
	}
}

func emptyRowViolated(c lp.Constraint) bool {
	switch c.Rel {
	case lp.GreaterEq:
		return c.Bound > 0
	case lp.LessEq:
		return c.Bound < 0
	default:
		return c.Bound != 0
	}
}

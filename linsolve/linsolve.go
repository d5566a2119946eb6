package linsolve

import (
	"errors"
	"fmt"
	"github.com/notargets/cstfem/band"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"math"
)

var (
	ErrNotConverged        = errors.New("linsolve: iteration limit reached without convergence")
	ErrNotPositiveDefinite = errors.New("linsolve: matrix is not positive definite")
)

// Method selects the algorithm used for the banded solve
type Method uint8

const (
	ConjugateGradient Method = iota // Jacobi preconditioned conjugate gradient
	// Cholesky is the direct banded factorization. Its cost grows with the
	// band width, not with the conditioning, so it is the method to use on
	// meshes where CG needs more than MaxIterations.
	Cholesky
)

func (m Method) String() string {
	switch m {
	case ConjugateGradient:
		return "cg"
	case Cholesky:
		return "cholesky"
	default:
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
}

// ParseMethod maps a method name back to its Method
func ParseMethod(name string) (Method, error) {
	switch name {
	case "cg", "":
		return ConjugateGradient, nil
	case "cholesky":
		return Cholesky, nil
	}
	return 0, fmt.Errorf("linsolve: unknown method %q", name)
}

// Settings configures a solve
type Settings struct {
	Method        Method
	MaxIterations int     // Ceiling on CG iterations; large meshes may need Cholesky instead
	Tolerance     float64 // Relative residual ‖b-Ax‖/‖b‖ accepted as converged
}

// DefaultSettings returns CG with the reference ceiling of 500 iterations
func DefaultSettings() Settings {
	return Settings{
		Method:        ConjugateGradient,
		MaxIterations: 500,
		Tolerance:     1e-10,
	}
}

// Result is a converged solution and its convergence record
type Result struct {
	X          []float64
	Iterations int
	Residual   float64 // Final relative residual
}

// Solve solves A·x = b for a symmetric positive definite band matrix.
// A is only read.
func Solve(a *band.Matrix, b []float64, s Settings) (Result, error) {
	if len(b) != a.Size() {
		return Result{}, fmt.Errorf("linsolve: rhs length %d for %d×%d matrix: %w",
			len(b), a.Size(), a.Size(), band.ErrShape)
	}
	switch s.Method {
	case ConjugateGradient:
		return conjugateGradient(a, b, s)
	case Cholesky:
		return cholesky(a, b)
	default:
		return Result{}, fmt.Errorf("linsolve: unsupported method %v", s.Method)
	}
}

func conjugateGradient(a *band.Matrix, b []float64, s Settings) (Result, error) {
	n := a.Size()
	x := make([]float64, n)

	bNorm := floats.Norm(b, 2)
	if bNorm == 0 {
		return Result{X: x}, nil
	}
	if s.MaxIterations <= 0 {
		return Result{}, fmt.Errorf("linsolve: max iterations %d: %w", s.MaxIterations, ErrNotConverged)
	}

	// Jacobi preconditioner
	inv := a.Diagonal()
	for i, d := range inv {
		if !(d > 0) {
			return Result{}, fmt.Errorf("linsolve: diagonal entry %d is %g: %w", i, d, ErrNotPositiveDefinite)
		}
		inv[i] = 1 / d
	}

	var (
		r  = append([]float64(nil), b...)
		z  = make([]float64, n)
		p  = make([]float64, n)
		q  = make([]float64, n)
		rz float64
	)
	floats.MulTo(z, inv, r)
	copy(p, z)
	rz = floats.Dot(r, z)

	residual := 1.0
	for k := 1; k <= s.MaxIterations; k++ {
		if err := a.MulVecTo(q, p); err != nil {
			return Result{}, err
		}
		pq := floats.Dot(p, q)
		if !(pq > 0) {
			return Result{}, fmt.Errorf("linsolve: curvature %g at iteration %d: %w", pq, k, ErrNotPositiveDefinite)
		}
		alpha := rz / pq
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, q)

		residual = floats.Norm(r, 2) / bNorm
		if residual <= s.Tolerance {
			return Result{X: x, Iterations: k, Residual: residual}, nil
		}
		if math.IsNaN(residual) {
			break
		}

		floats.MulTo(z, inv, r)
		rzNext := floats.Dot(r, z)
		beta := rzNext / rz
		rz = rzNext
		// p = z + beta·p
		floats.AddScaledTo(p, z, beta, p)
	}
	return Result{}, fmt.Errorf("linsolve: %d iterations, relative residual %.3e > %.3e: %w",
		s.MaxIterations, residual, s.Tolerance, ErrNotConverged)
}

func cholesky(a *band.Matrix, b []float64) (Result, error) {
	f, err := Factorize(a)
	if err != nil {
		return Result{}, err
	}
	return f.Solve(b)
}

// Factor is the banded Cholesky factorization of a matrix. It is only read
// by Solve, so one Factor may serve several goroutines.
type Factor struct {
	a  *band.Matrix
	ch mat.BandCholesky
}

// Factorize computes the banded Cholesky factorization of a. A matrix that is
// not positive definite, or whose condition number exceeds
// mat.ConditionTolerance, fails with ErrNotPositiveDefinite. A stiffness
// matrix with an unconstrained rigid-body mode fails here.
func Factorize(a *band.Matrix) (*Factor, error) {
	f := &Factor{a: a}
	if ok := f.ch.Factorize(a.SymBand()); !ok {
		return nil, fmt.Errorf("linsolve: banded Cholesky factorization failed: %w", ErrNotPositiveDefinite)
	}
	if c := f.ch.Cond(); c > mat.ConditionTolerance {
		return nil, fmt.Errorf("linsolve: condition number %.3e: %w", c, ErrNotPositiveDefinite)
	}
	return f, nil
}

// Cond returns the estimated condition number of the factorized matrix
func (f *Factor) Cond() float64 { return f.ch.Cond() }

// Solve solves A·x = b with the factorization
func (f *Factor) Solve(b []float64) (Result, error) {
	n := f.a.Size()
	if len(b) != n {
		return Result{}, fmt.Errorf("linsolve: rhs length %d for %d×%d matrix: %w",
			len(b), n, n, band.ErrShape)
	}
	x := mat.NewVecDense(n, nil)
	if err := f.ch.SolveVecTo(x, mat.NewVecDense(n, append([]float64(nil), b...))); err != nil {
		return Result{}, fmt.Errorf("linsolve: %v: %w", err, ErrNotPositiveDefinite)
	}

	// report the residual the same way CG does
	res, err := f.a.MulVec(x.RawVector().Data)
	if err != nil {
		return Result{}, err
	}
	floats.Sub(res, b)
	residual := 0.0
	if bNorm := floats.Norm(b, 2); bNorm > 0 {
		residual = floats.Norm(res, 2) / bNorm
	}
	return Result{X: x.RawVector().Data, Iterations: 1, Residual: residual}, nil
}

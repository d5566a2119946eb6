package fem

import (
	"errors"
	"fmt"
	"github.com/notargets/cstfem/band"
	"github.com/notargets/cstfem/element"
	"github.com/notargets/cstfem/linsolve"
	"github.com/notargets/cstfem/loader"
	"github.com/notargets/cstfem/model"
	"log/slog"
	"strings"
)

var ErrState = errors.New("fem: operation not allowed in current state")

// State is the build stage a Solver has reached
type State uint8

const (
	Unbuilt State = iota
	ModelLoaded
	Assembled
	Rearranged
	Solved
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "Unbuilt"
	case ModelLoaded:
		return "ModelLoaded"
	case Assembled:
		return "Assembled"
	case Rearranged:
		return "Rearranged"
	case Solved:
		return "Solved"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Solver owns the original stiffness matrix of a model and its rearranged
// copy with the prescribed displacements eliminated. Neither is modified by
// Solve, so a Solver can be reused for any number of force vectors. A Solver
// is not safe for concurrent use; see Clone.
type Solver struct {
	Model *model.Model

	cfg        Config
	log        *slog.Logger
	state      State
	assembler  *Assembler
	stiffness  *band.Matrix // shared read-only between clones
	eliminated *Elimination
	factor     *linsolve.Factor // shared read-only between clones
	solution   *Solution
}

// Build parses model text and prepares a solver ready for Solve
func Build(modelText string, cfg Config) (*Solver, error) {
	m, err := loader.Parse(modelText, cfg.Loader)
	if err != nil {
		return nil, err
	}
	return NewSolver(m, cfg)
}

// NewSolver formulates, assembles and rearranges the stiffness of a model.
// The rearranged matrix is factorized once, so a model without enough
// displacement constraints fails here with linsolve.ErrNotPositiveDefinite
// rather than in Solve.
func NewSolver(m *model.Model, cfg Config) (s *Solver, err error) {
	s = &Solver{cfg: cfg, log: cfg.logger()}
	if err = s.load(m); err != nil {
		return nil, err
	}
	if err = s.assemble(); err != nil {
		return nil, err
	}
	if err = s.rearrange(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Solver) load(m *model.Model) error {
	if m == nil {
		return fmt.Errorf("nil model: %w", model.ErrInvalid)
	}
	f, err := element.NewFormulator(s.cfg.Material)
	if err != nil {
		return err
	}
	s.Model = m
	s.assembler = &Assembler{Formulator: f}
	s.state = ModelLoaded
	s.log.Debug("model loaded",
		"nodes", m.NumNodes(), "elements", m.NumElements(), "dofs", m.NumDOF())
	return nil
}

func (s *Solver) assemble() (err error) {
	if s.state != ModelLoaded {
		return fmt.Errorf("assemble in state %v: %w", s.state, ErrState)
	}
	m := s.Model
	if s.stiffness, err = s.assembler.Assemble(m.NumNodes(), m.Elements, m.BandWidth); err != nil {
		return fmt.Errorf("assemble stiffness: %w", err)
	}
	s.state = Assembled
	s.log.Debug("stiffness assembled", "size", s.stiffness.Size(), "bandWidth", s.stiffness.BandWidth())
	return nil
}

func (s *Solver) rearrange() (err error) {
	if s.state != Assembled {
		return fmt.Errorf("rearrange in state %v: %w", s.state, ErrState)
	}
	if s.eliminated, err = Eliminate(s.stiffness, s.Model.Displacements); err != nil {
		return fmt.Errorf("eliminate boundary conditions: %w", err)
	}
	// a model short of displacement constraints keeps a rigid-body mode
	if s.factor, err = linsolve.Factorize(s.eliminated.Matrix); err != nil {
		return fmt.Errorf("rearranged stiffness is singular, constrain the model against rigid-body motion: %w", err)
	}
	s.state = Rearranged
	s.log.Debug("boundary conditions eliminated",
		"fixed", s.Model.Displacements.CountKnown(), "orphans", len(s.eliminated.Orphans()),
		"cond", s.factor.Cond())
	return nil
}

// Solve computes the displacements for a force vector and recovers the
// nodal forces, reactions included, as K·u with the original matrix.
// Forces given at fixed DOFs are ignored.
func (s *Solver) Solve(forces model.Vector) (*Solution, error) {
	if s.state < Rearranged {
		return nil, fmt.Errorf("solve in state %v: %w", s.state, ErrState)
	}
	rhs, err := s.eliminated.RHS(forces)
	if err != nil {
		return nil, err
	}
	var res linsolve.Result
	if s.cfg.Solver.Method == linsolve.Cholesky {
		res, err = s.factor.Solve(rhs)
	} else {
		res, err = linsolve.Solve(s.eliminated.Matrix, rhs, s.cfg.Solver)
	}
	if err != nil {
		s.log.Warn("solve failed", "method", s.cfg.Solver.Method, "error", err)
		return nil, fmt.Errorf("solve displacements: %w", err)
	}
	f, err := s.stiffness.MulVec(res.X)
	if err != nil {
		return nil, err
	}
	s.solution = &Solution{
		model:         s.Model,
		Displacements: res.X,
		Forces:        f,
		Iterations:    res.Iterations,
		Residual:      res.Residual,
	}
	s.state = Solved
	s.log.Debug("solved", "method", s.cfg.Solver.Method,
		"iterations", res.Iterations, "residual", res.Residual)
	return s.solution, nil
}

// SolveModelLoads solves with the forces declared in the model
func (s *Solver) SolveModelLoads() (*Solution, error) {
	if s.Model == nil {
		return nil, fmt.Errorf("solve in state %v: %w", s.state, ErrState)
	}
	return s.Solve(s.Model.Forces)
}

// State returns the stage the solver has reached
func (s *Solver) State() State { return s.state }

// Config returns the configuration the solver was built with
func (s *Solver) Config() Config { return s.cfg }

// Solution returns the result of the last successful Solve
func (s *Solver) Solution() (*Solution, bool) { return s.solution, s.solution != nil }

// Stiffness returns the original assembled matrix. It must not be modified.
func (s *Solver) Stiffness() *band.Matrix { return s.stiffness }

// Rearranged returns the matrix with the prescribed displacements eliminated
func (s *Solver) Rearranged() *band.Matrix {
	if s.eliminated == nil {
		return nil
	}
	return s.eliminated.Matrix
}

// Formulator returns the element formulator built from the material
func (s *Solver) Formulator() *element.Formulator {
	if s.assembler == nil {
		return nil
	}
	return s.assembler.Formulator
}

// Clone returns a solver that can be used concurrently with s. The original
// stiffness and the model are shared; the rearranged system is copied.
func (s *Solver) Clone() *Solver {
	c := *s
	if s.eliminated != nil {
		c.eliminated = s.eliminated.clone()
	}
	c.solution = nil
	if c.state == Solved {
		c.state = Rearranged
	}
	return &c
}

// NodePosition returns the undeformed coordinates of a node
func (s *Solver) NodePosition(id int) (x, y float64, ok bool) {
	n, ok := s.Model.Node(id)
	return n.X, n.Y, ok
}

// IsFixed reports whether a node axis has a prescribed displacement
func (s *Solver) IsFixed(id int, axis model.Axis) bool { return s.Model.IsFixed(id, axis) }

// ElementCorners returns the corner node IDs of an element
func (s *Solver) ElementCorners(elementID int) ([3]int, bool) {
	t, ok := s.Model.Element(elementID)
	return t.NodeIDs(), ok
}

func (s *Solver) String() string {
	var sb strings.Builder
	p := element.Properties()
	sb.WriteString(fmt.Sprintf("%s (%s) solver: %v\n", p.Name, p.ShortName, s.state))
	if s.Model != nil {
		m := s.Model
		sb.WriteString(fmt.Sprintf("  Nodes: %d, Elements: %d, DOFs: %d, BandWidth: %d\n",
			m.NumNodes(), m.NumElements(), m.NumDOF(), m.BandWidth))
		sb.WriteString(fmt.Sprintf("  Fixed DOFs: %d, Loaded DOFs: %d\n",
			m.Displacements.CountKnown(), m.Forces.CountKnown()))
	}
	mt := s.cfg.Material
	sb.WriteString(fmt.Sprintf("  Material: E=%g nu=%g t=%g\n", mt.YoungsModulus, mt.PoissonRatio, mt.Thickness))
	sb.WriteString(fmt.Sprintf("  Solver: %v, max %d iterations, tol %g\n",
		s.cfg.Solver.Method, s.cfg.Solver.MaxIterations, s.cfg.Solver.Tolerance))
	if s.solution != nil {
		sb.WriteString(fmt.Sprintf("  Last solve: %d iterations, residual %.3e\n",
			s.solution.Iterations, s.solution.Residual))
	}
	return sb.String()
}

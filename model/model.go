package model

import (
	"errors"
	"fmt"
	"github.com/notargets/cstfem/element"
	"sort"
)

var ErrInvalid = errors.New("model: invalid")

// Node is a mesh point with coordinates already scaled to model units
type Node struct {
	ID   int
	X, Y float64
}

// Connectivity names the three corner nodes of an element
type Connectivity struct {
	ID    int
	Nodes [3]int
}

// Model is the immutable description of a plane structure: nodes, elements,
// prescribed displacements and applied forces.
type Model struct {
	// Nodes is indexed by ID-1. IDs are treated as dense 1..NumNodes; slots
	// that were never declared hold a zero Node.
	Nodes []Node

	// Elements ordered by ascending element ID
	Elements []element.Triangle

	// Displacements holds the prescribed displacements, Forces the applied
	// loads. Both have length 2·NumNodes and are indexed through DOF.
	Displacements Vector
	Forces        Vector

	// BandWidth is the largest DOF distance coupled by any element plus one
	BandWidth int

	elementIndex map[int]int
}

// New validates the mesh and builds the element geometry. nil vectors are
// replaced by all-unset vectors of the right length.
func New(nodes []Node, conn []Connectivity, displacements, forces Vector) (*Model, error) {
	if len(conn) == 0 {
		return nil, fmt.Errorf("no elements: %w", ErrInvalid)
	}

	numNodes := 0
	for _, n := range nodes {
		if n.ID < 1 {
			return nil, fmt.Errorf("node id %d must be positive: %w", n.ID, ErrInvalid)
		}
		if n.ID > numNodes {
			numNodes = n.ID
		}
	}

	m := &Model{
		Nodes:        make([]Node, numNodes),
		Elements:     make([]element.Triangle, 0, len(conn)),
		elementIndex: make(map[int]int, len(conn)),
	}
	for _, n := range nodes {
		if m.Nodes[n.ID-1].ID != 0 {
			return nil, fmt.Errorf("duplicate node %d: %w", n.ID, ErrInvalid)
		}
		m.Nodes[n.ID-1] = n
	}

	sorted := append([]Connectivity(nil), conn...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, c := range sorted {
		if _, dup := m.elementIndex[c.ID]; dup {
			return nil, fmt.Errorf("duplicate element %d: %w", c.ID, ErrInvalid)
		}
		var corners [3]element.Corner
		for k, id := range c.Nodes {
			n, ok := m.Node(id)
			if !ok {
				return nil, fmt.Errorf("element %d references undefined node %d: %w", c.ID, id, ErrInvalid)
			}
			corners[k] = element.Corner{NodeID: id, X: n.X, Y: n.Y}
		}
		tri, err := element.NewTriangle(c.ID, corners)
		if err != nil {
			return nil, err
		}
		m.elementIndex[c.ID] = len(m.Elements)
		m.Elements = append(m.Elements, tri)
	}
	m.BandWidth = BandWidth(m.Elements)

	ndof := NumDOF(numNodes)
	if m.Displacements = displacements; m.Displacements == nil {
		m.Displacements = NewVector(ndof)
	}
	if m.Forces = forces; m.Forces == nil {
		m.Forces = NewVector(ndof)
	}
	if len(m.Displacements) != ndof || len(m.Forces) != ndof {
		return nil, fmt.Errorf("vector lengths %d/%d do not match %d DOFs: %w",
			len(m.Displacements), len(m.Forces), ndof, ErrInvalid)
	}
	for dof := 0; dof < ndof; dof++ {
		id, axis := NodeOfDOF(dof)
		if m.Nodes[id-1].ID != 0 {
			continue
		}
		if m.Displacements[dof].IsKnown() || m.Forces[dof].IsKnown() {
			return nil, fmt.Errorf("boundary condition on undefined node %d axis %v: %w", id, axis, ErrInvalid)
		}
	}
	return m, nil
}

// RequiredBandWidth is the band width one element needs:
// 2·(max node ID - min node ID + 1)
func RequiredBandWidth(t element.Triangle) int {
	min, max := t.NodeSpan()
	return (1 + max - min) * 2
}

// BandWidth returns the band width needed by a set of elements
func BandWidth(elements []element.Triangle) (w int) {
	for _, t := range elements {
		if bw := RequiredBandWidth(t); bw > w {
			w = bw
		}
	}
	return
}

// NumNodes returns the dense node count (the largest node ID)
func (m *Model) NumNodes() int { return len(m.Nodes) }

// NumElements returns the number of elements
func (m *Model) NumElements() int { return len(m.Elements) }

// NumDOF returns the length of the model's force and displacement vectors
func (m *Model) NumDOF() int { return NumDOF(len(m.Nodes)) }

// Node returns a declared node
func (m *Model) Node(id int) (Node, bool) {
	if id < 1 || id > len(m.Nodes) || m.Nodes[id-1].ID == 0 {
		return Node{}, false
	}
	return m.Nodes[id-1], true
}

// Element returns an element by ID
func (m *Model) Element(id int) (element.Triangle, bool) {
	k, ok := m.elementIndex[id]
	if !ok {
		return element.Triangle{}, false
	}
	return m.Elements[k], true
}

// ElementIndex returns the position of an element in Elements
func (m *Model) ElementIndex(id int) (int, bool) {
	k, ok := m.elementIndex[id]
	return k, ok
}

// IsFixed reports whether a node has a prescribed displacement on an axis.
// A node outside the model is not fixed.
func (m *Model) IsFixed(nodeID int, axis Axis) bool {
	if nodeID < 1 || DOF(nodeID, axis) >= len(m.Displacements) {
		return false
	}
	return m.Displacements.At(nodeID, axis).IsKnown()
}

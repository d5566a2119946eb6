package element

import (
	"fmt"
	"math"
)

// Corner is a copy of the node data an element needs for its geometry
type Corner struct {
	NodeID int
	X, Y   float64
}

// Triangle is a constant strain triangle. It owns copies of its corner
// coordinates, never the nodes themselves. The area is fixed at construction.
type Triangle struct {
	ID      int
	Corners [3]Corner
	area    float64
}

// NewTriangle builds a triangle and computes its area, rejecting collinear
// or non-finite corners.
func NewTriangle(id int, corners [3]Corner) (Triangle, error) {
	a := triangleArea(
		corners[0].X, corners[0].Y,
		corners[1].X, corners[1].Y,
		corners[2].X, corners[2].Y)
	if a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return Triangle{}, fmt.Errorf("element %d with nodes %v: area %g: %w",
			id, nodeIDs(corners), a, ErrDegenerate)
	}
	return Triangle{ID: id, Corners: corners, area: a}, nil
}

// Area returns the undeformed area
func (t Triangle) Area() float64 { return t.area }

// NodeIDs returns the corner node IDs in element order
func (t Triangle) NodeIDs() [3]int { return nodeIDs(t.Corners) }

// NodeSpan returns the smallest and largest corner node ID
func (t Triangle) NodeSpan() (min, max int) {
	min, max = t.Corners[0].NodeID, t.Corners[0].NodeID
	for _, c := range t.Corners[1:] {
		if c.NodeID < min {
			min = c.NodeID
		}
		if c.NodeID > max {
			max = c.NodeID
		}
	}
	return
}

// DeformedArea returns the area of the triangle after moving each corner by
// its displacement. dx and dy are indexed by corner.
func (t Triangle) DeformedArea(dx, dy [3]float64) float64 {
	c := t.Corners
	return triangleArea(
		c[0].X+dx[0], c[0].Y+dy[0],
		c[1].X+dx[1], c[1].Y+dy[1],
		c[2].X+dx[2], c[2].Y+dy[2])
}

// DeltaArea returns the relative area change in per-mille,
// (deformed/undeformed - 1) * 1000.
func (t Triangle) DeltaArea(dx, dy [3]float64) float64 {
	return (t.DeformedArea(dx, dy)/t.area - 1.0) * 1000
}

func nodeIDs(c [3]Corner) [3]int {
	return [3]int{c[0].NodeID, c[1].NodeID, c[2].NodeID}
}

// triangleArea is the shoelace formula over corners A, B, C
func triangleArea(ax, ay, bx, by, cx, cy float64) float64 {
	return math.Abs((cx-bx)*(ay-by)-(bx-ax)*(by-cy)) / 2.0
}

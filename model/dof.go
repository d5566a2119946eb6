package model

import "fmt"

// Axis selects the x or y displacement component of a node
type Axis uint8

const (
	X Axis = iota
	Y
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	default:
		return fmt.Sprintf("Axis(%d)", uint8(a))
	}
}

// Axes lists both axes in elimination order
var Axes = [2]Axis{X, Y}

// Node IDs are 1-based, vectors are 0-based with two DOFs per node:
//
//	x of node id -> 2·id-2
//	y of node id -> 2·id-1
//
// Every DOF index in the module is derived through DOF, DOFX or DOFY.

// DOF returns the vector index of one displacement component of a node
func DOF(nodeID int, axis Axis) int {
	return 2*nodeID - 2 + int(axis)
}

// DOFX returns the vector index of the x component of a node
func DOFX(nodeID int) int { return DOF(nodeID, X) }

// DOFY returns the vector index of the y component of a node
func DOFY(nodeID int) int { return DOF(nodeID, Y) }

// NodeOfDOF inverts DOF
func NodeOfDOF(dof int) (nodeID int, axis Axis) {
	return dof/2 + 1, Axis(dof % 2)
}

// NumDOF is the length of force and displacement vectors for a node count
func NumDOF(numNodes int) int { return 2 * numNodes }

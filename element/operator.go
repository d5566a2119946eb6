package element

import (
	"fmt"
	"gonum.org/v1/gonum/mat"
	"sort"
	"strings"
)

// Matrices collects the formulation matrices of one element keyed by
// "<name>_<ShortName>", e.g. "Ke_CST".
func (f *Formulator) Matrices(t Triangle) (mats map[string]mat.Matrix) {
	sn := Properties().ShortName
	mats = map[string]mat.Matrix{
		"B_" + sn:  t.StrainDisplacement(),
		"D_" + sn:  f.D,
		"Ke_" + sn: f.Stiffness(t),
	}
	return
}

// FormatMatrices renders all element matrices in name order
func (f *Formulator) FormatMatrices(t Triangle) string {
	mats := f.Matrices(t)
	names := make([]string, 0, len(mats))
	for name := range mats {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Element %d, nodes %v, area %.6e\n\n", t.ID, t.NodeIDs(), t.area))
	for _, name := range names {
		sb.WriteString(FormatMatrix(name, mats[name]))
	}
	return sb.String()
}

// FormatMatrix formats a single matrix with its name and dimensions
func FormatMatrix(name string, m mat.Matrix) string {
	rows, cols := m.Dims()
	label := fmt.Sprintf("%s[%d][%d] = ", name, rows, cols)
	return fmt.Sprintf("%s%.6e\n\n", label,
		mat.Formatted(m, mat.Prefix(strings.Repeat(" ", len(label))), mat.Squeeze()))
}

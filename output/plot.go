package output

import (
	"fmt"
	"github.com/notargets/cstfem/fem"
	"github.com/notargets/cstfem/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"image/color"
)

var (
	undeformedColor = color.Gray{Y: 160}
	deformedColor   = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	fixedColor      = color.RGBA{B: 200, A: 255}
)

// PlotDeformed draws the undeformed mesh, the mesh displaced by scale times
// the last solution, and the nodes with a fixed axis. The image format
// follows the file extension (.png, .svg, .pdf).
func PlotDeformed(path string, s *fem.Solver, scale float64) error {
	sol, ok := s.Solution()
	if !ok {
		return fmt.Errorf("plot in state %v: %w", s.State(), fem.ErrState)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Deformed mesh, scale %g", scale)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	m := s.Model
	for k, t := range m.Elements {
		dx, dy := sol.CornerDisplacements(t)
		orig := make(plotter.XYs, 4)
		moved := make(plotter.XYs, 4)
		for c := 0; c < 4; c++ {
			corner := t.Corners[c%3]
			orig[c].X, orig[c].Y = corner.X, corner.Y
			moved[c].X, moved[c].Y = corner.X+scale*dx[c%3], corner.Y+scale*dy[c%3]
		}
		lo, err := plotter.NewLine(orig)
		if err != nil {
			return fmt.Errorf("element %d: %w", t.ID, err)
		}
		lo.LineStyle.Color = undeformedColor
		lo.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		lm, err := plotter.NewLine(moved)
		if err != nil {
			return fmt.Errorf("element %d: %w", t.ID, err)
		}
		lm.LineStyle.Color = deformedColor
		p.Add(lo, lm)
		if k == 0 {
			p.Legend.Add("undeformed", lo)
			p.Legend.Add("deformed", lm)
		}
	}

	var fixed plotter.XYs
	for _, n := range m.Nodes {
		if n.ID != 0 && (m.IsFixed(n.ID, model.X) || m.IsFixed(n.ID, model.Y)) {
			fixed = append(fixed, plotter.XY{X: n.X, Y: n.Y})
		}
	}
	if len(fixed) > 0 {
		sc, err := plotter.NewScatter(fixed)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Shape = draw.BoxGlyph{}
		sc.GlyphStyle.Color = fixedColor
		p.Add(sc)
		p.Legend.Add("fixed", sc)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

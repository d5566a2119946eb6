package loader

import (
	"bufio"
	"fmt"
	"github.com/notargets/cstfem/model"
	"io"
	"strconv"
)

// Write emits a model in the text format. Coordinates are divided by the
// zoom factors so that Parse with the same Config reproduces the model.
func Write(w io.Writer, m *model.Model, cfg Config) error {
	if cfg.ZoomX == 0 || cfg.ZoomY == 0 {
		return fmt.Errorf("zoom %g,%g: %w", cfg.ZoomX, cfg.ZoomY, ErrSyntax)
	}
	bw := bufio.NewWriter(w)
	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	for _, n := range m.Nodes {
		if n.ID == 0 {
			continue
		}
		fmt.Fprintf(bw, "N %d %s %s\n", n.ID, num(n.X/cfg.ZoomX), num(n.Y/cfg.ZoomY))
	}
	for _, t := range m.Elements {
		ids := t.NodeIDs()
		fmt.Fprintf(bw, "E %d %d %d %d\n", t.ID, ids[0], ids[1], ids[2])
	}
	for _, rec := range []struct {
		tag string
		vec model.Vector
	}{{"D", m.Displacements}, {"F", m.Forces}} {
		for dof, v := range rec.vec {
			if val, ok := v.Get(); ok {
				id, axis := model.NodeOfDOF(dof)
				fmt.Fprintf(bw, "%s %d %v %s\n", rec.tag, id, axis, num(val))
			}
		}
	}
	return bw.Flush()
}

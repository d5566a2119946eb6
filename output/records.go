// Package output turns a solved model into per-corner result records and
// renders them as JSON, CSV, XLSX or a PNG plot of the deformed mesh.
package output

import (
	"encoding/json"
	"fmt"
	"github.com/notargets/cstfem/fem"
	"github.com/notargets/cstfem/model"
	"io"
)

// Record describes one corner of one element after a solve. DeltaX, DeltaY
// and DeltaArea are element values repeated on each of its corners.
type Record struct {
	ID        int     `json:"id"`
	XForce    float64 `json:"x_force"`
	YForce    float64 `json:"y_force"`
	XD        float64 `json:"x_d"`
	YD        float64 `json:"y_d"`
	XFixed    bool    `json:"x_fixed"`
	YFixed    bool    `json:"y_fixed"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	DeltaX    float64 `json:"deltaX"`
	DeltaY    float64 `json:"deltaY"`
	DeltaArea float64 `json:"deltaArea"`
}

// Header lists the column names in Record field order
var Header = []string{
	"id", "x_force", "y_force", "x_d", "y_d", "x_fixed", "y_fixed",
	"x", "y", "deltaX", "deltaY", "deltaArea",
}

func (r Record) row() []interface{} {
	return []interface{}{
		r.ID, r.XForce, r.YForce, r.XD, r.YD, r.XFixed, r.YFixed,
		r.X, r.Y, r.DeltaX, r.DeltaY, r.DeltaArea,
	}
}

// Records returns, per element in ID order, the three corner records of the
// solver's last solution.
func Records(s *fem.Solver) ([][]Record, error) {
	sol, ok := s.Solution()
	if !ok {
		return nil, fmt.Errorf("records in state %v: %w", s.State(), fem.ErrState)
	}
	m := s.Model
	mean := sol.MeanDisplacements()

	recs := make([][]Record, len(m.Elements))
	for k, t := range m.Elements {
		dx, dy := sol.CornerDisplacements(t)
		da := t.DeltaArea(dx, dy)
		recs[k] = make([]Record, 3)
		for c, corner := range t.Corners {
			id := corner.NodeID
			recs[k][c] = Record{
				ID:        id,
				XForce:    sol.Force(id, model.X),
				YForce:    sol.Force(id, model.Y),
				XD:        dx[c],
				YD:        dy[c],
				XFixed:    m.IsFixed(id, model.X),
				YFixed:    m.IsFixed(id, model.Y),
				X:         corner.X,
				Y:         corner.Y,
				DeltaX:    mean[2*k],
				DeltaY:    mean[2*k+1],
				DeltaArea: da,
			}
		}
	}
	return recs, nil
}

// WriteJSON writes the records as a JSON array of element arrays
func WriteJSON(w io.Writer, recs [][]Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

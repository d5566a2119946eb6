// Package loader reads and writes the plain text model format:
//
//	N <id> <x> <y>            node
//	E <id> <n1> <n2> <n3>     element
//	D <id> <x|y> <value>      prescribed displacement
//	F <id> <x|y> <value>      applied force
//
// Tags are case-insensitive, fields are separated by whitespace and records
// may appear in any order.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"github.com/notargets/cstfem/model"
	"io"
	"strconv"
	"strings"
)

var (
	ErrSyntax    = errors.New("loader: syntax error")
	ErrReference = errors.New("loader: bad reference")
)

// Config holds the coordinate scaling applied to node positions on input
type Config struct {
	ZoomX, ZoomY float64
}

// DefaultConfig returns the drawing-to-model zoom used by the reference
// models, 2.3 with the y axis flipped.
func DefaultConfig() Config { return Config{ZoomX: 2.3, ZoomY: -2.3} }

// ParseError locates a failure in the model text
type ParseError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type bcRecord struct {
	line  int
	text  string
	id    int
	axis  model.Axis
	value float64
}

type parser struct {
	cfg       Config
	nodes     []model.Node
	nodeLine  map[int]int
	conn      []model.Connectivity
	connLine  map[int]int
	connText  map[int]string
	disps     []bcRecord
	forces    []bcRecord
	lineCount int
}

// Parse builds a model from text
func Parse(text string, cfg Config) (*model.Model, error) {
	return ParseReader(strings.NewReader(text), cfg)
}

// ParseReader builds a model from a reader. Any malformed record fails the
// whole model.
func ParseReader(r io.Reader, cfg Config) (*model.Model, error) {
	p := &parser{
		cfg:      cfg,
		nodeLine: make(map[int]int),
		connLine: make(map[int]int),
		connText: make(map[int]string),
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.lineCount++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := p.record(line); err != nil {
			return nil, &ParseError{Line: p.lineCount, Text: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return p.build()
}

func (p *parser) record(line string) (err error) {
	fields := strings.Fields(line)
	tag := strings.ToUpper(fields[0])
	switch tag {
	case "N":
		if err = wantFields(fields, 4); err != nil {
			return
		}
		var n model.Node
		if n.ID, err = parseID(fields[1]); err != nil {
			return
		}
		if n.X, err = parseFloat(fields[2]); err != nil {
			return
		}
		if n.Y, err = parseFloat(fields[3]); err != nil {
			return
		}
		if _, dup := p.nodeLine[n.ID]; dup {
			return fmt.Errorf("duplicate node %d: %w", n.ID, ErrReference)
		}
		n.X *= p.cfg.ZoomX
		n.Y *= p.cfg.ZoomY
		p.nodeLine[n.ID] = p.lineCount
		p.nodes = append(p.nodes, n)
	case "E":
		if err = wantFields(fields, 5); err != nil {
			return
		}
		var c model.Connectivity
		if c.ID, err = parseID(fields[1]); err != nil {
			return
		}
		for k := range c.Nodes {
			if c.Nodes[k], err = parseID(fields[2+k]); err != nil {
				return
			}
		}
		if _, dup := p.connLine[c.ID]; dup {
			return fmt.Errorf("duplicate element %d: %w", c.ID, ErrReference)
		}
		p.connLine[c.ID] = p.lineCount
		p.connText[c.ID] = line
		p.conn = append(p.conn, c)
	case "D", "F":
		if err = wantFields(fields, 4); err != nil {
			return
		}
		bc := bcRecord{line: p.lineCount, text: line}
		if bc.id, err = parseID(fields[1]); err != nil {
			return
		}
		if bc.axis, err = parseAxis(fields[2]); err != nil {
			return
		}
		if bc.value, err = parseFloat(fields[3]); err != nil {
			return
		}
		if tag == "D" {
			p.disps = append(p.disps, bc)
		} else {
			p.forces = append(p.forces, bc)
		}
	default:
		return fmt.Errorf("unknown tag %q: %w", fields[0], ErrSyntax)
	}
	return nil
}

// build resolves references once every record is known
func (p *parser) build() (*model.Model, error) {
	numNodes := 0
	for _, n := range p.nodes {
		if n.ID > numNodes {
			numNodes = n.ID
		}
	}
	for _, c := range p.conn {
		for _, id := range c.Nodes {
			if _, ok := p.nodeLine[id]; !ok {
				return nil, &ParseError{Line: p.connLine[c.ID], Text: p.connText[c.ID],
					Err: fmt.Errorf("element %d references undeclared node %d: %w", c.ID, id, ErrReference)}
			}
		}
	}
	ndof := model.NumDOF(numNodes)
	fill := func(records []bcRecord) (model.Vector, error) {
		vec := model.NewVector(ndof)
		for _, bc := range records {
			if _, ok := p.nodeLine[bc.id]; !ok {
				return nil, &ParseError{Line: bc.line, Text: bc.text,
					Err: fmt.Errorf("undeclared node %d: %w", bc.id, ErrReference)}
			}
			vec.Set(bc.id, bc.axis, bc.value)
		}
		return vec, nil
	}
	disps, err := fill(p.disps)
	if err != nil {
		return nil, err
	}
	forces, err := fill(p.forces)
	if err != nil {
		return nil, err
	}
	m, err := model.New(p.nodes, p.conn, disps, forces)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	return m, nil
}

func wantFields(fields []string, n int) error {
	if len(fields) != n {
		return fmt.Errorf("%s record needs %d fields, got %d: %w", fields[0], n, len(fields), ErrSyntax)
	}
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("id %q: %w", s, ErrSyntax)
	}
	if id < 1 {
		return 0, fmt.Errorf("id %d must be positive: %w", id, ErrSyntax)
	}
	return id, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", s, ErrSyntax)
	}
	return v, nil
}

func parseAxis(s string) (model.Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return model.X, nil
	case "y":
		return model.Y, nil
	}
	return 0, fmt.Errorf("axis %q: %w", s, ErrSyntax)
}

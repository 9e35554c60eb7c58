package mines

import "fmt"

// Dims is the fixed size of a grid.
type Dims struct {
	Rows, Cols int
}

// Position addresses a cell, 0-indexed. It is comparable and can be used as
// a map key.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%d", d.Rows, d.Cols)
}

func (d Dims) Size() int {
	return d.Rows * d.Cols
}

func (d Dims) Contains(p Position) bool {
	return 0 <= p.Row && p.Row < d.Rows && 0 <= p.Col && p.Col < d.Cols
}

// panics [AssertionError]
func (d Dims) mustContain(p Position) {
	if !d.Contains(p) {
		panic(assertf("position %s outside %s grid", p, d))
	}
}

// index packs p into a slice index.
//
// panics [AssertionError]
func (d Dims) index(p Position) int {
	d.mustContain(p)
	return p.Row*d.Cols + p.Col
}

func (d Dims) position(i int) Position {
	return Position{Row: i / d.Cols, Col: i % d.Cols}
}

var neighborOffsets = [8]Position{
	{-1, -1}, {-1, 0}, {-1, +1},
	{0, +1},
	{+1, +1}, {+1, 0}, {+1, -1},
	{0, -1},
}

// Neighbors returns the up to 8 in-grid cells around p. There is no
// wraparound, so edge cells have 5 neighbors and corners 3.
//
// panics [AssertionError]
func (d Dims) Neighbors(p Position) []Position {
	d.mustContain(p)
	ret := make([]Position, 0, len(neighborOffsets))
	for _, o := range neighborOffsets {
		n := Position{Row: p.Row + o.Row, Col: p.Col + o.Col}
		if d.Contains(n) {
			ret = append(ret, n)
		}
	}
	return ret
}

// All returns every position in row-major order.
func (d Dims) All() []Position {
	ret := make([]Position, 0, d.Size())
	for i := range d.Size() {
		ret = append(ret, d.position(i))
	}
	return ret
}

package mines

import (
	"strconv"
)

// Value classifies a cell of a layout: either Mine or Safe(n) where n is the
// number of neighboring mines.
type Value int8

const Mine Value = -1

// Safe returns the value of a non-mine cell with n neighboring mines.
//
// panics [AssertionError]
func Safe(n int) Value {
	if n < 0 || n > 8 {
		panic(assertf("danger number %d out of range", n))
	}
	return Value(n)
}

func (v Value) IsMine() bool {
	return v == Mine
}

// Danger is the neighboring mine count of a safe cell, -1 for a mine.
func (v Value) Danger() int {
	return int(v)
}

func (v Value) String() string {
	if v.IsMine() {
		return "Mine"
	}
	return "Safe(" + strconv.Itoa(int(v)) + ")"
}

// Layout is the immutable mine/number map of one game.
type Layout struct {
	dims   Dims
	values []Value
	mines  []Position
}

// BuildLayout derives danger numbers from a set of mines. Every cell that is
// not a mine and never gets counted is Safe(0).
//
// panics [AssertionError] on duplicate or out of range mines
func BuildLayout(d Dims, mines []Position) *Layout {
	l := &Layout{
		dims:   d,
		values: make([]Value, d.Size()),
		mines:  make([]Position, len(mines)),
	}
	copy(l.mines, mines)

	for _, m := range mines {
		i := d.index(m)
		if l.values[i].IsMine() {
			panic(assertf("duplicate mine at %s", m))
		}
		l.values[i] = Mine
	}

	for _, m := range mines {
		for _, n := range d.Neighbors(m) {
			j := d.index(n)
			if !l.values[j].IsMine() {
				l.values[j]++
			}
		}
	}

	return l
}

func (l *Layout) Dims() Dims {
	return l.dims
}

// panics [AssertionError]
func (l *Layout) Value(p Position) Value {
	return l.values[l.dims.index(p)]
}

// Mines returns a copy of the mine positions.
func (l *Layout) Mines() []Position {
	ret := make([]Position, len(l.mines))
	copy(ret, l.mines)
	return ret
}

func (l *Layout) MineCount() int {
	return len(l.mines)
}

// Verify recounts every safe cell against its neighbors. A non-nil result is
// always an [AssertionError].
func (l *Layout) Verify() error {
	var nmines int
	for i, v := range l.values {
		p := l.dims.position(i)
		if v.IsMine() {
			nmines++
			continue
		}
		c := 0
		for _, n := range l.dims.Neighbors(p) {
			if l.Value(n).IsMine() {
				c++
			}
		}
		if int(v) != c {
			return assertf("cell %s is %s but has %d neighboring mines", p, v, c)
		}
	}
	if nmines != len(l.mines) {
		return assertf("layout has %d mine cells, want %d", nmines, len(l.mines))
	}
	return nil
}

package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visibilities(g *Game) map[Position]Visibility {
	ret := make(map[Position]Visibility)
	for _, p := range g.Dims().All() {
		ret[p] = g.Visibility(p)
	}
	return ret
}

func TestNewGame(t *testing.T) {
	d := Dims{Rows: 9, Cols: 8}
	g := NewGame(d, rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, d, g.Dims())
	assert.Equal(t, Status{Phase: InProgress}, g.Status())
	assert.Equal(t, MineCount(d), g.Layout().MineCount())
	require.NoError(t, g.Layout().Verify())
	for _, p := range d.All() {
		assert.Equal(t, Hidden, g.Visibility(p))
	}
}

func TestRevealMineLoses(t *testing.T) {
	d := Dims{Rows: 3, Cols: 3}
	g := NewGameWithLayout(BuildLayout(d, []Position{pos(1, 1)}))

	g.Reveal(pos(1, 1))

	assert.Equal(t, Status{Phase: Lost, At: pos(1, 1)}, g.Status())
	for _, p := range d.All() {
		if p == pos(1, 1) {
			assert.Equal(t, Revealed, g.Visibility(p))
		} else {
			assert.Equal(t, Hidden, g.Visibility(p), "cell %s", p)
		}
	}
	assert.Equal(t, 1, g.Revealed())
}

func TestRevealNumberedCellDoesNotCascade(t *testing.T) {
	d := Dims{Rows: 3, Cols: 3}
	g := NewGameWithLayout(BuildLayout(d, []Position{pos(1, 1)}))

	g.Reveal(pos(0, 0))

	assert.Equal(t, Revealed, g.Visibility(pos(0, 0)))
	assert.Equal(t, 1, g.Revealed())
	assert.False(t, g.Status().Lost())
}

func TestRevealZeroRegion(t *testing.T) {
	d := Dims{Rows: 4, Cols: 4}
	g := NewGameWithLayout(BuildLayout(d, []Position{pos(3, 3)}))

	g.Reveal(pos(0, 0))

	for _, p := range d.All() {
		if p == pos(3, 3) {
			assert.Equal(t, Hidden, g.Visibility(p))
		} else {
			assert.Equal(t, Revealed, g.Visibility(p), "cell %s", p)
		}
	}
	assert.False(t, g.Status().Lost())
}

func TestRevealStopsAtNumberedBorder(t *testing.T) {
	// . . . 1 M
	// . . . 2 2
	// . . . 1 M
	d := Dims{Rows: 3, Cols: 5}
	l := BuildLayout(d, []Position{pos(0, 4), pos(2, 4)})
	g := NewGameWithLayout(l)

	g.Reveal(pos(0, 0))

	for _, p := range d.All() {
		switch {
		case p.Col <= 3:
			assert.Equal(t, Revealed, g.Visibility(p), "cell %s", p)
		default:
			assert.Equal(t, Hidden, g.Visibility(p), "cell %s", p)
		}
	}
	assert.Equal(t, Safe(2), l.Value(pos(1, 4)))
}

// closure computes what a reveal of p should open: the connected zero
// component containing p plus its numbered border.
func closure(l *Layout, p Position) map[Position]bool {
	d := l.Dims()
	ret := map[Position]bool{p: true}
	if l.Value(p) != 0 {
		return ret
	}
	queue := []Position{p}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, n := range d.Neighbors(q) {
			if ret[n] {
				continue
			}
			ret[n] = true
			if l.Value(n) == 0 {
				queue = append(queue, n)
			}
		}
	}
	return ret
}

func TestCascadeMatchesClosure(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for _, d := range []Dims{{9, 8}, {16, 16}, {5, 30}} {
		t.Run(d.String(), func(t *testing.T) {
			for range 50 {
				l := BuildLayout(d, GenerateMines(d, r))
				for _, p := range d.All() {
					if l.Value(p).IsMine() {
						continue
					}
					g := NewGameWithLayout(l)
					g.Reveal(p)
					want := closure(l, p)
					for _, q := range d.All() {
						if want[q] {
							require.Equal(t, Revealed, g.Visibility(q), "reveal %s: cell %s", p, q)
						} else {
							require.Equal(t, Hidden, g.Visibility(q), "reveal %s: cell %s", p, q)
						}
					}
				}
			}
		})
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	d := Dims{Rows: 4, Cols: 4}
	g := NewGameWithLayout(BuildLayout(d, []Position{pos(3, 3)}))

	g.Reveal(pos(0, 1))
	before, status := visibilities(g), g.Status()

	g.Reveal(pos(0, 1))
	g.Reveal(pos(2, 2))

	assert.Equal(t, before, visibilities(g))
	assert.Equal(t, status, g.Status())
}

func TestToggleFlag(t *testing.T) {
	d := Dims{Rows: 3, Cols: 3}
	g := NewGameWithLayout(BuildLayout(d, []Position{pos(1, 1)}))

	g.ToggleFlag(pos(1, 1))
	assert.Equal(t, Flagged, g.Visibility(pos(1, 1)))
	assert.Equal(t, 1, g.Flags())

	g.ToggleFlag(pos(1, 1))
	assert.Equal(t, Hidden, g.Visibility(pos(1, 1)))
	assert.Equal(t, 0, g.Flags())

	g.Reveal(pos(0, 0))
	g.ToggleFlag(pos(0, 0))
	assert.Equal(t, Revealed, g.Visibility(pos(0, 0)), "revealed cells cannot be flagged")
}

func TestFlaggedCellIsProtected(t *testing.T) {
	d := Dims{Rows: 3, Cols: 3}
	g := NewGameWithLayout(BuildLayout(d, []Position{pos(1, 1)}))

	g.ToggleFlag(pos(1, 1))
	g.Reveal(pos(1, 1))
	assert.Equal(t, Flagged, g.Visibility(pos(1, 1)))
	assert.False(t, g.Status().Lost())

	g.ToggleFlag(pos(1, 1))
	g.Reveal(pos(1, 1))
	assert.Equal(t, Revealed, g.Visibility(pos(1, 1)))
	assert.True(t, g.Status().Lost())
}

func TestCascadeClearsFlags(t *testing.T) {
	d := Dims{Rows: 4, Cols: 4}
	g := NewGameWithLayout(BuildLayout(d, []Position{pos(3, 3)}))

	g.ToggleFlag(pos(0, 3))
	g.ToggleFlag(pos(2, 2))
	g.Reveal(pos(0, 0))

	assert.Equal(t, Revealed, g.Visibility(pos(0, 3)))
	assert.Equal(t, Revealed, g.Visibility(pos(2, 2)))
	assert.Equal(t, 0, g.Flags())
}

func TestLostGameIsLocked(t *testing.T) {
	d := Dims{Rows: 4, Cols: 4}
	g := NewGameWithLayout(BuildLayout(d, []Position{pos(0, 0), pos(3, 3)}))

	g.ToggleFlag(pos(3, 3))
	g.Reveal(pos(0, 0))
	require.Equal(t, Status{Phase: Lost, At: pos(0, 0)}, g.Status())
	before := visibilities(g)

	for _, p := range d.All() {
		g.Reveal(p)
		g.ToggleFlag(p)
	}

	assert.Equal(t, before, visibilities(g))
	assert.Equal(t, Status{Phase: Lost, At: pos(0, 0)}, g.Status())
}

func TestStartResetsState(t *testing.T) {
	d := Dims{Rows: 9, Cols: 8}
	g := NewGame(d, rand.New(rand.NewPCG(9, 10)))
	first := g.Layout()

	g.Reveal(first.Mines()[0])
	g.ToggleFlag(first.Mines()[1])
	require.True(t, g.Status().Lost())

	g.Start()

	assert.Equal(t, Status{Phase: InProgress}, g.Status())
	assert.NotSame(t, first, g.Layout())
	assert.Equal(t, MineCount(d), g.Layout().MineCount())
	for _, p := range d.All() {
		assert.Equal(t, Hidden, g.Visibility(p))
	}
}

func TestStartWithFixedLayout(t *testing.T) {
	l := BuildLayout(Dims{Rows: 3, Cols: 3}, []Position{pos(1, 1)})
	g := NewGameWithLayout(l)
	g.Reveal(pos(1, 1))

	g.Start()

	assert.Same(t, l, g.Layout())
	assert.False(t, g.Status().Lost())
	assert.Equal(t, 0, g.Revealed())
}

func TestIntentsOutsideGridPanic(t *testing.T) {
	g := NewGameWithLayout(BuildLayout(Dims{Rows: 3, Cols: 3}, nil))
	assert.Panics(t, func() { g.Reveal(pos(3, 0)) })
	assert.Panics(t, func() { g.ToggleFlag(pos(0, -1)) })
	assert.Panics(t, func() { g.Visibility(pos(-1, -1)) })
	assert.Panics(t, func() { g.Value(pos(0, 3)) })
}

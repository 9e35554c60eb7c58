package mines

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

type Visibility int8

const (
	Hidden Visibility = iota
	Flagged
	Revealed
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "Hidden"
	case Flagged:
		return "Flagged"
	case Revealed:
		return "Revealed"
	default:
		return "Visibility(?)"
	}
}

type Phase int8

const (
	InProgress Phase = iota
	Lost
)

func (p Phase) String() string {
	if p == Lost {
		return "Lost"
	}
	return "InProgress"
}

// Status is InProgress or Lost(At). At is meaningful only once lost.
type Status struct {
	Phase Phase
	At    Position
}

func (s Status) Lost() bool {
	return s.Phase == Lost
}

func (s Status) String() string {
	if s.Lost() {
		return "Lost" + s.At.String()
	}
	return "InProgress"
}

// Game is the mutable state of one minesweeper game. It is not safe for
// concurrent use.
type Game struct {
	dims       Dims
	rnd        *rand.Rand
	layout     *Layout
	visibility []Visibility
	status     Status
}

// NewGame starts a game with a random layout drawn from r. Restarts draw
// their layouts from the same generator.
func NewGame(d Dims, r *rand.Rand) *Game {
	g := &Game{dims: d, rnd: r}
	g.Start()
	return g
}

// NewGameWithLayout starts a game on a fixed layout. Start on such a game
// only resets the player state, since there is no generator to draw from.
func NewGameWithLayout(l *Layout) *Game {
	g := &Game{dims: l.Dims()}
	g.reset(l)
	return g
}

// Start discards the current game and begins a new one.
func (g *Game) Start() {
	l := g.layout
	if g.rnd != nil {
		l = BuildLayout(g.dims, GenerateMines(g.dims, g.rnd))
	}
	g.reset(l)
}

func (g *Game) reset(l *Layout) {
	g.layout = l
	g.visibility = make([]Visibility, g.dims.Size())
	g.status = Status{Phase: InProgress}
}

func (g *Game) Dims() Dims {
	return g.dims
}

func (g *Game) Layout() *Layout {
	return g.layout
}

func (g *Game) Status() Status {
	return g.status
}

// panics [AssertionError]
func (g *Game) Visibility(p Position) Visibility {
	return g.visibility[g.dims.index(p)]
}

// panics [AssertionError]
func (g *Game) Value(p Position) Value {
	return g.layout.Value(p)
}

// ToggleFlag flips p between Hidden and Flagged. Revealed cells and lost
// games are left alone.
//
// panics [AssertionError]
func (g *Game) ToggleFlag(p Position) {
	i := g.dims.index(p)
	if g.status.Lost() {
		return
	}
	switch g.visibility[i] {
	case Hidden:
		g.visibility[i] = Flagged
	case Flagged:
		g.visibility[i] = Hidden
	}
}

// Reveal opens p. Opening a mine loses the game. Opening a cell with no
// neighboring mines also opens its neighbors, repeating for every such cell
// reached. Flagged and already revealed cells are ignored, as is everything
// once the game is lost.
//
// panics [AssertionError]
func (g *Game) Reveal(p Position) {
	i := g.dims.index(p)
	if g.status.Lost() || g.visibility[i] != Hidden {
		return
	}

	if g.layout.values[i].IsMine() {
		g.status = Status{Phase: Lost, At: p}
		Log.WithFields(logrus.Fields{"at": p.String()}).Debug("mine revealed")
	}

	g.cascade(i)
}

// cascade reveals i and spreads through zero-danger cells. The visited set
// guarantees each cell is processed once even though the neighbor graph
// reaches most cells along several paths.
func (g *Game) cascade(start int) {
	visited := make([]bool, len(g.visibility))
	todo := []int{start}
	visited[start] = true

	for len(todo) > 0 {
		i := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		g.visibility[i] = Revealed
		if g.layout.values[i] != 0 {
			continue
		}
		for _, n := range g.dims.Neighbors(g.dims.position(i)) {
			j := g.dims.index(n)
			if !visited[j] {
				visited[j] = true
				todo = append(todo, j)
			}
		}
	}
}

// Revealed counts the open cells.
func (g *Game) Revealed() int {
	c := 0
	for _, v := range g.visibility {
		if v == Revealed {
			c++
		}
	}
	return c
}

// Flags counts the flagged cells.
func (g *Game) Flags() int {
	c := 0
	for _, v := range g.visibility {
		if v == Flagged {
			c++
		}
	}
	return c
}

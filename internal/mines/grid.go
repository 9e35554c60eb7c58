package mines

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellState is what the player can see of a single cell.
type CellState int8

const (
	Unknown  CellState = -2
	Flag     CellState = -1
	Exploded CellState = 64
	Bomb     CellState = 65
	/*
	 * 0 to 8 mean the cell is open and shows its danger number.
	 *
	 * Bomb is every other mine, shown once the game has been lost.
	 * Exploded is the mine the player hit.
	 */
)

func (s CellState) Open() bool {
	return 0 <= s && s <= 8
}

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "."
	case s == Flag:
		return "F"
	case s == Exploded:
		return "X"
	case s == Bomb:
		return "*"
	case s == 0:
		return " "
	case s.Open():
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Board is a row-major snapshot of what the view layer should draw.
type Board struct {
	Dims  Dims
	Cells []CellState
}

// Board captures the current player view. Once the game is lost every mine
// is shown, and the one that was hit is marked Exploded.
func (g *Game) Board() Board {
	b := Board{
		Dims:  g.dims,
		Cells: make([]CellState, len(g.visibility)),
	}
	lost := g.status.Lost()
	for i, vis := range g.visibility {
		v := g.layout.values[i]
		switch {
		case lost && v.IsMine() && g.dims.position(i) == g.status.At:
			b.Cells[i] = Exploded
		case lost && v.IsMine():
			b.Cells[i] = Bomb
		case vis == Revealed:
			b.Cells[i] = CellState(v)
		case vis == Flagged:
			b.Cells[i] = Flag
		default:
			b.Cells[i] = Unknown
		}
	}
	return b
}

// panics [AssertionError]
func (b Board) At(p Position) CellState {
	return b.Cells[b.Dims.index(p)]
}

// Rows splits the cells into one slice per row.
func (b Board) Rows() [][]CellState {
	rows := make([][]CellState, b.Dims.Rows)
	for r := range rows {
		rows[r] = b.Cells[r*b.Dims.Cols : (r+1)*b.Dims.Cols]
	}
	return rows
}

// [Board] implements [json.Marshaler]
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Rows())
}

func (b Board) String() string {
	var sb strings.Builder
	fmt.Fprint(&sb, "   ")
	for c := range b.Dims.Cols {
		fmt.Fprintf(&sb, "%d ", c%10)
	}
	fmt.Fprint(&sb, "\n")
	for r, row := range b.Rows() {
		fmt.Fprintf(&sb, "%2d ", r)
		for _, s := range row {
			fmt.Fprint(&sb, s.String()+" ")
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]CellState
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	b.Dims = Dims{Rows: len(rows)}
	b.Cells = b.Cells[:0]
	for r, row := range rows {
		if r == 0 {
			b.Dims.Cols = len(row)
		} else if len(row) != b.Dims.Cols {
			return fmt.Errorf("board row %d has %d cells, want %d", r, len(row), b.Dims.Cols)
		}
		b.Cells = append(b.Cells, row...)
	}
	return nil
}

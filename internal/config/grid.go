package config

import (
	"fmt"

	"github.com/pravdin97/minesweeper/internal/mines"
)

const (
	DefaultRows = 9
	DefaultCols = 8
)

// NewGrid reads the board size. It is fixed for the lifetime of the process.
func NewGrid() (mines.Dims, error) {
	rows, err := intEnv("MINES_ROWS", DefaultRows)
	if err != nil {
		return mines.Dims{}, err
	}
	cols, err := intEnv("MINES_COLS", DefaultCols)
	if err != nil {
		return mines.Dims{}, err
	}
	if rows <= 0 || cols <= 0 {
		return mines.Dims{}, fmt.Errorf("grid must be at least 1x1, got %dx%d", rows, cols)
	}
	return mines.Dims{Rows: rows, Cols: cols}, nil
}

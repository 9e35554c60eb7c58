// Package commands parses the line protocol clients use to drive a game:
//
//	g          get the current state
//	o ROW COL  reveal a cell
//	f ROW COL  toggle a flag
//	n          start a new game
package commands

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/pravdin97/minesweeper/internal/mines"
)

type Kind uint8

const (
	Get Kind = iota + 1
	Open
	Flag
	Restart
)

func (k Kind) String() string {
	switch k {
	case Get:
		return "g"
	case Open:
		return "o"
	case Flag:
		return "f"
	case Restart:
		return "n"
	default:
		return "?"
	}
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgs        = errors.New("invalid number of arguments")
	ErrOutOfGrid      = errors.New("invalid cell coordinates")
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"n": 0,
}

var kinds = map[string]Kind{
	"g": Get,
	"o": Open,
	"f": Flag,
	"n": Restart,
}

type Command struct {
	Kind     Kind
	Position mines.Position
}

func (c Command) String() string {
	if c.Kind == Open || c.Kind == Flag {
		return fmt.Sprintf("%s %d %d", c.Kind, c.Position.Row, c.Position.Col)
	}
	return c.Kind.String()
}

func parseRowCol(twoStrings []string) (p mines.Position, err error) {
	if p.Row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("row must be an int")
		return
	}
	if p.Col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("column must be an int")
		return
	}
	return
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrUnknownCommand
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf("%w for %q", ErrBadArgs, parts[0])
	}
	c := Command{Kind: kinds[parts[0]]}
	if nargs == 2 {
		p, err := parseRowCol(parts[1:])
		if err != nil {
			return Command{}, err
		}
		c.Position = p
	}
	return c, nil
}

// ParseAll parses one command per non-blank line.
func ParseAll(text string) ([]Command, error) {
	var cmds []Command
	for i, line := range byLine(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

func byLine(s string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, "\n")
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

// Validate checks the command can be applied to a grid of size d.
func (c Command) Validate(d mines.Dims) error {
	if c.Kind < Get || c.Kind > Restart {
		return fmt.Errorf("%w: kind %d", ErrUnknownCommand, c.Kind)
	}
	if (c.Kind == Open || c.Kind == Flag) && !d.Contains(c.Position) {
		return fmt.Errorf("%w %s", ErrOutOfGrid, c.Position)
	}
	return nil
}

// Execute applies c to g.
func Execute(g *mines.Game, c Command) error {
	if err := c.Validate(g.Dims()); err != nil {
		return err
	}
	switch c.Kind {
	case Get:
	case Open:
		g.Reveal(c.Position)
	case Flag:
		g.ToggleFlag(c.Position)
	case Restart:
		g.Start()
	default:
		return ErrUnknownCommand
	}
	return nil
}

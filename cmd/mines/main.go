// Command mines plays a game in the terminal. It reads one command per line
// from stdin:
//
//	o ROW COL  reveal a cell
//	f ROW COL  toggle a flag
//	n          start a new game
//	g          print the board
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pravdin97/minesweeper/internal/commands"
	"github.com/pravdin97/minesweeper/internal/config"
	"github.com/pravdin97/minesweeper/internal/mines"
)

var (
	log = logrus.New()

	seed  string
	debug bool
)

func init() {
	flag.StringVar(&seed, "seed", "", "replay the layouts of a seed")
	flag.BoolVar(&debug, "debug", false, "log engine traces")
}

func printState(w io.Writer, g *mines.Game) {
	fmt.Fprint(w, g.Board().String())
	fmt.Fprintf(w, "status: %s, flags: %d/%d\n",
		g.Status(), g.Flags(), g.Layout().MineCount())
}

func play(in io.Reader, out io.Writer, g *mines.Game) error {
	printState(out, g)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		c, err := commands.Parse(line)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if err := commands.Execute(g, c); err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		printState(out, g)
	}
	return scanner.Err()
}

func main() {
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	mines.Log = log

	dims, err := config.NewGrid()
	if err != nil {
		log.Fatal("unable to read grid config: ", err)
	}

	if seed == "" {
		seed = mines.NewSeed(mines.NewRand())
	}
	log.Debugf("seed %s", seed)

	g := mines.NewGame(dims, mines.RandFromSeed(seed))
	if err := play(os.Stdin, os.Stdout, g); err != nil {
		log.Fatal(err)
	}
}

package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Todo             CellState = -10
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * Each item in the `PlayerGrid' array is one of the following values:
	 *
	 * 	- 0 to 8 mean the square is open and has a surrounding mine
	 * 	  count.
	 *
	 *  - -1 means the square is marked as a mine.
	 *
	 *  - -2 means the square is unknown.
	 *
	 * 	- 64 means the square is a correctly flagged mine after the game
	 * 	  ended.
	 *
	 * 	- 65 means the square had a mine revealed and this was the
	 * 	  one the player hit.
	 *
	 * 	- 66 means the square has a crossed-out mine because the
	 * 	  player had incorrectly marked it.
	 *
	 * 	- 67 means the square is a mine nobody flagged.
	 */
)

func (s CellState) Open() bool {
	return 0 <= s && s <= 8
}

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "."
	case s == Flagged:
		return "*"
	case s.Open():
		return strconv.Itoa(int(s))
	case s == ExplodedMine:
		return "X"
	case s == CorrectlyFlagged, s == UnflaggedMine:
		return "#"
	case s == FalselyFlagged:
		return "/"
	default:
		return "!"
	}
}

type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

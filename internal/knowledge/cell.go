package knowledge

import (
	"cmp"
	"fmt"
	"slices"
)

// Cell is a board coordinate.
type Cell struct {
	Row, Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

func (c Cell) InBounds(height, width int) bool {
	return 0 <= c.Row && c.Row < height && 0 <= c.Col && c.Col < width
}

// Neighbors returns the in-bounds cells surrounding c in row-major order.
func (c Cell) Neighbors(height, width int) []Cell {
	ret := make([]Cell, 0, 8)
	for dr := -1; dr <= +1; dr++ {
		for dc := -1; dc <= +1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{c.Row + dr, c.Col + dc}
			if n.InBounds(height, width) {
				ret = append(ret, n)
			}
		}
	}
	return ret
}

func compareCells(a, b Cell) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}

// Less orders cells row-major.
func (c Cell) Less(other Cell) bool {
	return compareCells(c, other) < 0
}

type cellSet map[Cell]struct{}

func (s cellSet) has(c Cell) bool {
	_, ok := s[c]
	return ok
}

func (s cellSet) add(c Cell) bool {
	if s.has(c) {
		return false
	}
	s[c] = struct{}{}
	return true
}

func (s cellSet) sorted() []Cell {
	ret := make([]Cell, 0, len(s))
	for c := range s {
		ret = append(ret, c)
	}
	slices.SortFunc(ret, compareCells)
	return ret
}

func (s cellSet) clone() cellSet {
	ret := make(cellSet, len(s))
	for c := range s {
		ret[c] = struct{}{}
	}
	return ret
}

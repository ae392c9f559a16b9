package knowledge

import (
	"strconv"
	"strings"
)

/*
Sentence is a logical statement about the board: exactly count of the
cells in the set are mines.

A sentence only ever shrinks. Cells leave it once they are known to be
safe or mined, so 0 <= count <= len(cells) holds at all times.
*/
type Sentence struct {
	cells cellSet
	count int
}

func NewSentence(cells []Cell, count int) (*Sentence, error) {
	s := &Sentence{cells: make(cellSet, len(cells)), count: count}
	for _, c := range cells {
		if !s.cells.add(c) {
			return nil, invariant("new sentence", "duplicate cell %s", c)
		}
	}
	if count < 0 || count > len(s.cells) {
		return nil, invariant("new sentence",
			"count %d out of range for %d cells", count, len(s.cells))
	}
	return s, nil
}

// Cells returns the sentence cells in row-major order.
func (s *Sentence) Cells() []Cell {
	return s.cells.sorted()
}

func (s *Sentence) Count() int {
	return s.count
}

func (s *Sentence) Len() int {
	return len(s.cells)
}

// Empty sentences carry no information.
func (s *Sentence) Empty() bool {
	return len(s.cells) == 0
}

func (s *Sentence) Contains(c Cell) bool {
	return s.cells.has(c)
}

// KnownMines returns every cell of the sentence when all of them must be
// mines, and nothing otherwise.
func (s *Sentence) KnownMines() []Cell {
	if s.count == len(s.cells) {
		return s.cells.sorted()
	}
	return nil
}

// KnownSafes returns every cell of the sentence when none of them can be a
// mine, and nothing otherwise.
func (s *Sentence) KnownSafes() []Cell {
	if s.count == 0 {
		return s.cells.sorted()
	}
	return nil
}

// MarkMine removes a cell known to be a mine, decrementing the count.
func (s *Sentence) MarkMine(c Cell) error {
	if !s.cells.has(c) {
		return nil
	}
	if s.count == 0 {
		return invariant("mark mine", "%s is a mine but %s holds none", c, s)
	}
	delete(s.cells, c)
	s.count--
	return nil
}

// MarkSafe removes a cell known to be safe.
func (s *Sentence) MarkSafe(c Cell) error {
	if !s.cells.has(c) {
		return nil
	}
	if s.count == len(s.cells) {
		return invariant("mark safe", "%s is safe but %s is all mines", c, s)
	}
	delete(s.cells, c)
	return nil
}

// SubsetOf reports whether every cell of s is in other.
func (s *Sentence) SubsetOf(other *Sentence) bool {
	if len(s.cells) > len(other.cells) {
		return false
	}
	for c := range s.cells {
		if !other.cells.has(c) {
			return false
		}
	}
	return true
}

func (s *Sentence) Equal(other *Sentence) bool {
	return s.count == other.count &&
		len(s.cells) == len(other.cells) &&
		s.SubsetOf(other)
}

// Key identifies the sentence structurally: two sentences with the same
// cells and count share a key.
func (s *Sentence) Key() string {
	var b strings.Builder
	for _, c := range s.cells.sorted() {
		b.WriteString(strconv.Itoa(c.Row))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(c.Col))
		b.WriteByte(';')
	}
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(s.count))
	return b.String()
}

// String implements [fmt.Stringer]
func (s *Sentence) String() string {
	cells := s.cells.sorted()
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	return "{" + strings.Join(parts, ", ") + "} = " + strconv.Itoa(s.count)
}

func (s *Sentence) clone() *Sentence {
	return &Sentence{cells: s.cells.clone(), count: s.count}
}

// difference derives the sentence for the cells of s not in sub. The caller
// guarantees sub is a subset of s.
func (s *Sentence) difference(sub *Sentence) (*Sentence, error) {
	cells := make(cellSet, len(s.cells)-len(sub.cells))
	for c := range s.cells {
		if !sub.cells.has(c) {
			cells[c] = struct{}{}
		}
	}
	count := s.count - sub.count
	if count < 0 || count > len(cells) {
		return nil, invariant("resolve",
			"%s cannot contain %s", s, sub)
	}
	return &Sentence{cells: cells, count: count}, nil
}

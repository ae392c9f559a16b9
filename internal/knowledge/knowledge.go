package knowledge

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Base is the knowledge an agent holds about one game: the cells it has
// observed, the cells proven safe or mined, and the sentences it can still
// reason with.
//
// A Base is not safe for concurrent use.
type Base struct {
	height, width int
	maxIterations int

	movesMade cellSet
	safes     cellSet
	mines     cellSet
	sentences []*Sentence

	stats Stats
}

// Stats describes the work done by the most recent closure.
type Stats struct {
	Iterations int `json:"iterations"`
	Derived    int `json:"derived"`
	Sentences  int `json:"sentences"`
}

type Option func(*Base)

// WithMaxIterations caps the number of closure iterations. Exceeding the
// cap is reported as an [InvariantError].
func WithMaxIterations(n int) Option {
	return func(b *Base) {
		b.maxIterations = n
	}
}

func NewBase(height, width int, opts ...Option) (*Base, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board dimensions %dx%d", height, width)
	}
	b := &Base{
		height:    height,
		width:     width,
		movesMade: make(cellSet),
		safes:     make(cellSet),
		mines:     make(cellSet),
	}
	b.maxIterations = max(64, height*width*height*width)
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Base) Height() int { return b.height }
func (b *Base) Width() int  { return b.width }

func (b *Base) checkCell(c Cell) error {
	if !c.InBounds(b.height, b.width) {
		return fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, c, b.height, b.width)
	}
	return nil
}

/*
AddObservation records that c is safe and that count of its neighbours
are mines, then runs the closure.

Re-observing a cell is rejected with [ErrAlreadyMoved]. The call either
succeeds or leaves the base exactly as it was.
*/
func (b *Base) AddObservation(c Cell, count int) error {
	if err := b.checkCell(c); err != nil {
		return err
	}
	if count < 0 || count > 8 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if b.movesMade.has(c) {
		return fmt.Errorf("%w: %s", ErrAlreadyMoved, c)
	}
	if b.mines.has(c) {
		return invariant("add observation", "%s is a known mine", c)
	}

	next := b.clone()
	if err := next.observe(c, count); err != nil {
		return err
	}
	*b = *next
	return nil
}

func (b *Base) observe(c Cell, count int) error {
	b.movesMade.add(c)
	if err := b.markSafe(c); err != nil {
		return err
	}

	/*
	 * Collect the neighbours we know nothing about. Known mines are
	 * already accounted for, so they come off the count instead.
	 */
	var cells []Cell
	for _, n := range c.Neighbors(b.height, b.width) {
		switch {
		case b.movesMade.has(n), b.safes.has(n):
		case b.mines.has(n):
			count--
		default:
			cells = append(cells, n)
		}
	}

	s, err := NewSentence(cells, count)
	if err != nil {
		return &InvariantError{
			Op:  "add observation",
			Msg: fmt.Sprintf("%s does not fit known mines", c),
			Err: err,
		}
	}
	b.sentences = append(b.sentences, s)

	Log.WithFields(logrus.Fields{
		"cell":     c.String(),
		"sentence": s.String(),
	}).Debug("observation")

	return b.closure()
}

// MarkMine records c as a mine in every sentence and runs the closure.
func (b *Base) MarkMine(c Cell) error {
	if err := b.checkCell(c); err != nil {
		return err
	}
	next := b.clone()
	if err := next.markMine(c); err != nil {
		return err
	}
	if err := next.closure(); err != nil {
		return err
	}
	*b = *next
	return nil
}

// MarkSafe records c as safe in every sentence and runs the closure.
func (b *Base) MarkSafe(c Cell) error {
	if err := b.checkCell(c); err != nil {
		return err
	}
	next := b.clone()
	if err := next.markSafe(c); err != nil {
		return err
	}
	if err := next.closure(); err != nil {
		return err
	}
	*b = *next
	return nil
}

func (b *Base) markMine(c Cell) error {
	if b.safes.has(c) {
		return invariant("mark mine", "%s is known to be safe", c)
	}
	b.mines.add(c)
	for _, s := range b.sentences {
		if err := s.MarkMine(c); err != nil {
			return err
		}
	}
	return nil
}

func (b *Base) markSafe(c Cell) error {
	if b.mines.has(c) {
		return invariant("mark safe", "%s is known to be a mine", c)
	}
	b.safes.add(c)
	for _, s := range b.sentences {
		if err := s.MarkSafe(c); err != nil {
			return err
		}
	}
	return nil
}

func (b *Base) Moved(c Cell) bool  { return b.movesMade.has(c) }
func (b *Base) IsSafe(c Cell) bool { return b.safes.has(c) }
func (b *Base) IsMine(c Cell) bool { return b.mines.has(c) }

func (b *Base) MovesMade() []Cell { return b.movesMade.sorted() }
func (b *Base) Safes() []Cell     { return b.safes.sorted() }
func (b *Base) Mines() []Cell     { return b.mines.sorted() }

// Sentences returns copies of the held sentences in insertion order.
func (b *Base) Sentences() []*Sentence {
	ret := make([]*Sentence, len(b.sentences))
	for i, s := range b.sentences {
		ret[i] = s.clone()
	}
	return ret
}

func (b *Base) Stats() Stats {
	return b.stats
}

func (b *Base) clone() *Base {
	next := *b
	next.movesMade = b.movesMade.clone()
	next.safes = b.safes.clone()
	next.mines = b.mines.clone()
	next.sentences = make([]*Sentence, len(b.sentences))
	for i, s := range b.sentences {
		next.sentences[i] = s.clone()
	}
	return &next
}

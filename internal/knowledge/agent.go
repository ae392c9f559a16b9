package knowledge

import (
	"math/rand/v2"
)

type MoveKind int8

const (
	KindSafe MoveKind = iota
	KindRandom
)

func (k MoveKind) String() string {
	switch k {
	case KindSafe:
		return "safe"
	case KindRandom:
		return "random"
	default:
		return "unknown"
	}
}

type Move struct {
	Cell
	Kind MoveKind
}

// Agent chooses moves from what its knowledge base has proven.
type Agent struct {
	kb  *Base
	rnd *rand.Rand
}

func NewAgent(height, width int, r *rand.Rand, opts ...Option) (*Agent, error) {
	kb, err := NewBase(height, width, opts...)
	if err != nil {
		return nil, err
	}
	return &Agent{kb: kb, rnd: r}, nil
}

// Knowledge exposes the agent's knowledge base. Callers must not mutate it
// while the agent is in use elsewhere.
func (a *Agent) Knowledge() *Base {
	return a.kb
}

func (a *Agent) AddObservation(c Cell, count int) error {
	return a.kb.AddObservation(c, count)
}

func (a *Agent) MarkMine(c Cell) error {
	return a.kb.MarkMine(c)
}

func (a *Agent) MarkSafe(c Cell) error {
	return a.kb.MarkSafe(c)
}

// SafeMove returns the first proven-safe cell, in row-major order, that has
// not been played yet.
func (a *Agent) SafeMove() (Cell, bool) {
	for _, c := range a.kb.safes.sorted() {
		if !a.kb.movesMade.has(c) {
			return c, true
		}
	}
	return Cell{}, false
}

// RandomMove picks uniformly among the cells that were neither played nor
// proven to be mines.
func (a *Agent) RandomMove() (Cell, bool) {
	candidates := a.candidates()
	switch len(candidates) {
	case 0:
		return Cell{}, false
	case 1:
		return candidates[0], true
	default:
		return candidates[a.rnd.IntN(len(candidates))], true
	}
}

func (a *Agent) candidates() []Cell {
	var ret []Cell
	for row := range a.kb.height {
		for col := range a.kb.width {
			c := Cell{row, col}
			if !a.kb.movesMade.has(c) && !a.kb.mines.has(c) {
				ret = append(ret, c)
			}
		}
	}
	return ret
}

// NextMove prefers a proven-safe cell and falls back to a random one.
func (a *Agent) NextMove() (Move, bool) {
	if c, ok := a.SafeMove(); ok {
		return Move{c, KindSafe}, true
	}
	if c, ok := a.RandomMove(); ok {
		return Move{c, KindRandom}, true
	}
	return Move{}, false
}

package knowledge

import (
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	m.Run()
}

// layout is a mine field used as ground truth by tests.
type layout struct {
	height, width int
	mines         map[Cell]bool
}

func randomLayout(r *rand.Rand, height, width, n int) layout {
	l := layout{height, width, make(map[Cell]bool, n)}
	for len(l.mines) < n {
		l.mines[Cell{r.IntN(height), r.IntN(width)}] = true
	}
	return l
}

func (l layout) count(c Cell) int {
	n := 0
	for _, nb := range c.Neighbors(l.height, l.width) {
		if l.mines[nb] {
			n++
		}
	}
	return n
}

func checkInvariants(t *testing.T, b *Base, truth *layout) {
	t.Helper()
	for c := range b.safes {
		require.False(t, b.mines.has(c), "%s both safe and mined", c)
		if truth != nil {
			require.False(t, truth.mines[c], "%s deduced safe but is a mine", c)
		}
	}
	if truth != nil {
		for c := range b.mines {
			require.True(t, truth.mines[c], "%s deduced mine but is safe", c)
		}
	}
	for c := range b.movesMade {
		require.True(t, b.safes.has(c), "played %s not in safes", c)
	}
	for _, s := range b.sentences {
		require.GreaterOrEqual(t, s.count, 0, "sentence %s", s)
		require.LessOrEqual(t, s.count, s.Len(), "sentence %s", s)
		for c := range s.cells {
			require.False(t, b.safes.has(c), "known safe %s left in %s", c, s)
			require.False(t, b.mines.has(c), "known mine %s left in %s", c, s)
		}
	}
}

func TestNewBase(t *testing.T) {
	_, err := NewBase(0, 3)
	assert.Error(t, err)
	_, err = NewBase(3, -1)
	assert.Error(t, err)

	b, err := NewBase(3, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Height())
	assert.Equal(t, 4, b.Width())
	assert.Empty(t, b.Safes())
	assert.Empty(t, b.Mines())
	assert.Empty(t, b.MovesMade())
}

func TestZeroObservationClearsNeighbours(t *testing.T) {
	b, err := NewBase(3, 3)
	require.NoError(t, err)

	require.NoError(t, b.AddObservation(Cell{1, 1}, 0))

	assert.Len(t, b.Safes(), 9)
	assert.Empty(t, b.Mines())
	assert.Equal(t, []Cell{{1, 1}}, b.MovesMade())
	assert.Empty(t, b.Sentences(), "inert sentences are pruned")
	checkInvariants(t, b, nil)

	// Every neighbour of the corner is already known.
	require.NoError(t, b.AddObservation(Cell{0, 0}, 0))
	assert.Len(t, b.Safes(), 9)
	assert.Empty(t, b.Mines())
	checkInvariants(t, b, nil)
}

func TestFullCountMarksMines(t *testing.T) {
	b, err := NewBase(2, 2)
	require.NoError(t, err)

	require.NoError(t, b.AddObservation(Cell{0, 0}, 3))
	assert.Equal(t, []Cell{{0, 1}, {1, 0}, {1, 1}}, b.Mines())
	assert.Equal(t, []Cell{{0, 0}}, b.Safes())
	checkInvariants(t, b, nil)
}

func TestSubsetRule(t *testing.T) {
	c1, c2, c3 := Cell{0, 0}, Cell{0, 1}, Cell{0, 2}
	b, err := NewBase(3, 3)
	require.NoError(t, err)
	b.sentences = []*Sentence{
		mustSentence(t, 1, c1, c2),
		mustSentence(t, 2, c1, c2, c3),
	}

	require.NoError(t, b.Close())

	assert.True(t, b.IsMine(c3))
	assert.False(t, b.IsMine(c1))
	assert.False(t, b.IsSafe(c1))
	assert.False(t, b.IsMine(c2))
	assert.False(t, b.IsSafe(c2))
	checkInvariants(t, b, nil)
}

func TestSubsetRuleDerivesSentence(t *testing.T) {
	c1, c2, c3, c4 := Cell{0, 0}, Cell{0, 1}, Cell{0, 2}, Cell{1, 2}
	b, err := NewBase(3, 3)
	require.NoError(t, err)
	b.sentences = []*Sentence{
		mustSentence(t, 1, c1, c2),
		mustSentence(t, 2, c1, c2, c3, c4),
	}

	require.NoError(t, b.Close())

	sentences := b.Sentences()
	require.Len(t, sentences, 3)
	assert.Equal(t, []Cell{c3, c4}, sentences[2].Cells())
	assert.Equal(t, 1, sentences[2].Count())
	assert.Equal(t, 1, b.Stats().Derived)
}

func TestEqualSetsWithDifferentCounts(t *testing.T) {
	c1, c2 := Cell{0, 0}, Cell{0, 1}
	b, err := NewBase(3, 3)
	require.NoError(t, err)
	b.sentences = []*Sentence{
		mustSentence(t, 1, c1, c2),
		mustSentence(t, 1, c2, c1),
	}
	require.NoError(t, b.Close())
	assert.Len(t, b.Sentences(), 2, "equal sentences derive nothing")

	b.sentences = append(b.sentences, mustSentence(t, 2, c1, c2))
	assert.ErrorIs(t, b.Close(), ErrContradiction)
}

func TestClosureIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	truth := randomLayout(r, 6, 6, 6)
	b, err := NewBase(6, 6)
	require.NoError(t, err)

	for _, c := range []Cell{{0, 0}, {5, 5}, {2, 3}, {4, 1}} {
		if truth.mines[c] || b.Moved(c) {
			continue
		}
		require.NoError(t, b.AddObservation(c, truth.count(c)))
	}

	mines, safes := b.Mines(), b.Safes()
	sentences := b.Sentences()

	require.NoError(t, b.Close())

	assert.Equal(t, mines, b.Mines())
	assert.Equal(t, safes, b.Safes())
	after := b.Sentences()
	require.Equal(t, len(sentences), len(after))
	for i := range sentences {
		assert.True(t, sentences[i].Equal(after[i]), "%s != %s", sentences[i], after[i])
	}
	assert.Equal(t, 1, b.Stats().Iterations)
}

func TestObservationValidation(t *testing.T) {
	b, err := NewBase(3, 3)
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddObservation(Cell{3, 0}, 0), ErrOutOfBounds)
	assert.ErrorIs(t, b.AddObservation(Cell{0, -1}, 0), ErrOutOfBounds)
	assert.ErrorIs(t, b.AddObservation(Cell{0, 0}, 9), ErrInvalidCount)
	assert.ErrorIs(t, b.AddObservation(Cell{0, 0}, -1), ErrInvalidCount)

	require.NoError(t, b.AddObservation(Cell{0, 0}, 1))
	assert.ErrorIs(t, b.AddObservation(Cell{0, 0}, 1), ErrAlreadyMoved)
}

func TestInconsistentObservationLeavesBaseUnchanged(t *testing.T) {
	b, err := NewBase(3, 3)
	require.NoError(t, err)
	require.NoError(t, b.AddObservation(Cell{1, 1}, 0))

	before := b.clone()

	// All neighbours of the corner are proven safe, so it cannot see a mine.
	err = b.AddObservation(Cell{0, 0}, 1)
	var ie *InvariantError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "add observation", ie.Op)

	assert.Equal(t, before.MovesMade(), b.MovesMade())
	assert.Equal(t, before.Safes(), b.Safes())
	assert.Equal(t, before.Mines(), b.Mines())
	assert.False(t, b.Moved(Cell{0, 0}))

	// The session carries on.
	require.NoError(t, b.AddObservation(Cell{0, 0}, 0))
}

func TestObservingKnownMine(t *testing.T) {
	b, err := NewBase(2, 2)
	require.NoError(t, err)
	require.NoError(t, b.AddObservation(Cell{0, 0}, 3))
	assert.ErrorIs(t, b.AddObservation(Cell{1, 1}, 1), ErrContradiction)
}

func TestMarkMineAndSafe(t *testing.T) {
	b, err := NewBase(1, 3)
	require.NoError(t, err)

	// {(0,0), (0,2)} = 1
	require.NoError(t, b.AddObservation(Cell{0, 1}, 1))
	require.NoError(t, b.MarkMine(Cell{0, 0}))
	assert.Equal(t, []Cell{{0, 0}}, b.Mines())
	assert.True(t, b.IsSafe(Cell{0, 2}))

	assert.ErrorIs(t, b.MarkSafe(Cell{0, 0}), ErrContradiction)
	assert.ErrorIs(t, b.MarkMine(Cell{0, 2}), ErrContradiction)
	assert.ErrorIs(t, b.MarkMine(Cell{4, 4}), ErrOutOfBounds)
	checkInvariants(t, b, nil)
}

func TestIterationLimit(t *testing.T) {
	b, err := NewBase(3, 3, WithMaxIterations(1))
	require.NoError(t, err)

	err = b.AddObservation(Cell{1, 1}, 0)
	assert.ErrorIs(t, err, ErrIterationLimit)
	assert.ErrorIs(t, err, ErrContradiction)
	assert.Empty(t, b.MovesMade())
	assert.Empty(t, b.Safes())
}

func TestClosureTerminatesOn4x4(t *testing.T) {
	for seed := range uint64(20) {
		r := rand.New(rand.NewPCG(seed, 4))
		truth := randomLayout(r, 4, 4, 3)
		b, err := NewBase(4, 4)
		require.NoError(t, err)

		for row := range 4 {
			for col := range 4 {
				c := Cell{row, col}
				if truth.mines[c] || b.Moved(c) {
					continue
				}
				require.NoError(t, b.AddObservation(c, truth.count(c)))
				assert.LessOrEqual(t, b.Stats().Iterations, 16*16)
				checkInvariants(t, b, &truth)
			}
		}
		assert.Len(t, b.Mines(), 3, "seed %d", seed)
		assert.Len(t, b.Safes(), 13, "seed %d", seed)
	}
}

func TestDeductionsAreSound(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	tests := []struct {
		name                 string
		height, width, mines int
	}{
		{"5x5(4)", 5, 5, 4},
		{"8x8(8)", 8, 8, 8},
		{"9x9(10)", 9, 9, 10},
		{"16x16(40)", 16, 16, 40},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for seed := range uint64(5) {
				r := rand.New(rand.NewPCG(seed, 7))
				truth := randomLayout(r, test.height, test.width, test.mines)
				agent, err := NewAgent(test.height, test.width, r)
				require.NoError(t, err)

				for {
					move, ok := agent.NextMove()
					if !ok {
						break
					}
					require.False(t, agent.kb.Moved(move.Cell))
					if truth.mines[move.Cell] {
						require.Equal(t, KindRandom, move.Kind, "safe move %s hit a mine", move.Cell)
						break
					}
					require.NoError(t, agent.AddObservation(move.Cell, truth.count(move.Cell)))
					checkInvariants(t, agent.kb, &truth)
				}
			}
		})
	}
}

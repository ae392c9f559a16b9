package knowledge

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T, height, width int) *Agent {
	t.Helper()
	a, err := NewAgent(height, width, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return a
}

func TestSafeMoveOrder(t *testing.T) {
	a := newTestAgent(t, 3, 3)

	_, ok := a.SafeMove()
	assert.False(t, ok)

	require.NoError(t, a.AddObservation(Cell{1, 1}, 0))

	var played []Cell
	for {
		c, ok := a.SafeMove()
		if !ok {
			break
		}
		require.False(t, a.Knowledge().Moved(c), "%s proposed twice", c)
		played = append(played, c)
		require.NoError(t, a.AddObservation(c, 0))
	}

	assert.Equal(t, []Cell{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}, played)
	assert.Len(t, a.Knowledge().MovesMade(), 9)
}

func TestSafeMoveDoesNotMutate(t *testing.T) {
	a := newTestAgent(t, 3, 3)
	require.NoError(t, a.AddObservation(Cell{1, 1}, 0))

	first, ok := a.SafeMove()
	require.True(t, ok)
	second, ok := a.SafeMove()
	require.True(t, ok)
	assert.Equal(t, first, second)
	assert.Equal(t, []Cell{{1, 1}}, a.Knowledge().MovesMade())
}

func TestRandomMoveSingleCandidate(t *testing.T) {
	a := newTestAgent(t, 1, 3)

	// (0,1) must be the mine, leaving (0,2) as the only unplayed candidate.
	require.NoError(t, a.AddObservation(Cell{0, 0}, 1))
	require.Equal(t, []Cell{{0, 1}}, a.Knowledge().Mines())

	for range 100 {
		c, ok := a.RandomMove()
		require.True(t, ok)
		require.Equal(t, Cell{0, 2}, c)
	}
}

func TestRandomMoveAvoidsPlayedAndMines(t *testing.T) {
	a := newTestAgent(t, 4, 4)
	require.NoError(t, a.AddObservation(Cell{0, 0}, 3))

	seen := make(map[Cell]bool)
	for range 500 {
		c, ok := a.RandomMove()
		require.True(t, ok)
		require.True(t, c.InBounds(4, 4))
		require.False(t, a.Knowledge().Moved(c))
		require.False(t, a.Knowledge().IsMine(c))
		seen[c] = true
	}
	assert.Len(t, seen, 16-1-3, "every candidate is reachable")
}

func TestExhaustedMoveSpace(t *testing.T) {
	a := newTestAgent(t, 2, 2)
	require.NoError(t, a.AddObservation(Cell{0, 0}, 3))

	_, ok := a.SafeMove()
	assert.False(t, ok)
	_, ok = a.RandomMove()
	assert.False(t, ok)
	_, ok = a.NextMove()
	assert.False(t, ok)
}

func TestNextMovePrefersSafe(t *testing.T) {
	a := newTestAgent(t, 3, 3)

	move, ok := a.NextMove()
	require.True(t, ok)
	assert.Equal(t, KindRandom, move.Kind)

	require.NoError(t, a.AddObservation(Cell{1, 1}, 0))
	move, ok = a.NextMove()
	require.True(t, ok)
	assert.Equal(t, KindSafe, move.Kind)
	assert.Equal(t, Cell{0, 0}, move.Cell)
	assert.Equal(t, "safe", move.Kind.String())
}

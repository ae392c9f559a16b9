package knowledge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSentence(t *testing.T, count int, cells ...Cell) *Sentence {
	t.Helper()
	s, err := NewSentence(cells, count)
	require.NoError(t, err)
	return s
}

func TestNewSentenceValidation(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
		count int
	}{
		{"negative count", []Cell{{0, 0}}, -1},
		{"count above size", []Cell{{0, 0}, {0, 1}}, 3},
		{"empty with mines", nil, 1},
		{"duplicate cell", []Cell{{0, 0}, {0, 0}}, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewSentence(test.cells, test.count)
			var ie *InvariantError
			require.True(t, errors.As(err, &ie), "want InvariantError, have %v", err)
			assert.ErrorIs(t, err, ErrContradiction)
		})
	}
}

func TestKnownMinesAndSafes(t *testing.T) {
	a, b, c := Cell{0, 0}, Cell{0, 1}, Cell{1, 0}

	allMines := mustSentence(t, 3, c, a, b)
	assert.Equal(t, []Cell{a, b, c}, allMines.KnownMines())
	assert.Empty(t, allMines.KnownSafes())

	allSafe := mustSentence(t, 0, b, a)
	assert.Equal(t, []Cell{a, b}, allSafe.KnownSafes())
	assert.Empty(t, allSafe.KnownMines())

	undecided := mustSentence(t, 1, a, b)
	assert.Empty(t, undecided.KnownMines())
	assert.Empty(t, undecided.KnownSafes())

	empty := mustSentence(t, 0)
	assert.Empty(t, empty.KnownMines())
	assert.Empty(t, empty.KnownSafes())
	assert.True(t, empty.Empty())
}

func TestMarkMine(t *testing.T) {
	a, b, c := Cell{0, 0}, Cell{0, 1}, Cell{1, 0}
	s := mustSentence(t, 1, a, b)

	require.NoError(t, s.MarkMine(c))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Count())

	require.NoError(t, s.MarkMine(a))
	assert.Equal(t, []Cell{b}, s.Cells())
	assert.Equal(t, 0, s.Count())

	err := s.MarkMine(b)
	assert.ErrorIs(t, err, ErrContradiction)
	assert.Equal(t, []Cell{b}, s.Cells(), "failed mark must not change the sentence")
	assert.Equal(t, 0, s.Count())
}

func TestMarkSafe(t *testing.T) {
	a, b := Cell{0, 0}, Cell{0, 1}
	s := mustSentence(t, 1, a, b)

	require.NoError(t, s.MarkSafe(Cell{5, 5}))
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.MarkSafe(a))
	assert.Equal(t, []Cell{b}, s.Cells())
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, []Cell{b}, s.KnownMines())

	assert.ErrorIs(t, s.MarkSafe(b), ErrContradiction)
	assert.Equal(t, 1, s.Len())
}

func TestSentenceSetAlgebra(t *testing.T) {
	a, b, c := Cell{0, 0}, Cell{0, 1}, Cell{0, 2}
	small := mustSentence(t, 1, a, b)
	big := mustSentence(t, 2, c, b, a)

	assert.True(t, small.SubsetOf(big))
	assert.False(t, big.SubsetOf(small))
	assert.True(t, small.SubsetOf(small))
	assert.True(t, big.Contains(c))
	assert.False(t, small.Contains(c))

	d, err := big.difference(small)
	require.NoError(t, err)
	assert.Equal(t, []Cell{c}, d.Cells())
	assert.Equal(t, 1, d.Count())

	tooMany := mustSentence(t, 2, a, b)
	_, err = mustSentence(t, 0, a, b, c).difference(tooMany)
	assert.ErrorIs(t, err, ErrContradiction)
}

func TestSentenceIdentity(t *testing.T) {
	a, b := Cell{0, 0}, Cell{1, 2}
	s1 := mustSentence(t, 1, a, b)
	s2 := mustSentence(t, 1, b, a)
	s3 := mustSentence(t, 2, a, b)

	assert.True(t, s1.Equal(s2))
	assert.Equal(t, s1.Key(), s2.Key())
	assert.False(t, s1.Equal(s3))
	assert.NotEqual(t, s1.Key(), s3.Key())
	assert.Equal(t, "{(0,0), (1,2)} = 1", s1.String())
}

func TestCellOrder(t *testing.T) {
	assert.True(t, Cell{0, 5}.Less(Cell{1, 0}))
	assert.True(t, Cell{1, 0}.Less(Cell{1, 1}))
	assert.False(t, Cell{1, 1}.Less(Cell{1, 1}))
	assert.Len(t, Cell{0, 0}.Neighbors(3, 3), 3)
	assert.Len(t, Cell{1, 1}.Neighbors(3, 3), 8)
	assert.False(t, Cell{3, 0}.InBounds(3, 3))
}

package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	p, err := ParseSeed("9:9:10")
	require.NoError(t, err)
	assert.Equal(t, GameParams{Width: 9, Height: 9, MineCount: 10}, *p)
	assert.Equal(t, "9:9:10", p.Seed())

	for _, seed := range []string{"", "9:9", "a:b:c", "3:3:1", "0:5:0"} {
		_, err := ParseSeed(seed)
		assert.Error(t, err, "seed %q", seed)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		params GameParams
		valid  bool
	}{
		{GameParams{9, 9, 10}, true},
		{GameParams{30, 16, 99}, true},
		{GameParams{4, 4, 7}, true},
		{GameParams{4, 4, 8}, false},
		{GameParams{1, 3, 0}, true},
		{GameParams{0, 3, 0}, false},
		{GameParams{3, 3, -1}, false},
	}
	for _, test := range tests {
		t.Run(test.params.Seed(), func(t *testing.T) {
			if test.valid {
				assert.NoError(t, test.params.Validate())
			} else {
				assert.Error(t, test.params.Validate())
			}
		})
	}
}

func TestNewGameStartIsClear(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	params := GameParams{Width: 9, Height: 9, MineCount: 10}

	for range 50 {
		x, y := r.IntN(params.Width), r.IntN(params.Height)
		g, reveals, err := NewGame(params, x, y, r)
		require.NoError(t, err)
		require.NotEmpty(t, reveals)
		assert.Equal(t, Reveal{X: x, Y: y, Count: 0}, reveals[0])
		assert.False(t, g.Dead)

		mines := 0
		for _, m := range g.Grid {
			if m {
				mines++
			}
		}
		assert.Equal(t, params.MineCount, mines)
	}
}

func TestNewGameRejectsBadInput(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	_, _, err := NewGame(GameParams{3, 3, 1}, 1, 1, r)
	assert.Error(t, err)
	_, _, err = NewGame(GameParams{9, 9, 10}, 9, 0, r)
	assert.ErrorIs(t, err, ErrPositionOutOfBounds)
}

// fixedGame builds a game from a picture where '*' marks a mine.
func fixedGame(rows ...string) *GameState {
	g := &GameState{GameParams: GameParams{Width: len(rows[0]), Height: len(rows)}}
	for _, row := range rows {
		for _, ch := range row {
			g.Grid = append(g.Grid, ch == '*')
			g.PlayerGrid = append(g.PlayerGrid, Unknown)
			if ch == '*' {
				g.MineCount++
			}
		}
	}
	return g
}

func TestOpenCellFloodFill(t *testing.T) {
	g := fixedGame(
		"....",
		"....",
		"...*",
	)
	reveals := g.OpenCell(0, 0)
	assert.Len(t, reveals, 11)
	assert.True(t, g.Won)
	assert.False(t, g.Dead)
	assert.Equal(t, CellState(1), g.PlayerGrid[1*4+3])
	assert.Equal(t, Unknown, g.PlayerGrid[2*4+3])

	assert.Nil(t, g.OpenCell(0, 0), "game over")
}

func TestOpenCellNumber(t *testing.T) {
	g := fixedGame(
		"*..",
		"...",
		"..*",
	)
	assert.Equal(t, []Reveal{{X: 1, Y: 1, Count: 2}}, g.OpenCell(1, 1))
	assert.Nil(t, g.OpenCell(1, 1), "already open")
	assert.Nil(t, g.OpenCell(3, 0), "out of bounds")
	assert.False(t, g.Over())
}

func TestOpenMine(t *testing.T) {
	g := fixedGame(
		"*.",
		"..",
	)
	assert.Nil(t, g.OpenCell(0, 0))
	assert.True(t, g.Dead)
	assert.Equal(t, ExplodedMine, g.PlayerGrid[0])
}

func TestFlagsAndReveal(t *testing.T) {
	g := fixedGame(
		"*..",
		"..*",
	)
	g.FlagCell(0, 0)
	assert.Equal(t, Flagged, g.PlayerGrid[0])
	g.FlagCell(0, 0)
	assert.Equal(t, Unknown, g.PlayerGrid[0])

	g.MarkMine(0, 0)
	g.MarkMine(0, 0)
	assert.Equal(t, Flagged, g.PlayerGrid[0])
	assert.False(t, g.MinesFound())
	g.MarkMine(2, 1)
	assert.True(t, g.MinesFound())

	g.MarkMine(1, 0)
	g.Forfeit()
	assert.True(t, g.Dead)
	assert.Equal(t, CorrectlyFlagged, g.PlayerGrid[0])
	assert.Equal(t, FalselyFlagged, g.PlayerGrid[1])
	assert.Equal(t, "# / . \n. . # \n", g.PlayerGrid.ToString(g.Width))
}

func TestGameStateBytes(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	g, _, err := NewGame(GameParams{16, 16, 40}, 4, 4, r)
	require.NoError(t, err)

	buf, err := g.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeGameState(buf)
	require.NoError(t, err)
	assert.Equal(t, g, decoded)
}

package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"
)

// GameState is the board the agent plays against. It is the only place
// where mine positions are known.
type GameState struct {
	Dead, Won  bool
	Grid       []bool /* real mine points */
	PlayerGrid Grid   /* player knowledge */
	GameParams
}

// Reveal reports a square that was opened together with its mine count.
type Reveal struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Count int `json:"count"`
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var game GameState
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (g GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(g)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewGame lays out mines so that (x, y) and its neighbours are clear and
// opens (x, y).
func NewGame(params GameParams, x, y int, r *rand.Rand) (*GameState, []Reveal, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	if !params.ValidatePosition(x, y) {
		return nil, nil, fmt.Errorf("%w: (%d, %d)", ErrPositionOutOfBounds, x, y)
	}

	grid := params.placeMines(x, y, r)
	playerGrid := make(Grid, len(grid))
	for i := range playerGrid {
		playerGrid[i] = Unknown
	}
	state := &GameState{
		GameParams: params,
		Grid:       grid,
		PlayerGrid: playerGrid,
	}
	reveals := state.OpenCell(x, y)
	if state.Dead {
		return nil, nil, AssertionError{"mine in starting square"}
	}
	return state, reveals, nil
}

func (s *GameState) MineAt(x, y int) bool {
	return s.Grid[y*s.Width+x]
}

// NearbyMines counts the mines among the squares around (x, y).
func (s *GameState) NearbyMines(x, y int) int {
	n := 0
	for dy := -1; dy <= +1; dy++ {
		for dx := -1; dx <= +1; dx++ {
			xx, yy := x+dx, y+dy
			if (dx == 0 && dy == 0) || !s.ValidatePosition(xx, yy) {
				continue
			}
			if s.MineAt(xx, yy) {
				n++
			}
		}
	}
	return n
}

/*
OpenCell opens (x, y) and returns every square that got opened as a
result, in the order they were opened. Squares with no neighbouring mines
open their neighbours as well.

Opening a mine ends the game and returns nil.
*/
func (s *GameState) OpenCell(x, y int) []Reveal {
	if s.Dead || s.Won || !s.ValidatePosition(x, y) {
		return nil
	}
	i := y*s.Width + x
	if s.PlayerGrid[i].Open() {
		return nil
	}
	if s.Grid[i] {
		/*
		 * The player has landed on a mine. Bad luck. Expose the
		 * mine that killed them.
		 */
		s.Dead = true
		s.PlayerGrid[i] = ExplodedMine
		return nil
	}

	var reveals []Reveal
	s.PlayerGrid[i] = Todo
	queue := []int{i}
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		xx, yy := j%s.Width, j/s.Width

		v := s.NearbyMines(xx, yy)
		s.PlayerGrid[j] = CellState(v)
		reveals = append(reveals, Reveal{X: xx, Y: yy, Count: v})
		if v != 0 {
			continue
		}
		for dy := -1; dy <= +1; dy++ {
			for dx := -1; dx <= +1; dx++ {
				xxx, yyy := xx+dx, yy+dy
				if !s.ValidatePosition(xxx, yyy) {
					continue
				}
				k := yyy*s.Width + xxx
				if s.PlayerGrid[k] == Unknown {
					s.PlayerGrid[k] = Todo
					queue = append(queue, k)
				}
			}
		}
	}

	/*
	 * Scan the grid and see if exactly as many squares are still
	 * covered as there are mines. If so, the game is won.
	 */
	var ncovered int
	for _, c := range s.PlayerGrid {
		if !c.Open() {
			ncovered++
		}
	}
	if ncovered == s.MineCount {
		s.Won = true
	}

	return reveals
}

func (s *GameState) FlagCell(x, y int) {
	if !s.ValidatePosition(x, y) {
		return
	}
	i := y*s.Width + x
	if s.PlayerGrid[i] == Unknown {
		s.PlayerGrid[i] = Flagged
	} else if s.PlayerGrid[i] == Flagged {
		s.PlayerGrid[i] = Unknown
	}
}

// MarkMine flags (x, y) unless it is already flagged or open.
func (s *GameState) MarkMine(x, y int) {
	if s.ValidatePosition(x, y) && s.PlayerGrid[y*s.Width+x] == Unknown {
		s.PlayerGrid[y*s.Width+x] = Flagged
	}
}

// MinesFound reports whether the flagged squares are exactly the mines.
func (s *GameState) MinesFound() bool {
	for i, mine := range s.Grid {
		if mine != (s.PlayerGrid[i] == Flagged) {
			return false
		}
	}
	return true
}

func (s *GameState) Over() bool {
	return s.Dead || s.Won
}

// RevealMines shows every mine and every wrong flag once the game is over.
func (s *GameState) RevealMines() {
	for i := range s.Grid {
		switch {
		case s.PlayerGrid[i] == Flagged && s.Grid[i]:
			s.PlayerGrid[i] = CorrectlyFlagged
		case s.PlayerGrid[i] == Flagged:
			s.PlayerGrid[i] = FalselyFlagged
		case s.PlayerGrid[i] == Unknown && s.Grid[i]:
			s.PlayerGrid[i] = UnflaggedMine
		}
	}
}

// Forfeit ends a running game as lost and reveals the board.
func (s *GameState) Forfeit() {
	if !s.Over() {
		s.Dead = true
	}
	s.RevealMines()
}

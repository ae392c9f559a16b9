package mines

import (
	"fmt"
	"strings"
)

type GameParams struct {
	Width, Height, MineCount int
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MaxMines is the largest mine count that still leaves the 3x3 block around
// any first click free.
func (p GameParams) MaxMines() int {
	return p.Width*p.Height - min(p.Width, 3)*min(p.Height, 3)
}

func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid board size %dx%d", p.Width, p.Height)
	}
	if p.MineCount < 0 {
		return fmt.Errorf("mine count must not be negative")
	}
	if p.MineCount > p.MaxMines() {
		return fmt.Errorf("too many mines for %dx%d board: %d > %d",
			p.Width, p.Height, p.MineCount, p.MaxMines())
	}
	return nil
}

func (p GameParams) ValidatePosition(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

package mines

import (
	"math/rand/v2"
)

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// placeMines returns a mine grid with p.MineCount mines, none of which is at
// (startX, startY) or within one square of it.
func (p GameParams) placeMines(startX, startY int, r *rand.Rand) []bool {
	width, height, mineCount := p.Unpack()
	grid := make([]bool, width*height)

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, 0, width*height)
	for y := range height {
		for x := range width {
			if absDiff(startY, y) > 1 || absDiff(startX, x) > 1 {
				candidates = append(candidates, y*width+x)
			}
		}
	}

	/*
	 * Now pick n off the list at random.
	 */
	k := len(candidates)
	for range mineCount {
		i := r.IntN(k)
		grid[candidates[i]] = true
		k--
		candidates[i] = candidates[k]
	}

	return grid
}

package tetris2048

import "github.com/vovakirdan/tetris2048/internal/core"

// Prune removes every tile that is not connected to the bottom row through
// a chain of orthogonally adjacent tiles. Removed tiles still score.
// Returns the number of removed tiles and the score they produced.
func (b *Board) Prune() (removed, gained int) {
	grounded := b.groundedCells()

	for r := 0; r < b.height; r++ {
		for c := 0; c < b.width; c++ {
			cell := &b.cells[r][c]
			if !cell.Filled || grounded[r][c] {
				continue
			}
			b.score += cell.Tile.Value
			gained += cell.Tile.Value
			removed++
			*cell = Empty()
		}
	}
	return removed, gained
}

// groundedCells marks every tile reachable from an occupied row-0 cell.
// Depth-first with an explicit stack so tall boards cannot exhaust the
// goroutine stack.
func (b *Board) groundedCells() [][]bool {
	visited := make([][]bool, b.height)
	for r := range visited {
		visited[r] = make([]bool, b.width)
	}

	stack := make([]core.Pos, 0, b.width)
	for c := 0; c < b.width; c++ {
		if b.cells[0][c].Filled {
			visited[0][c] = true
			stack = append(stack, core.P(0, c))
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, n := range p.Neighbors4() {
			if !b.inBounds(n) || visited[n.Row][n.Col] || !b.at(n).Filled {
				continue
			}
			visited[n.Row][n.Col] = true
			stack = append(stack, n)
		}
	}

	return visited
}

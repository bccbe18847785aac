package tetris2048

// Merge combines vertically adjacent equal tiles until a full scan finds
// nothing left to merge. The lower tile absorbs the upper one and doubles;
// the column above the absorbed tile drops by one row.
// Returns the number of merges and the score they produced.
func (b *Board) Merge() (merges, gained int) {
	for {
		n, s := b.mergePass()
		if n == 0 {
			return merges, gained
		}
		merges += n
		gained += s
	}
}

// mergePass scans rows bottom-up, columns left to right, and merges each
// equal pair it meets.
func (b *Board) mergePass() (merges, gained int) {
	for r := 0; r < b.height-1; r++ {
		for c := 0; c < b.width; c++ {
			lower := &b.cells[r][c]
			upper := b.cells[r+1][c]
			if !lower.Filled || !upper.Filled || !lower.Tile.CanMerge(upper.Tile) {
				continue
			}

			lower.Tile = lower.Tile.Doubled()
			b.collapseColumn(c, r+1)
			b.score += lower.Tile.Value

			merges++
			gained += lower.Tile.Value
		}
	}
	return merges, gained
}

// collapseColumn removes the tile at (row, col) and shifts everything above
// it in the column down by one row.
func (b *Board) collapseColumn(col, row int) {
	for r := row; r < b.height-1; r++ {
		b.cells[r][col] = b.cells[r+1][col]
	}
	b.cells[b.height-1][col] = Empty()
}

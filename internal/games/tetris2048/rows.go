package tetris2048

// ClearRows removes every fully occupied row, bottom to top. Rows above a
// cleared row drop by one and an empty row is added at the top. The same
// index is checked again after each drop, so stacked full rows all clear.
// Returns the number of cleared rows and the score they produced.
func (b *Board) ClearRows() (cleared, gained int) {
	r := 0
	for r < b.height {
		if !b.rowFull(r) {
			r++
			continue
		}

		sum := b.rowSum(r)
		b.score += sum
		gained += sum
		cleared++

		b.dropRowsAbove(r)
	}
	return cleared, gained
}

// rowFull returns true if row r has no empty cell.
func (b *Board) rowFull(r int) bool {
	for _, cell := range b.cells[r] {
		if !cell.Filled {
			return false
		}
	}
	return true
}

// rowSum returns the total tile value of row r.
func (b *Board) rowSum(r int) int {
	sum := 0
	for _, cell := range b.cells[r] {
		sum += cell.Value()
	}
	return sum
}

// dropRowsAbove deletes row r, shifts higher rows down and appends an empty top row.
func (b *Board) dropRowsAbove(r int) {
	copy(b.cells[r:], b.cells[r+1:])
	b.cells[b.height-1] = make([]Cell, b.width)
}

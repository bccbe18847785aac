package tetris2048

import "fmt"

// Pattern is the rectangular tile layout of a landed piece.
// Rows are stored top to bottom, columns left to right.
type Pattern [][]Cell

// NewPattern builds a pattern from tile values, 0 meaning an empty slot.
func NewPattern(values [][]int) (Pattern, error) {
	p := make(Pattern, len(values))
	for r, row := range values {
		if len(row) != len(values[0]) {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d",
				ErrRaggedPattern, r, len(row), len(values[0]))
		}
		p[r] = make([]Cell, len(row))
		for c, v := range row {
			cell, err := cellFromValue(v)
			if err != nil {
				return nil, fmt.Errorf("pattern cell (%d,%d): %w", r, c, err)
			}
			p[r][c] = cell
		}
	}
	return p, nil
}

// MustPattern is like NewPattern but panics on error.
// Intended for literals in tests and fixtures.
func MustPattern(values [][]int) Pattern {
	p, err := NewPattern(values)
	if err != nil {
		panic(err)
	}
	return p
}

// Height returns the number of pattern rows.
func (p Pattern) Height() int {
	return len(p)
}

// Width returns the number of pattern columns.
func (p Pattern) Width() int {
	if len(p) == 0 {
		return 0
	}
	return len(p[0])
}

// TileCount returns the number of filled slots.
func (p Pattern) TileCount() int {
	n := 0
	for _, row := range p {
		for _, cell := range row {
			if cell.Filled {
				n++
			}
		}
	}
	return n
}

// Values returns the pattern as plain values, top row first.
func (p Pattern) Values() [][]int {
	out := make([][]int, len(p))
	for r, row := range p {
		out[r] = make([]int, len(row))
		for c, cell := range row {
			out[r][c] = cell.Value()
		}
	}
	return out
}

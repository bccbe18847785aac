// Package core provides fundamental types shared by the engine, the session
// runner and the CLI. It has no external dependencies so board logic stays
// pure and testable.
package core

import "fmt"

// Pos is a board coordinate. Row 0 is the bottom of the playing field and
// rows increase upward; columns increase to the right.
type Pos struct {
	Row int
	Col int
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(r%d,c%d)", p.Row, p.Col)
}

// Add returns a new Pos offset by (dr, dc).
func (p Pos) Add(dr, dc int) Pos {
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}

// Neighbors4 returns the four orthogonal neighbours in the order
// down, up, left, right. Positions may lie outside any board.
func (p Pos) Neighbors4() [4]Pos {
	return [4]Pos{
		p.Add(-1, 0),
		p.Add(1, 0),
		p.Add(0, -1),
		p.Add(0, 1),
	}
}

// Within reports whether p lies inside a width x height area anchored at (0, 0).
func (p Pos) Within(width, height int) bool {
	return p.Row >= 0 && p.Row < height && p.Col >= 0 && p.Col < width
}

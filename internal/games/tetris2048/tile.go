// Package tetris2048 implements the settlement engine of a falling-block
// puzzle where landed tiles merge like 2048. The package is UI-agnostic and
// deterministic: callers hand it a landed piece and read back the board.
package tetris2048

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTile is returned for tile values that are not a power of two >= 2.
	ErrInvalidTile = errors.New("tetris2048: tile value must be a power of two >= 2")

	// ErrInvalidSize is returned for non-positive board dimensions.
	ErrInvalidSize = errors.New("tetris2048: board dimensions must be positive")

	// ErrRaggedPattern is returned when pattern rows differ in length.
	ErrRaggedPattern = errors.New("tetris2048: pattern rows must have equal length")
)

// Tile is a numbered block. The zero Tile is not a valid tile.
type Tile struct {
	Value int
}

// NewTile validates v and returns the tile carrying it.
func NewTile(v int) (Tile, error) {
	if !IsTileValue(v) {
		return Tile{}, fmt.Errorf("%w: got %d", ErrInvalidTile, v)
	}
	return Tile{Value: v}, nil
}

// IsTileValue reports whether v is a legal tile value.
func IsTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// CanMerge returns true if other carries the same value.
func (t Tile) CanMerge(other Tile) bool {
	return t.Value == other.Value
}

// Doubled returns the tile produced by absorbing an equal tile.
func (t Tile) Doubled() Tile {
	return Tile{Value: t.Value * 2}
}

// Cell is a single board slot: either empty or holding exactly one tile.
type Cell struct {
	Filled bool // Whether the cell holds a tile
	Tile   Tile // Valid only when Filled is true
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{}
}

// FilledCell returns a cell holding t.
func FilledCell(t Tile) Cell {
	return Cell{Filled: true, Tile: t}
}

// Value returns the tile value, or 0 for an empty cell.
func (c Cell) Value() int {
	if !c.Filled {
		return 0
	}
	return c.Tile.Value
}

// cellFromValue maps 0 to an empty cell and validates anything else.
func cellFromValue(v int) (Cell, error) {
	if v == 0 {
		return Empty(), nil
	}
	t, err := NewTile(v)
	if err != nil {
		return Cell{}, err
	}
	return FilledCell(t), nil
}

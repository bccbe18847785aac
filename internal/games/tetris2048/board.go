package tetris2048

import (
	"fmt"

	"github.com/vovakirdan/tetris2048/internal/core"
)

// DefaultWinScore is the score at which a settlement ends the game.
const DefaultWinScore = 2048

// Observer receives the board state after each settlement phase that runs.
type Observer func(phase Phase, snap Snapshot)

// Option configures a Board.
type Option func(*Board)

// WithWinScore overrides the score threshold that ends the game.
// Non-positive values are ignored.
func WithWinScore(score int) Option {
	return func(b *Board) {
		if score > 0 {
			b.winScore = score
		}
	}
}

// WithObserver installs a hook called after every settlement phase.
func WithObserver(fn Observer) Option {
	return func(b *Board) {
		b.observer = fn
	}
}

// Board is a fixed-size grid of landed tiles.
// cells[row][col], row 0 is the bottom of the playing field.
type Board struct {
	width    int
	height   int
	cells    [][]Cell
	score    int
	gameOver bool
	winScore int
	observer Observer
}

// New creates an empty board.
func New(width, height int, opts ...Option) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}

	b := &Board{
		width:    width,
		height:   height,
		winScore: DefaultWinScore,
	}
	b.cells = make([][]Cell, height)
	for r := range b.cells {
		b.cells[r] = make([]Cell, width)
	}

	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// NewFromConfig creates an empty board sized by cfg.
func NewFromConfig(cfg core.RuntimeConfig, opts ...Option) (*Board, error) {
	opts = append([]Option{WithWinScore(cfg.WinScore)}, opts...)
	return New(cfg.Width, cfg.Height, opts...)
}

// Width returns the board width.
func (b *Board) Width() int {
	return b.width
}

// Height returns the board height.
func (b *Board) Height() int {
	return b.height
}

// Score returns the accumulated score.
func (b *Board) Score() int {
	return b.score
}

// GameOver returns true once the game has ended.
func (b *Board) GameOver() bool {
	return b.gameOver
}

// WinScore returns the score threshold that ends the game.
func (b *Board) WinScore() int {
	return b.winScore
}

// State returns the score and game-over flag.
func (b *Board) State() core.GameState {
	return core.GameState{
		Score:    b.score,
		GameOver: b.gameOver,
	}
}

// Cell returns the cell at (row, col). Out-of-bounds reads are empty.
func (b *Board) Cell(row, col int) Cell {
	if !b.inBounds(core.P(row, col)) {
		return Empty()
	}
	return b.cells[row][col]
}

// Load replaces the board contents with rows given top to bottom, as they
// would be drawn. Fewer rows than the board height fill the bottom of the
// board. Load does not settle the board and does not touch the score.
func (b *Board) Load(rows [][]int) error {
	if len(rows) > b.height {
		return fmt.Errorf("tetris2048: %d rows do not fit a board of height %d", len(rows), b.height)
	}

	cells := make([][]Cell, b.height)
	for r := range cells {
		cells[r] = make([]Cell, b.width)
	}

	for i, row := range rows {
		if len(row) != b.width {
			return fmt.Errorf("tetris2048: row %d has %d cells, expected %d", i, len(row), b.width)
		}
		boardRow := len(rows) - 1 - i
		for c, v := range row {
			cell, err := cellFromValue(v)
			if err != nil {
				return fmt.Errorf("board cell (%d,%d): %w", i, c, err)
			}
			cells[boardRow][c] = cell
		}
	}

	b.cells = cells
	return nil
}

// Clone returns a deep copy of the board, observer included.
func (b *Board) Clone() *Board {
	clone := *b
	clone.cells = make([][]Cell, b.height)
	for r := range b.cells {
		clone.cells[r] = make([]Cell, b.width)
		copy(clone.cells[r], b.cells[r])
	}
	return &clone
}

// TileCount returns the number of occupied cells.
func (b *Board) TileCount() int {
	n := 0
	for _, row := range b.cells {
		for _, cell := range row {
			if cell.Filled {
				n++
			}
		}
	}
	return n
}

// inBounds returns true if p lies on the board.
func (b *Board) inBounds(p core.Pos) bool {
	return p.Within(b.width, b.height)
}

// at returns a pointer to the cell at p. p must be in bounds.
func (b *Board) at(p core.Pos) *Cell {
	return &b.cells[p.Row][p.Col]
}

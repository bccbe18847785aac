package tetris2048

// GameStateType represents the current board status.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StateOverflow GameStateType = "overflow"
	StateWon      GameStateType = "won"
)

// Snapshot captures the complete board state for determinism testing,
// journaling and rendering.
type Snapshot struct {
	Width    int
	Height   int
	Score    int
	GameOver bool
	Rows     [][]int // Rows[row][col], row 0 is the bottom; 0 means empty
	MaxTile  int
	Tiles    int
}

// Snapshot returns a copy of the current board state.
func (b *Board) Snapshot() Snapshot {
	snap := Snapshot{
		Width:    b.width,
		Height:   b.height,
		Score:    b.score,
		GameOver: b.gameOver,
		Rows:     make([][]int, b.height),
	}

	for r, row := range b.cells {
		snap.Rows[r] = make([]int, b.width)
		for c, cell := range row {
			v := cell.Value()
			snap.Rows[r][c] = v
			if v > snap.MaxTile {
				snap.MaxTile = v
			}
			if cell.Filled {
				snap.Tiles++
			}
		}
	}
	return snap
}

// State classifies the snapshot. A finished game below the win threshold
// ended by overflow.
func (s Snapshot) State(winScore int) GameStateType {
	switch {
	case !s.GameOver:
		return StatePlaying
	case s.Score >= winScore:
		return StateWon
	default:
		return StateOverflow
	}
}

// TopDown returns the rows ordered top row first, as they are drawn and as
// scenario files list them.
func (s Snapshot) TopDown() [][]int {
	out := make([][]int, len(s.Rows))
	for i, row := range s.Rows {
		cp := make([]int, len(row))
		copy(cp, row)
		out[len(s.Rows)-1-i] = cp
	}
	return out
}

// Equal returns true if two snapshots describe the same board and score.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Width != other.Width || s.Height != other.Height ||
		s.Score != other.Score || s.GameOver != other.GameOver {
		return false
	}
	for r := range s.Rows {
		for c := range s.Rows[r] {
			if s.Rows[r][c] != other.Rows[r][c] {
				return false
			}
		}
	}
	return true
}

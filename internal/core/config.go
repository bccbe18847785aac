package core

// RuntimeConfig contains the board parameters a session is created with.
type RuntimeConfig struct {
	Width    int // Board width in cells
	Height   int // Board height in cells
	WinScore int // Score at which a settlement ends the game
}

// DefaultConfig returns a RuntimeConfig with the classic 12x20 board.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Width:    12,
		Height:   20,
		WinScore: 2048,
	}
}

// GameState represents the current state of a board.
// Read by renderers and the session runner after every settlement.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
}

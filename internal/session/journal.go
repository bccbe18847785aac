package session

import (
	"time"

	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
)

// JournalSaver persists sessions and their settlements.
// This allows a session to be journaled without depending on the storage package.
type JournalSaver interface {
	SaveSession(data SessionData) error
	SaveSettlement(data SettlementData) error
	FinishSession(data SessionData) error
}

// SessionData describes a session for persistence.
type SessionData struct {
	ID          string
	ScenarioID  string // Empty for ad-hoc sessions
	Width       int
	Height      int
	WinScore    int
	Score       int
	State       tetris2048.GameStateType
	Settlements int
	StartedAt   time.Time
	FinishedAt  time.Time // Zero while the session is open
}

// SettlementData describes one settlement for persistence.
type SettlementData struct {
	SessionID   string
	Seq         int // 1-indexed within the session
	AnchorRow   int
	AnchorCol   int
	Pattern     [][]int // Top row first, 0 for empty slots
	Board       [][]int // Board after settling, top row first
	ScoreBefore int
	ScoreAfter  int
	Merges      int
	Pruned      int
	RowsCleared int
	Overflow    bool
	GameOver    bool
	CreatedAt   time.Time
}

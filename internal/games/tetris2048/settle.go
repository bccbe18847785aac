package tetris2048

import "github.com/vovakirdan/tetris2048/internal/core"

// Phase identifies a step of the settlement pipeline.
type Phase int

const (
	PhasePlace Phase = iota
	PhaseMerge
	PhasePrune
	PhaseClear
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlace:
		return "place"
	case PhaseMerge:
		return "merge"
	case PhasePrune:
		return "prune"
	case PhaseClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Report breaks down what a single settlement did.
type Report struct {
	ScoreBefore int
	ScoreAfter  int

	Placed   int  // Tiles copied onto the board
	Overflow bool // A tile landed outside the board; nothing else ran

	Merges     int
	MergeScore int

	Pruned     int
	PruneScore int

	RowsCleared int
	ClearScore  int

	Won      bool // Score threshold reached by this settlement
	GameOver bool
}

// Gained returns the score added by this settlement.
func (r Report) Gained() int {
	return r.ScoreAfter - r.ScoreBefore
}

// Settle locks a landed piece into the board and runs the full pipeline:
// placement, chained merging, pruning of unsupported tiles and row clearing.
// anchor is the bottom-left board coordinate of the pattern.
// Returns the game-over flag.
func (b *Board) Settle(p Pattern, anchor core.Pos) bool {
	return b.SettleReport(p, anchor).GameOver
}

// SettleReport is Settle returning the full breakdown.
// Once the game is over the board is frozen and the call does nothing.
func (b *Board) SettleReport(p Pattern, anchor core.Pos) Report {
	rep := Report{ScoreBefore: b.score}

	if b.gameOver {
		rep.ScoreAfter = b.score
		rep.GameOver = true
		return rep
	}

	rep.Placed, rep.Overflow = b.Place(p, anchor)
	b.notify(PhasePlace)
	if rep.Overflow {
		rep.ScoreAfter = b.score
		rep.GameOver = b.gameOver
		return rep
	}

	rep.Merges, rep.MergeScore = b.Merge()
	b.notify(PhaseMerge)

	rep.Pruned, rep.PruneScore = b.Prune()
	b.notify(PhasePrune)

	rep.RowsCleared, rep.ClearScore = b.ClearRows()
	b.notify(PhaseClear)

	if b.score >= b.winScore {
		b.gameOver = true
		rep.Won = true
	}

	rep.ScoreAfter = b.score
	rep.GameOver = b.gameOver
	return rep
}

// Place copies every filled pattern cell onto the board. Pattern row r lands
// on board row anchor.Row + (height-1-r) since patterns are stored top-down.
// If any target lies off the board nothing is written and the game ends.
// Collision with existing tiles is the caller's concern; targets are overwritten.
func (b *Board) Place(p Pattern, anchor core.Pos) (placed int, overflow bool) {
	h := p.Height()

	// Check every target first so an overflowing piece leaves no partial trace
	for r, row := range p {
		for c, cell := range row {
			if !cell.Filled {
				continue
			}
			if !b.inBounds(anchor.Add(h-1-r, c)) {
				b.gameOver = true
				return 0, true
			}
		}
	}

	for r, row := range p {
		for c, cell := range row {
			if !cell.Filled {
				continue
			}
			*b.at(anchor.Add(h-1-r, c)) = cell
			placed++
		}
	}
	return placed, false
}

// notify hands the observer a snapshot, if one is installed.
func (b *Board) notify(phase Phase) {
	if b.observer != nil {
		b.observer(phase, b.Snapshot())
	}
}

// Package scenario provides YAML scenario files for driving the settlement
// engine headless: a starting board, a list of landed pieces and optional
// expectations checked after each settlement.
// This package depends on tetris2048 but tetris2048 does not depend on scenario.
package scenario

import (
	"fmt"

	"github.com/vovakirdan/tetris2048/internal/core"
	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
)

// ValidationError contains details about a malformed scenario.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Scenario is a parsed scenario ready to run.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Config      core.RuntimeConfig
	Rows        [][]int // Starting board, top row first
	Steps       []Step
	Metadata    map[string]string
	FilePath    string
}

// Step is one landed piece and what should hold after it settles.
type Step struct {
	Anchor core.Pos
	Piece  tetris2048.Pattern
	Expect *Expect
}

// Expect holds optional post-settlement checks. Nil fields are not checked.
type Expect struct {
	Score    *int
	GameOver *bool
	Rows     [][]int // Top row first, bottom-aligned; board rows above them must be empty
}

// NewBoard creates a board sized by the scenario and loaded with its rows.
func (s Scenario) NewBoard(opts ...tetris2048.Option) (*tetris2048.Board, error) {
	b, err := tetris2048.NewFromConfig(s.Config, opts...)
	if err != nil {
		return nil, err
	}
	if len(s.Rows) > 0 {
		if err := b.Load(s.Rows); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Mismatch describes one failed expectation.
type Mismatch struct {
	Step    int // 1-indexed
	Field   string
	Want    string
	Got     string
	Details string
}

func (m Mismatch) String() string {
	if m.Details != "" {
		return fmt.Sprintf("step %d: %s: want %s, got %s\n%s", m.Step, m.Field, m.Want, m.Got, m.Details)
	}
	return fmt.Sprintf("step %d: %s: want %s, got %s", m.Step, m.Field, m.Want, m.Got)
}

// Check compares a post-settlement snapshot against the expectation.
// step is 1-indexed and only used for reporting.
func (e *Expect) Check(step int, snap tetris2048.Snapshot) []Mismatch {
	if e == nil {
		return nil
	}

	var out []Mismatch
	if e.Score != nil && *e.Score != snap.Score {
		out = append(out, Mismatch{
			Step:  step,
			Field: "score",
			Want:  fmt.Sprint(*e.Score),
			Got:   fmt.Sprint(snap.Score),
		})
	}
	if e.GameOver != nil && *e.GameOver != snap.GameOver {
		out = append(out, Mismatch{
			Step:  step,
			Field: "game_over",
			Want:  fmt.Sprint(*e.GameOver),
			Got:   fmt.Sprint(snap.GameOver),
		})
	}
	if e.Rows != nil {
		if m, ok := checkRows(step, e.Rows, snap); !ok {
			out = append(out, m)
		}
	}
	return out
}

// checkRows compares expected top-down rows against the bottom of the board.
// Rows above the expected block must be empty.
func checkRows(step int, want [][]int, snap tetris2048.Snapshot) (Mismatch, bool) {
	got := snap.TopDown()
	offset := len(got) - len(want)

	if offset >= 0 && rowsMatch(got, want, offset) {
		return Mismatch{}, true
	}

	return Mismatch{
		Step:    step,
		Field:   "rows",
		Want:    fmt.Sprint(want),
		Got:     fmt.Sprint(got[max(offset, 0):]),
		Details: tetris2048.RenderASCII(snap),
	}, false
}

func rowsMatch(got, want [][]int, offset int) bool {
	for r, row := range got {
		if r < offset {
			for _, v := range row {
				if v != 0 {
					return false
				}
			}
			continue
		}
		expected := want[r-offset]
		if len(expected) != len(row) {
			return false
		}
		for c, v := range row {
			if v != expected[c] {
				return false
			}
		}
	}
	return true
}

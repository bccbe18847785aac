package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tetris2048/internal/core"
	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
)

// YAMLScenario represents the YAML structure of a scenario file.
type YAMLScenario struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Board       YAMLBoard         `yaml:"board"`
	Steps       []YAMLStep        `yaml:"steps"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// YAMLBoard describes the starting board. Rows are listed top to bottom and
// fill the bottom of the board when fewer than height are given.
type YAMLBoard struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	WinScore int     `yaml:"win_score,omitempty"`
	Rows     [][]int `yaml:"rows,omitempty"`
}

// YAMLStep is one landed piece.
type YAMLStep struct {
	Anchor YAMLAnchor  `yaml:"anchor"`
	Piece  [][]int     `yaml:"piece"`
	Expect *YAMLExpect `yaml:"expect,omitempty"`
}

// YAMLAnchor is the bottom-left board coordinate of a piece.
type YAMLAnchor struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// YAMLExpect lists optional checks applied after a step settles.
type YAMLExpect struct {
	Score    *int    `yaml:"score,omitempty"`
	GameOver *bool   `yaml:"game_over,omitempty"`
	Rows     [][]int `yaml:"rows,omitempty"`
}

// ParseYAML parses and validates a scenario file.
func ParseYAML(data []byte) (Scenario, error) {
	var ys YAMLScenario
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return Scenario{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	if ys.Board.Width <= 0 || ys.Board.Height <= 0 {
		return Scenario{}, ValidationError{
			Code:    "INVALID_SIZE",
			Message: fmt.Sprintf("board must be at least 1x1, got %dx%d", ys.Board.Width, ys.Board.Height),
		}
	}
	if len(ys.Steps) == 0 {
		return Scenario{}, ValidationError{
			Code:    "NO_STEPS",
			Message: "scenario has no steps",
		}
	}

	winScore := ys.Board.WinScore
	if winScore <= 0 {
		winScore = tetris2048.DefaultWinScore
	}

	sc := Scenario{
		ID:          ys.ID,
		Name:        ys.Name,
		Description: ys.Description,
		Config: core.RuntimeConfig{
			Width:    ys.Board.Width,
			Height:   ys.Board.Height,
			WinScore: winScore,
		},
		Rows:     ys.Board.Rows,
		Steps:    make([]Step, 0, len(ys.Steps)),
		Metadata: ys.Metadata,
	}

	// Load once so a bad starting board fails at parse time
	if _, err := sc.NewBoard(); err != nil {
		return Scenario{}, ValidationError{
			Code:    "INVALID_BOARD",
			Message: err.Error(),
		}
	}

	for i, ystep := range ys.Steps {
		piece, err := tetris2048.NewPattern(ystep.Piece)
		if err != nil {
			return Scenario{}, ValidationError{
				Code:    "INVALID_PIECE",
				Message: fmt.Sprintf("step %d: %v", i+1, err),
			}
		}

		step := Step{
			Anchor: core.P(ystep.Anchor.Row, ystep.Anchor.Col),
			Piece:  piece,
		}
		if ystep.Expect != nil {
			step.Expect = &Expect{
				Score:    ystep.Expect.Score,
				GameOver: ystep.Expect.GameOver,
				Rows:     ystep.Expect.Rows,
			}
		}
		sc.Steps = append(sc.Steps, step)
	}

	return sc, nil
}

// MarshalYAML encodes a scenario back to its file form.
func MarshalYAML(sc Scenario) ([]byte, error) {
	ys := YAMLScenario{
		ID:          sc.ID,
		Name:        sc.Name,
		Description: sc.Description,
		Board: YAMLBoard{
			Width:    sc.Config.Width,
			Height:   sc.Config.Height,
			WinScore: sc.Config.WinScore,
			Rows:     sc.Rows,
		},
		Metadata: sc.Metadata,
	}

	for _, step := range sc.Steps {
		ystep := YAMLStep{
			Anchor: YAMLAnchor{Row: step.Anchor.Row, Col: step.Anchor.Col},
			Piece:  step.Piece.Values(),
		}
		if step.Expect != nil {
			ystep.Expect = &YAMLExpect{
				Score:    step.Expect.Score,
				GameOver: step.Expect.GameOver,
				Rows:     step.Expect.Rows,
			}
		}
		ys.Steps = append(ys.Steps, ystep)
	}

	return yaml.Marshal(ys)
}

package tetris2048

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderASCII draws the board as plain text, top row first.
// Empty cells are '.', tiles show their value right-aligned to the widest
// value on the board. Used for debug logs, CLI output and golden tests.
func RenderASCII(s Snapshot) string {
	var sb strings.Builder

	cellW := len(strconv.Itoa(s.MaxTile))
	if cellW < 1 {
		cellW = 1
	}

	sb.WriteString(fmt.Sprintf("Score: %d | Tiles: %d | Max: %d", s.Score, s.Tiles, s.MaxTile))
	if s.GameOver {
		sb.WriteString(" | GAME OVER")
	}
	sb.WriteString("\n")

	for r := s.Height - 1; r >= 0; r-- {
		for c := 0; c < s.Width; c++ {
			if c > 0 {
				sb.WriteString(" ")
			}
			v := s.Rows[r][c]
			if v == 0 {
				sb.WriteString(strings.Repeat(" ", cellW-1) + ".")
				continue
			}
			sb.WriteString(fmt.Sprintf("%*d", cellW, v))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderCompact renders the board as a single line, rows top-down separated
// by '/', for log fields and comparisons.
func RenderCompact(s Snapshot) string {
	var sb strings.Builder
	for r := s.Height - 1; r >= 0; r-- {
		if r < s.Height-1 {
			sb.WriteRune('/')
		}
		for c := 0; c < s.Width; c++ {
			if c > 0 {
				sb.WriteRune(',')
			}
			v := s.Rows[r][c]
			if v == 0 {
				sb.WriteRune('.')
				continue
			}
			sb.WriteString(strconv.Itoa(v))
		}
	}
	return sb.String()
}

// ParseCompact reads the RenderCompact notation back into top-down rows.
// Both '.' and '0' mark empty cells. Rows are not checked for equal width;
// NewPattern and Board.Load do that.
func ParseCompact(s string) ([][]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	lines := strings.Split(s, "/")
	rows := make([][]int, len(lines))
	for r, line := range lines {
		fields := strings.Split(line, ",")
		rows[r] = make([]int, len(fields))
		for c, f := range fields {
			f = strings.TrimSpace(f)
			if f == "." || f == "" {
				continue
			}
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %q is not a tile value", r, c, f)
			}
			rows[r][c] = v
		}
	}
	return rows, nil
}

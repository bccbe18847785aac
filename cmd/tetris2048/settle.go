package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris2048/internal/config"
	"github.com/vovakirdan/tetris2048/internal/core"
	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
	"github.com/vovakirdan/tetris2048/internal/session"
)

var (
	flagBoard   string
	flagPieces  []string
	flagAnchors []string
	flagPreset  string
)

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle pieces on a board given on the command line",
	Long: `Settles one or more pieces on a board sized by the config (or --preset).
Boards and pieces use the compact notation: rows top-down separated by '/',
cells by ',', '.' or 0 for empty. Each --piece pairs with the --at anchor in
the same position; anchors are "row,col" of the piece's bottom-left cell.

Examples:
  tetris2048 settle --preset compact --piece 2/2 --at 0,0
  tetris2048 settle --board "2,4,.,." --piece 8,8 --at 0,2 --preset compact`,
	Args: cobra.NoArgs,
	RunE: runSettle,
}

func init() {
	settleCmd.Flags().StringVar(&flagBoard, "board", "", "Starting board rows (top-down, bottom-aligned)")
	settleCmd.Flags().StringArrayVar(&flagPieces, "piece", nil, "Piece pattern, repeatable")
	settleCmd.Flags().StringArrayVar(&flagAnchors, "at", nil, "Anchor row,col for the matching --piece")
	settleCmd.Flags().StringVar(&flagPreset, "preset", "", "Board preset: "+strings.Join(config.PresetNames(), ", "))
	settleCmd.Flags().BoolVar(&flagPhases, "phases", false, "Print the board after every settlement phase")
	settleCmd.Flags().BoolVar(&flagCompact, "compact", false, "Print boards on a single line")
}

func runSettle(cmd *cobra.Command, args []string) error {
	if len(flagPieces) == 0 {
		return fmt.Errorf("at least one --piece is required")
	}
	if len(flagPieces) != len(flagAnchors) {
		return fmt.Errorf("got %d --piece and %d --at flags, they must pair up", len(flagPieces), len(flagAnchors))
	}

	cfg := app.cfg
	if flagPreset != "" && !config.ApplyPreset(&cfg, config.BoardPreset(flagPreset)) {
		return fmt.Errorf("unknown preset %q (want one of %s)", flagPreset, strings.Join(config.PresetNames(), ", "))
	}

	opts := sessionOptions()
	if flagPhases {
		opts = append(opts, session.WithPhaseHook(func(p tetris2048.Phase, snap tetris2048.Snapshot) {
			fmt.Printf("  after %s:\n", p)
			printBoard(snap, "    ")
		}))
	}

	s, err := session.New(cfg.RuntimeConfig(), opts...)
	if err != nil {
		return err
	}
	defer closeSession(cmd.Context(), s)

	if flagBoard != "" {
		rows, err := tetris2048.ParseCompact(flagBoard)
		if err != nil {
			return fmt.Errorf("--board: %w", err)
		}
		if err := s.Board().Load(rows); err != nil {
			return fmt.Errorf("--board: %w", err)
		}
	}

	for i := range flagPieces {
		piece, anchor, err := parseMove(flagPieces[i], flagAnchors[i])
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}

		rep, err := s.Settle(cmd.Context(), piece, anchor)
		if err != nil {
			return err
		}
		fmt.Printf("move %d at %s: +%d (merges %d, pruned %d, rows %d)\n",
			i+1, anchor, rep.Gained(), rep.Merges, rep.Pruned, rep.RowsCleared)
		if rep.GameOver {
			break
		}
	}

	fmt.Println()
	printBoard(s.Snapshot(), "")
	st := s.Board().State()
	fmt.Printf("State: %s, score %d, game over %t\n", s.State(), st.Score, st.GameOver)
	return nil
}

func parseMove(pieceArg, anchorArg string) (tetris2048.Pattern, core.Pos, error) {
	values, err := tetris2048.ParseCompact(pieceArg)
	if err != nil {
		return nil, core.Pos{}, fmt.Errorf("--piece: %w", err)
	}
	piece, err := tetris2048.NewPattern(values)
	if err != nil {
		return nil, core.Pos{}, fmt.Errorf("--piece: %w", err)
	}

	parts := strings.Split(anchorArg, ",")
	if len(parts) != 2 {
		return nil, core.Pos{}, fmt.Errorf("--at %q: want row,col", anchorArg)
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, core.Pos{}, fmt.Errorf("--at %q: %w", anchorArg, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, core.Pos{}, fmt.Errorf("--at %q: %w", anchorArg, err)
	}
	return piece, core.P(row, col), nil
}

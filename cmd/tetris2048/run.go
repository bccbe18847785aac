package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
	"github.com/vovakirdan/tetris2048/internal/games/tetris2048/scenario"
	"github.com/vovakirdan/tetris2048/internal/session"
)

var (
	flagPhases  bool
	flagCompact bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a scenario file",
	Long: `Load a scenario, settle each of its pieces in order and print the
resulting board. Exits non-zero if any expectation in the file fails.

Examples:
  tetris2048 run scenarios/row-clear.yaml
  tetris2048 run scenarios/row-clear.yaml --phases
  tetris2048 run scenarios/win.yaml --no-journal`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagPhases, "phases", false, "Print the board after every settlement phase")
	runCmd.Flags().BoolVar(&flagCompact, "compact", false, "Print boards on a single line")
}

func runRun(cmd *cobra.Command, args []string) error {
	sc, err := scenario.NewLoader("").LoadFile(args[0])
	if err != nil {
		return err
	}

	opts := sessionOptions()
	if flagPhases {
		opts = append(opts, session.WithPhaseHook(func(p tetris2048.Phase, snap tetris2048.Snapshot) {
			fmt.Printf("  after %s:\n", p)
			printBoard(snap, "    ")
		}))
	}

	s, err := session.FromScenario(sc, opts...)
	if err != nil {
		return err
	}
	defer closeSession(cmd.Context(), s)

	title := sc.Name
	if title == "" {
		title = sc.ID
	}
	fmt.Printf("Scenario: %s (%dx%d, win at %d)\n", title, sc.Config.Width, sc.Config.Height, sc.Config.WinScore)
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	out, err := s.Play(cmd.Context(), sc)
	if err != nil {
		return err
	}

	for i, rep := range out.Reports {
		step := sc.Steps[i]
		fmt.Printf("  %-4d %-10s +%-6d score %-6d merges %d  pruned %d  rows %d",
			i+1, step.Anchor, rep.Gained(), rep.ScoreAfter, rep.Merges, rep.Pruned, rep.RowsCleared)
		switch {
		case rep.Overflow:
			fmt.Print("  OVERFLOW")
		case rep.Won:
			fmt.Print("  WIN")
		}
		fmt.Println()
	}
	if out.Skipped > 0 {
		fmt.Printf("  (%d step(s) skipped after game over)\n", out.Skipped)
	}

	fmt.Println()
	printBoard(out.Final, "")
	fmt.Printf("State: %s\n", out.State)
	fmt.Printf("Session: %s\n", out.SessionID)

	if !out.Passed() {
		fmt.Println()
		fmt.Println("Failed expectations:")
		for _, m := range out.Mismatches {
			fmt.Printf("  %s\n", m)
		}
		return fmt.Errorf("%d expectation(s) failed", len(out.Mismatches))
	}
	return nil
}

// printBoard writes a snapshot in the selected format, each line prefixed by indent.
func printBoard(snap tetris2048.Snapshot, indent string) {
	if flagCompact {
		fmt.Printf("%s%s  score %d\n", indent, tetris2048.RenderCompact(snap), snap.Score)
		return
	}
	for _, line := range strings.Split(strings.TrimRight(tetris2048.RenderASCII(snap), "\n"), "\n") {
		fmt.Printf("%s%s\n", indent, line)
	}
}

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
)

var (
	flagLimit  int
	flagDelete bool
)

var journalCmd = &cobra.Command{
	Use:   "journal [session-id]",
	Short: "Inspect the settlement journal",
	Long: `Without arguments, lists the most recent sessions. With a session ID,
shows every settlement of that session and the board after each one.

Examples:
  tetris2048 journal
  tetris2048 journal --limit 5
  tetris2048 journal 3f0c9a4e-...
  tetris2048 journal 3f0c9a4e-... --delete`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of sessions to list")
	journalCmd.Flags().BoolVar(&flagDelete, "delete", false, "Delete the given session")
}

func runJournal(cmd *cobra.Command, args []string) error {
	if app.store == nil {
		return errors.New("journal is not available (disabled or database could not be opened)")
	}

	if len(args) == 0 {
		if flagDelete {
			return errors.New("--delete needs a session ID")
		}
		return listSessions()
	}

	if flagDelete {
		if err := app.store.DeleteSession(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s.\n", args[0])
		return nil
	}
	return showSession(args[0])
}

func listSessions() error {
	sessions, err := app.store.RecentSessions(flagLimit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	fmt.Printf("  %-36s  %-16s  %-8s  %-8s  %-5s  %s\n", "Session", "Scenario", "State", "Score", "Moves", "Started")
	fmt.Printf("  %-36s  %-16s  %-8s  %-8s  %-5s  %s\n", "-------", "--------", "-----", "-----", "-----", "-------")

	for _, s := range sessions {
		scenarioID := s.ScenarioID
		if scenarioID == "" {
			scenarioID = "-"
		}
		fmt.Printf("  %-36s  %-16s  %-8s  %-8d  %-5d  %s\n",
			s.ID, scenarioID, s.State, s.Score, s.Settlements, s.StartedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func showSession(id string) error {
	s, err := app.store.SessionByID(id)
	if err != nil {
		return err
	}
	settlements, err := app.store.Settlements(id)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s\n", s.ID)
	if s.ScenarioID != "" {
		fmt.Printf("Scenario: %s\n", s.ScenarioID)
	}
	fmt.Printf("Board: %dx%d, win at %d\n", s.Width, s.Height, s.WinScore)
	fmt.Printf("State: %s, score %d after %d settlement(s)\n", s.State, s.Score, s.Settlements)
	if !s.FinishedAt.IsZero() {
		fmt.Printf("Duration: %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	}
	fmt.Println()

	for _, st := range settlements {
		fmt.Printf("#%d at (r%d,c%d): %d -> %d, merges %d, pruned %d, rows %d",
			st.Seq, st.AnchorRow, st.AnchorCol, st.ScoreBefore, st.ScoreAfter, st.Merges, st.Pruned, st.RowsCleared)
		if st.Overflow {
			fmt.Print(", OVERFLOW")
		}
		fmt.Println()

		board, err := tetris2048.New(s.Width, s.Height)
		if err != nil {
			return err
		}
		if err := board.Load(st.Board); err != nil {
			return fmt.Errorf("settlement %d: %w", st.Seq, err)
		}
		snap := board.Snapshot()
		snap.Score, snap.GameOver = st.ScoreAfter, st.GameOver
		printBoard(snap, "    ")
	}
	return nil
}

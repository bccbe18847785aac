package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris2048/internal/games/tetris2048/scenario"
)

const defaultScenarioDir = "scenarios"

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List scenario files",
	Long:  `Shows every valid scenario under a directory (default: ./scenarios).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	dir := defaultScenarioDir
	if len(args) == 1 {
		dir = args[0]
	}

	scenarios, failures, err := scenario.NewLoader(dir).Scan()
	if err != nil {
		return err
	}

	if len(scenarios) == 0 && len(failures) == 0 {
		fmt.Printf("No scenarios found in %s.\n", dir)
		return nil
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, sc := range scenarios {
		if len(sc.ID) > maxIDLen {
			maxIDLen = len(sc.ID)
		}
	}

	fmt.Printf("Scenarios in %s:\n", dir)
	fmt.Println()
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxIDLen, "ID", "Board", "Steps", "Name")
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxIDLen, "--", "-----", "-----", "----")

	for _, sc := range scenarios {
		size := fmt.Sprintf("%dx%d", sc.Config.Width, sc.Config.Height)
		fmt.Printf("  %-*s  %-7s  %-5d  %s\n", maxIDLen, sc.ID, size, len(sc.Steps), sc.Name)
	}

	if len(failures) > 0 {
		fmt.Println()
		fmt.Printf("%d file(s) could not be loaded, run 'tetris2048 verify %s' for details.\n", len(failures), dir)
	}

	fmt.Println()
	fmt.Println("Run 'tetris2048 run <file>' to run a scenario.")
	return nil
}

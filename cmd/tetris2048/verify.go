package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris2048/internal/games/tetris2048/scenario"
	"github.com/vovakirdan/tetris2048/internal/session"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Run every scenario and check its expectations",
	Long: `Runs every scenario under a directory (default: ./scenarios) and reports
files that fail to load and scenarios whose expectations do not hold.
Exits non-zero if anything failed.

Examples:
  tetris2048 verify
  tetris2048 verify testdata/scenarios --no-journal`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

// verifyFailure is one scenario that did not pass.
type verifyFailure struct {
	id     string
	path   string
	err    error
	result session.Outcome
}

func newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	)
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := defaultScenarioDir
	if len(args) == 1 {
		dir = args[0]
	}

	scenarios, broken, err := scenario.NewLoader(dir).Scan()
	if err != nil {
		return err
	}
	if len(scenarios) == 0 && len(broken) == 0 {
		fmt.Printf("No scenarios found in %s.\n", dir)
		return nil
	}

	var failures []verifyFailure
	bar := newBar(len(scenarios), "verifying")
	for _, sc := range scenarios {
		bar.Describe(sc.ID)
		if f, ok := verifyOne(cmd.Context(), sc); !ok {
			failures = append(failures, f)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	_ = bar.Close()

	for _, b := range broken {
		fmt.Printf("BROKEN  %s\n        %v\n", b.Path, b.Err)
	}
	for _, f := range failures {
		fmt.Printf("FAIL    %s (%s)\n", f.id, f.path)
		if f.err != nil {
			fmt.Printf("        %v\n", f.err)
			continue
		}
		for _, m := range f.result.Mismatches {
			fmt.Printf("        step %d: %s: want %s, got %s\n", m.Step, m.Field, m.Want, m.Got)
		}
	}

	passed := len(scenarios) - len(failures)
	fmt.Printf("\n%d passed, %d failed, %d broken\n", passed, len(failures), len(broken))

	if len(failures) > 0 || len(broken) > 0 {
		return fmt.Errorf("verification failed")
	}
	return nil
}

func verifyOne(ctx context.Context, sc scenario.Scenario) (verifyFailure, bool) {
	fail := verifyFailure{id: sc.ID, path: sc.FilePath}

	s, err := session.FromScenario(sc, sessionOptions()...)
	if err != nil {
		fail.err = err
		return fail, false
	}
	defer closeSession(ctx, s)

	out, err := s.Play(ctx, sc)
	if err != nil {
		fail.err = err
		return fail, false
	}
	if !out.Passed() {
		fail.result = out
		return fail, false
	}
	return fail, true
}

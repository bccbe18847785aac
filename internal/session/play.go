package session

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
	"github.com/vovakirdan/tetris2048/internal/games/tetris2048/scenario"
)

// Outcome summarizes a scenario run.
type Outcome struct {
	SessionID  string
	ScenarioID string
	Executed   int // Steps settled before the game ended or the steps ran out
	Skipped    int // Steps left over after game over
	Final      tetris2048.Snapshot
	State      tetris2048.GameStateType
	Reports    []tetris2048.Report
	Mismatches []scenario.Mismatch
}

// Passed reports whether every expectation held.
func (o Outcome) Passed() bool {
	return len(o.Mismatches) == 0
}

// Play settles every step of sc in order on the session board, checking each
// step's expectations. Steps after game over are skipped and their
// expectations are not checked.
func (s *Session) Play(ctx context.Context, sc scenario.Scenario) (Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "scenario.play",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.String("scenario.id", sc.ID),
			attribute.Int("scenario.steps", len(sc.Steps)),
		),
	)
	defer span.End()

	out := Outcome{
		SessionID:  s.id,
		ScenarioID: sc.ID,
	}

	for i, step := range sc.Steps {
		if s.board.GameOver() {
			out.Skipped = len(sc.Steps) - i
			s.logger.Debug("game over, skipping remaining steps", "scenario", sc.ID, "skipped", out.Skipped)
			break
		}

		rep, err := s.Settle(ctx, step.Piece, step.Anchor)
		if err != nil {
			return out, fmt.Errorf("scenario %s step %d: %w", sc.ID, i+1, err)
		}
		out.Executed++
		out.Reports = append(out.Reports, rep)
		out.Mismatches = append(out.Mismatches, step.Expect.Check(i+1, s.board.Snapshot())...)
	}

	out.Final = s.board.Snapshot()
	out.State = out.Final.State(s.board.WinScore())

	span.SetAttributes(
		attribute.Int("score", out.Final.Score),
		attribute.String("state", string(out.State)),
		attribute.Int("mismatches", len(out.Mismatches)),
	)
	if !out.Passed() {
		s.logger.Warn("scenario expectations failed", "scenario", sc.ID, "mismatches", len(out.Mismatches))
	}

	return out, nil
}

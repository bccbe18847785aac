// Package session drives a settlement board on behalf of a caller: it names the
// run, traces every settlement, logs the outcome and journals it.
// The engine itself stays free of I/O; everything observable happens here.
package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/tetris2048/internal/core"
	"github.com/vovakirdan/tetris2048/internal/games/tetris2048"
	"github.com/vovakirdan/tetris2048/internal/games/tetris2048/scenario"
	"github.com/vovakirdan/tetris2048/internal/telemetry"
)

// Session wraps a board with identity, tracing, logging and an optional journal.
// A Session is not safe for concurrent use.
type Session struct {
	id         string
	scenarioID string
	board      *tetris2048.Board
	startedAt  time.Time

	logger  *log.Logger
	tracer  trace.Tracer
	journal JournalSaver
	hook    tetris2048.Observer

	seq    int
	span   trace.Span // Current settlement span, nil between settlements
	closed bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to a logger that discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer. Defaults to the global "session" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithJournal enables journaling of the session and every settlement.
func WithJournal(j JournalSaver) Option {
	return func(s *Session) {
		s.journal = j
	}
}

// WithPhaseHook registers a callback receiving the board after each phase.
func WithPhaseHook(fn tetris2048.Observer) Option {
	return func(s *Session) {
		s.hook = fn
	}
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// New creates a session on an empty board sized by cfg.
func New(cfg core.RuntimeConfig, opts ...Option) (*Session, error) {
	s := newSession(opts)

	board, err := tetris2048.NewFromConfig(cfg, tetris2048.WithObserver(s.observe))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.board = board

	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromScenario creates a session on the scenario's starting board.
func FromScenario(sc scenario.Scenario, opts ...Option) (*Session, error) {
	s := newSession(opts)
	s.scenarioID = sc.ID

	board, err := sc.NewBoard(tetris2048.WithObserver(s.observe))
	if err != nil {
		return nil, fmt.Errorf("session: scenario %s: %w", sc.ID, err)
	}
	s.board = board

	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func newSession(opts []Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		startedAt: time.Now(),
		logger:    log.New(io.Discard),
		tracer:    telemetry.Tracer("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// open writes the session row to the journal.
func (s *Session) open() error {
	s.logger.Debug("session started",
		"session", s.id,
		"scenario", s.scenarioID,
		"width", s.board.Width(),
		"height", s.board.Height(),
		"win_score", s.board.WinScore(),
	)

	if s.journal == nil {
		return nil
	}
	if err := s.journal.SaveSession(s.data()); err != nil {
		return fmt.Errorf("session: journal session: %w", err)
	}
	return nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// ScenarioID returns the scenario the session was created from, if any.
func (s *Session) ScenarioID() string {
	return s.scenarioID
}

// Board returns the underlying board.
func (s *Session) Board() *tetris2048.Board {
	return s.board
}

// Snapshot returns the current board state.
func (s *Session) Snapshot() tetris2048.Snapshot {
	return s.board.Snapshot()
}

// State returns the current game state.
func (s *Session) State() tetris2048.GameStateType {
	return s.board.Snapshot().State(s.board.WinScore())
}

// Settlements returns how many settlements the session has run.
func (s *Session) Settlements() int {
	return s.seq
}

// Settle runs one settlement of pattern at anchor. The returned error only
// reports journaling or context failures; the board outcome is in the report.
func (s *Session) Settle(ctx context.Context, pattern tetris2048.Pattern, anchor core.Pos) (tetris2048.Report, error) {
	if err := ctx.Err(); err != nil {
		return tetris2048.Report{}, err
	}
	if s.closed {
		return tetris2048.Report{}, fmt.Errorf("session: %s is closed", s.id)
	}

	_, span := s.tracer.Start(ctx, "settlement",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.Int("settlement.seq", s.seq+1),
			attribute.Int("anchor.row", anchor.Row),
			attribute.Int("anchor.col", anchor.Col),
			attribute.Int("piece.tiles", pattern.TileCount()),
		),
	)
	defer span.End()

	s.seq++
	s.span = span
	rep := s.board.SettleReport(pattern, anchor)
	s.span = nil

	span.SetAttributes(
		attribute.Int("score.before", rep.ScoreBefore),
		attribute.Int("score.after", rep.ScoreAfter),
		attribute.Int("merges", rep.Merges),
		attribute.Int("pruned", rep.Pruned),
		attribute.Int("rows_cleared", rep.RowsCleared),
		attribute.Bool("overflow", rep.Overflow),
		attribute.Bool("game_over", rep.GameOver),
	)

	s.logger.Debug("settled",
		"session", s.id,
		"seq", s.seq,
		"anchor", anchor,
		"gained", rep.Gained(),
		"score", rep.ScoreAfter,
		"merges", rep.Merges,
		"pruned", rep.Pruned,
		"rows", rep.RowsCleared,
	)
	switch {
	case rep.Overflow:
		s.logger.Info("board overflow", "session", s.id, "seq", s.seq, "score", rep.ScoreAfter)
	case rep.Won:
		s.logger.Info("win score reached", "session", s.id, "seq", s.seq, "score", rep.ScoreAfter)
	}

	if s.journal == nil {
		return rep, nil
	}

	data := SettlementData{
		SessionID:   s.id,
		Seq:         s.seq,
		AnchorRow:   anchor.Row,
		AnchorCol:   anchor.Col,
		Pattern:     pattern.Values(),
		Board:       s.board.Snapshot().TopDown(),
		ScoreBefore: rep.ScoreBefore,
		ScoreAfter:  rep.ScoreAfter,
		Merges:      rep.Merges,
		Pruned:      rep.Pruned,
		RowsCleared: rep.RowsCleared,
		Overflow:    rep.Overflow,
		GameOver:    rep.GameOver,
		CreatedAt:   time.Now(),
	}
	if err := s.journal.SaveSettlement(data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "journal write failed")
		s.logger.Warn("could not journal settlement", "session", s.id, "seq", s.seq, "error", err)
		return rep, fmt.Errorf("session: journal settlement %d: %w", s.seq, err)
	}
	return rep, nil
}

// Close finalizes the journal entry. Calling Close more than once is a no-op.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	_, span := s.tracer.Start(ctx, "session.close",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.Int("score", s.board.Score()),
			attribute.String("state", string(s.State())),
			attribute.Int("settlements", s.seq),
		),
	)
	defer span.End()

	s.logger.Debug("session closed", "session", s.id, "score", s.board.Score(), "state", s.State())

	if s.journal == nil {
		return nil
	}
	data := s.data()
	data.FinishedAt = time.Now()
	if err := s.journal.FinishSession(data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "journal write failed")
		return fmt.Errorf("session: finish %s: %w", s.id, err)
	}
	return nil
}

func (s *Session) data() SessionData {
	return SessionData{
		ID:          s.id,
		ScenarioID:  s.scenarioID,
		Width:       s.board.Width(),
		Height:      s.board.Height(),
		WinScore:    s.board.WinScore(),
		Score:       s.board.Score(),
		State:       s.State(),
		Settlements: s.seq,
		StartedAt:   s.startedAt,
	}
}

// observe receives every phase from the board.
func (s *Session) observe(phase tetris2048.Phase, snap tetris2048.Snapshot) {
	if s.span != nil {
		s.span.AddEvent(phase.String(), trace.WithAttributes(
			attribute.Int("score", snap.Score),
			attribute.Int("tiles", snap.Tiles),
			attribute.Int("max_tile", snap.MaxTile),
		))
	}
	if s.hook != nil {
		s.hook(phase, snap)
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetris2048/internal/core"
	"github.com/vovakirdan/tetris2048/internal/games/tetris2048/scenario"
	"github.com/vovakirdan/tetris2048/internal/session"
)

// unfinishedJournal accepts sessions and settlements but cannot finish them.
type unfinishedJournal struct {
	finishCalls int
}

func (j *unfinishedJournal) SaveSession(session.SessionData) error { return nil }
func (j *unfinishedJournal) SaveSettlement(session.SettlementData) error { return nil }

func (j *unfinishedJournal) FinishSession(session.SessionData) error {
	j.finishCalls++
	return errors.New("database is locked")
}

// useLogger points the app logger at a buffer for the duration of the test.
func useLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := app.logger
	app.logger = log.New(&buf)
	t.Cleanup(func() { app.logger = prev })
	return &buf
}

func TestParseMove(t *testing.T) {
	piece, anchor, err := parseMove("2,./4,8", " 3, 1")
	require.NoError(t, err)
	assert.Equal(t, core.P(3, 1), anchor)
	assert.Equal(t, [][]int{{2, 0}, {4, 8}}, piece.Values())

	bad := []struct{ piece, at string }{
		{"2,x", "0,0"},
		{"3", "0,0"},
		{"2,2/2", "0,0"},
		{"2", "0"},
		{"2", "a,0"},
		{"2", "0,b"},
	}
	for _, tt := range bad {
		_, _, err := parseMove(tt.piece, tt.at)
		assert.Error(t, err, "parseMove(%q, %q)", tt.piece, tt.at)
	}
}

func TestVerifyBundledScenarios(t *testing.T) {
	scenarios, broken, err := scenario.NewLoader("../../scenarios").Scan()
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)
	assert.Empty(t, broken)

	for _, sc := range scenarios {
		f, ok := verifyOne(context.Background(), sc)
		assert.True(t, ok, "scenario %s failed: %v %v", sc.ID, f.err, f.result.Mismatches)
	}
}

func TestCloseSessionLogsJournalFailure(t *testing.T) {
	buf := useLogger(t)
	j := &unfinishedJournal{}

	s, err := session.New(core.RuntimeConfig{Width: 4, Height: 6, WinScore: 2048}, session.WithJournal(j))
	require.NoError(t, err)

	closeSession(context.Background(), s)

	assert.Equal(t, 1, j.finishCalls)
	out := buf.String()
	assert.Contains(t, out, "could not finish journal session")
	assert.Contains(t, out, s.ID())
	assert.Contains(t, out, "database is locked")

	// Already closed: nothing more to finish or log.
	buf.Reset()
	closeSession(context.Background(), s)
	assert.Equal(t, 1, j.finishCalls)
	assert.Empty(t, buf.String())
}

func TestCloseSessionQuietOnSuccess(t *testing.T) {
	buf := useLogger(t)

	s, err := session.New(core.RuntimeConfig{Width: 4, Height: 6, WinScore: 2048})
	require.NoError(t, err)

	closeSession(context.Background(), s)
	assert.Empty(t, buf.String())
}

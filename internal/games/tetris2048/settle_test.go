package tetris2048

import (
	"testing"

	"github.com/vovakirdan/tetris2048/internal/core"
)

// column returns the values of column c, bottom to top.
func column(b *Board, c int) []int {
	out := make([]int, b.Height())
	for r := range out {
		out[r] = b.Cell(r, c).Value()
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSettleVerticalPairMerges(t *testing.T) {
	b, _ := New(4, 6)

	over := b.Settle(MustPattern([][]int{{2}, {2}}), core.P(0, 0))

	if over {
		t.Error("game should not be over")
	}
	if b.Score() != 4 {
		t.Errorf("Score() = %d, want 4", b.Score())
	}
	if got := column(b, 0); !equalInts(got, []int{4, 0, 0, 0, 0, 0}) {
		t.Errorf("column 0 = %v, want a single 4 at row 0", got)
	}
	if b.TileCount() != 1 {
		t.Errorf("TileCount() = %d, want 1", b.TileCount())
	}
}

func TestPlaceFlipsPatternRows(t *testing.T) {
	b, _ := New(4, 6)

	placed, overflow := b.Place(MustPattern([][]int{
		{2, 0},
		{4, 8},
	}), core.P(1, 2))

	if overflow {
		t.Fatal("placement should fit")
	}
	if placed != 3 {
		t.Errorf("placed = %d, want 3", placed)
	}

	tests := []struct {
		row, col, want int
	}{
		{2, 2, 2}, // top pattern row lands one above the anchor
		{1, 2, 4},
		{1, 3, 8},
		{2, 3, 0},
		{0, 2, 0},
	}
	for _, tt := range tests {
		if got := b.Cell(tt.row, tt.col).Value(); got != tt.want {
			t.Errorf("Cell(%d,%d) = %d, want %d", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestPlaceOverwritesTarget(t *testing.T) {
	b := loadBoard(t, 3, 3, [][]int{{2, 0, 0}})

	b.Place(MustPattern([][]int{{16}}), core.P(0, 0))

	if got := b.Cell(0, 0).Value(); got != 16 {
		t.Errorf("Cell(0,0) = %d, want 16", got)
	}
}

func TestSettleOverflowAbortsPipeline(t *testing.T) {
	rows := [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 8}, // floating: would be pruned if the pipeline ran
		{0, 0, 0, 0},
		{2, 0, 0, 0},
		{2, 4, 8, 0}, // vertical pair: would merge if the pipeline ran
	}
	b := loadBoard(t, 4, 6, rows)
	before := b.Snapshot()

	rep := b.SettleReport(MustPattern([][]int{{4}, {2}}), core.P(5, 1))

	if !rep.Overflow || !rep.GameOver || !b.GameOver() {
		t.Fatalf("expected overflow game over, got %+v", rep)
	}
	if rep.Placed != 0 || rep.Merges != 0 || rep.Pruned != 0 || rep.RowsCleared != 0 {
		t.Errorf("no phase should have run, got %+v", rep)
	}
	if b.Score() != 0 {
		t.Errorf("Score() = %d, want unchanged 0", b.Score())
	}

	after := b.Snapshot()
	after.GameOver = false
	if !before.Equal(after) {
		t.Errorf("board changed on overflow:\n%s\nwant\n%s", RenderASCII(after), RenderASCII(before))
	}
}

func TestPlaceOutOfBoundsSides(t *testing.T) {
	tests := []struct {
		name   string
		anchor core.Pos
	}{
		{"right edge", core.P(0, 3)},
		{"left edge", core.P(0, -1)},
		{"below floor", core.P(-1, 0)},
		{"top edge", core.P(5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := New(4, 6)
			if !b.Settle(MustPattern([][]int{{2, 4}, {4, 2}}), tt.anchor) {
				t.Error("placement off the board should end the game")
			}
			if b.TileCount() != 0 {
				t.Errorf("overflowing piece left %d tiles behind", b.TileCount())
			}
		})
	}
}

func TestMergeChains(t *testing.T) {
	tests := []struct {
		name       string
		col        []int // column 0 bottom to top before merging
		want       []int
		wantMerges int
		wantScore  int
	}{
		{
			name:       "three equal tiles merge once per pass",
			col:        []int{2, 2, 2, 0, 0, 0},
			want:       []int{4, 2, 0, 0, 0, 0},
			wantMerges: 1,
			wantScore:  4,
		},
		{
			name:       "merged tile meets the tile below",
			col:        []int{4, 2, 2, 0, 0, 0},
			want:       []int{8, 0, 0, 0, 0, 0},
			wantMerges: 2,
			wantScore:  12,
		},
		{
			name:       "long cascade",
			col:        []int{8, 4, 2, 2, 0, 0},
			want:       []int{16, 0, 0, 0, 0, 0},
			wantMerges: 3,
			wantScore:  28,
		},
		{
			name:       "column above collapses",
			col:        []int{2, 2, 8, 16, 0, 0},
			want:       []int{4, 8, 16, 0, 0, 0},
			wantMerges: 1,
			wantScore:  4,
		},
		{
			name:       "collapse brings an equal tile down",
			col:        []int{2, 2, 4, 0, 0, 0},
			want:       []int{8, 0, 0, 0, 0, 0},
			wantMerges: 2,
			wantScore:  12,
		},
		{
			name:       "nothing to merge",
			col:        []int{2, 4, 2, 4, 0, 0},
			want:       []int{2, 4, 2, 4, 0, 0},
			wantMerges: 0,
			wantScore:  0,
		},
		{
			name:       "gap stops merging",
			col:        []int{2, 0, 2, 0, 0, 0},
			want:       []int{2, 0, 2, 0, 0, 0},
			wantMerges: 0,
			wantScore:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]int, len(tt.col))
			for i, v := range tt.col {
				rows[len(tt.col)-1-i] = []int{v, 0, 0}
			}
			b := loadBoard(t, 3, len(tt.col), rows)

			merges, gained := b.Merge()

			if got := column(b, 0); !equalInts(got, tt.want) {
				t.Errorf("column = %v, want %v", got, tt.want)
			}
			if merges != tt.wantMerges {
				t.Errorf("merges = %d, want %d", merges, tt.wantMerges)
			}
			if gained != tt.wantScore || b.Score() != tt.wantScore {
				t.Errorf("gained = %d, score = %d, want %d", gained, b.Score(), tt.wantScore)
			}
		})
	}
}

func TestMergeIgnoresHorizontalPairs(t *testing.T) {
	b := loadBoard(t, 3, 2, [][]int{{4, 4, 4}})

	if merges, _ := b.Merge(); merges != 0 {
		t.Errorf("horizontal neighbours merged %d times, want 0", merges)
	}
}

func TestPruneFlyingTiles(t *testing.T) {
	b := loadBoard(t, 4, 6, [][]int{
		{0, 0, 0, 4},
		{0, 0, 0, 2},
		{0, 0, 128, 0},
		{8, 16, 32, 0},
		{4, 0, 0, 0},
		{2, 0, 0, 0},
	})

	removed, gained := b.Prune()

	if removed != 2 || gained != 6 {
		t.Errorf("Prune() = (%d, %d), want (2, 6)", removed, gained)
	}
	if b.Score() != 6 {
		t.Errorf("Score() = %d, want 6", b.Score())
	}
	if b.Cell(4, 3).Filled || b.Cell(5, 3).Filled {
		t.Error("floating island should be removed")
	}
	// Grounded only through a sideways chain
	for _, p := range []core.Pos{core.P(2, 1), core.P(2, 2), core.P(3, 2)} {
		if !b.Cell(p.Row, p.Col).Filled {
			t.Errorf("tile at %v is connected to the floor and should stay", p)
		}
	}
}

func TestPruneEmptyFloorRemovesEverything(t *testing.T) {
	b := loadBoard(t, 3, 4, [][]int{
		{0, 4, 0},
		{2, 8, 0},
		{0, 0, 0},
	})

	removed, gained := b.Prune()

	if removed != 3 || gained != 14 {
		t.Errorf("Prune() = (%d, %d), want (3, 14)", removed, gained)
	}
	if b.TileCount() != 0 {
		t.Errorf("TileCount() = %d, want 0", b.TileCount())
	}
}

func TestClearRowsConsecutive(t *testing.T) {
	b := loadBoard(t, 3, 5, [][]int{
		{0, 0, 0},
		{16, 0, 0},
		{8, 2, 8},
		{4, 2, 4},
		{2, 4, 2},
	})

	cleared, gained := b.ClearRows()

	if cleared != 3 {
		t.Errorf("cleared = %d, want 3", cleared)
	}
	if gained != 8+10+18 {
		t.Errorf("gained = %d, want 36", gained)
	}
	if got := b.Cell(0, 0).Value(); got != 16 {
		t.Errorf("Cell(0,0) = %d, want 16 dropped from row 3", got)
	}
	if b.TileCount() != 1 {
		t.Errorf("TileCount() = %d, want 1", b.TileCount())
	}
}

func TestSettleCompletesRow(t *testing.T) {
	b := loadBoard(t, 4, 6, [][]int{
		{0, 0, 32, 0},
		{2, 4, 0, 4},
	})

	rep := b.SettleReport(MustPattern([][]int{{8}}), core.P(0, 2))

	if rep.RowsCleared != 1 || rep.ClearScore != 18 {
		t.Errorf("RowsCleared = %d, ClearScore = %d, want 1 and 18", rep.RowsCleared, rep.ClearScore)
	}
	if got := b.Cell(0, 2).Value(); got != 32 {
		t.Errorf("Cell(0,2) = %d, want 32 shifted down", got)
	}
	if b.Score() != 18 {
		t.Errorf("Score() = %d, want 18", b.Score())
	}
}

func TestSettlePhaseOrder(t *testing.T) {
	// The 64 is held up only by the freshly placed 2. Once merging collapses
	// column 0 it is left floating, so pruning must run on the merged board.
	b := loadBoard(t, 3, 5, [][]int{
		{0, 0, 0},
		{0, 0, 0},
		{0, 64, 0},
		{2, 0, 0},
		{4, 0, 0},
	})

	rep := b.SettleReport(MustPattern([][]int{{2}}), core.P(2, 0))

	// 2+2 -> 4, 4+4 -> 8: the column collapses to a single 8
	if rep.Merges != 2 || rep.MergeScore != 12 {
		t.Errorf("merges = %d (%d pts), want 2 (12 pts)", rep.Merges, rep.MergeScore)
	}
	if rep.Pruned != 1 || rep.PruneScore != 64 {
		t.Errorf("pruned = %d (%d pts), want 1 (64 pts)", rep.Pruned, rep.PruneScore)
	}
	if rep.ScoreAfter != 76 || rep.Gained() != 76 {
		t.Errorf("ScoreAfter = %d, Gained = %d, want 76", rep.ScoreAfter, rep.Gained())
	}
}

func TestSettleWinThreshold(t *testing.T) {
	b := loadBoard(t, 4, 6, [][]int{{1024, 0, 0, 0}})

	rep := b.SettleReport(MustPattern([][]int{{1024}}), core.P(1, 0))

	if !rep.Won || !rep.GameOver {
		t.Errorf("reaching 2048 should end the game, got %+v", rep)
	}
	if b.Snapshot().State(b.WinScore()) != StateWon {
		t.Errorf("State() = %s, want won", b.Snapshot().State(b.WinScore()))
	}
}

func TestSettleCustomWinScore(t *testing.T) {
	b, _ := New(4, 6, WithWinScore(8))

	if b.Settle(MustPattern([][]int{{2}, {2}}), core.P(0, 0)) {
		t.Fatal("score 4 should not reach threshold 8")
	}
	if !b.Settle(MustPattern([][]int{{4}}), core.P(1, 0)) {
		t.Errorf("score %d should reach threshold 8", b.Score())
	}
}

func TestSettleEmptyPatternIsIdempotent(t *testing.T) {
	b, _ := New(4, 6)
	b.Settle(MustPattern([][]int{{2, 4}, {4, 8}}), core.P(0, 0))
	before := b.Snapshot()

	over := b.Settle(MustPattern([][]int{{0}}), core.P(0, 0))
	again := b.Settle(Pattern{}, core.P(0, 0))

	if over || again {
		t.Error("empty settlement should not end the game")
	}
	if !before.Equal(b.Snapshot()) {
		t.Errorf("empty settlement changed the board:\n%s\nwant\n%s",
			RenderASCII(b.Snapshot()), RenderASCII(before))
	}
}

func TestSettleAfterGameOverIsNoop(t *testing.T) {
	b, _ := New(4, 6)
	b.Settle(MustPattern([][]int{{2}}), core.P(6, 0))
	if !b.GameOver() {
		t.Fatal("expected overflow")
	}

	rep := b.SettleReport(MustPattern([][]int{{2}}), core.P(0, 0))

	if !rep.GameOver || rep.Placed != 0 {
		t.Errorf("settling a finished game should do nothing, got %+v", rep)
	}
	if b.TileCount() != 0 {
		t.Errorf("TileCount() = %d, want 0", b.TileCount())
	}
}

func TestObserverSeesEachPhase(t *testing.T) {
	var phases []Phase
	var scores []int
	observer := func(p Phase, s Snapshot) {
		phases = append(phases, p)
		scores = append(scores, s.Score)
	}

	b, _ := New(4, 6, WithObserver(observer))
	b.Settle(MustPattern([][]int{{2}, {2}}), core.P(0, 0))

	want := []Phase{PhasePlace, PhaseMerge, PhasePrune, PhaseClear}
	if len(phases) != len(want) {
		t.Fatalf("observer saw %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("phase %d = %s, want %s", i, phases[i], want[i])
		}
	}
	if scores[0] != 0 || scores[1] != 4 {
		t.Errorf("scores seen = %v, want 0 after place and 4 after merge", scores)
	}

	phases = nil
	b.Settle(MustPattern([][]int{{2}}), core.P(6, 0))
	if len(phases) != 1 || phases[0] != PhasePlace {
		t.Errorf("overflow should only report the place phase, got %v", phases)
	}
}

func TestPhaseString(t *testing.T) {
	names := map[Phase]string{
		PhasePlace: "place",
		PhaseMerge: "merge",
		PhasePrune: "prune",
		PhaseClear: "clear",
		Phase(99):  "unknown",
	}
	for p, want := range names {
		if p.String() != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(p), p.String(), want)
		}
	}
}

package engine

import (
	"errors"
	"testing"

	"github.com/hailam/checkersplay/internal/board"
)

func TestEvaluateBestMove(t *testing.T) {
	b := board.NewBoard()

	for _, algo := range []Algorithm{Minimax, AlphaBeta} {
		res, ok, err := EvaluateBestMove(b, board.White, algo, 3)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if !ok || res.Move.IsNone() {
			t.Fatalf("%s: no move from the opening board", algo)
		}
		if res.Nodes == 0 {
			t.Errorf("%s: no nodes counted", algo)
		}
		t.Logf("%s: %s score %d, %d nodes in %v", algo, res.Move, res.Score, res.Nodes, res.Elapsed)
	}
}

func TestEvaluateBestMoveErrors(t *testing.T) {
	b := board.NewBoard()

	if _, _, err := EvaluateBestMove(b, board.White, "negamax", 2); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("unknown algorithm error = %v, want ErrNotImplemented", err)
	}
	if _, _, err := EvaluateBestMove(b, board.White, Minimax, -1); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("negative depth error = %v, want ErrInvalidDepth", err)
	}

	res, ok, err := EvaluateBestMove(b, board.Black, AlphaBeta, 0)
	if err != nil || !ok || !res.Move.IsNone() || res.Score != 0 {
		t.Errorf("depth 0 = (%+v, %v, %v), want NoMove with score 0", res, ok, err)
	}

	blocked := mustParse(t, "8/8/8/8/8/b7/1w6/2w5")
	if _, ok, err := EvaluateBestMove(blocked, board.Black, Minimax, 2); err != nil || ok {
		t.Errorf("blocked side = (%v, %v), want not ok without error", ok, err)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
		err  bool
	}{
		{"minimax", Minimax, false},
		{"AlphaBeta", AlphaBeta, false},
		{" alphabeta ", AlphaBeta, false},
		{"mcts", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		got, err := ParseAlgorithm(tc.in)
		if tc.err {
			if !errors.Is(err, ErrNotImplemented) {
				t.Errorf("ParseAlgorithm(%q) error = %v, want ErrNotImplemented", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseAlgorithm(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestDifficulty(t *testing.T) {
	eng := NewEngine()
	if eng.Limits().Depth != 4 || eng.Limits().Algorithm != AlphaBeta {
		t.Errorf("default limits = %+v, want medium", eng.Limits())
	}

	want := map[Difficulty]int{Easy: 2, Medium: 4, Hard: 6}
	for d, depth := range want {
		eng.SetDifficulty(d)
		if eng.Limits().Depth != depth {
			t.Errorf("%s depth = %d, want %d", d, eng.Limits().Depth, depth)
		}

		parsed, err := ParseDifficulty(d.String())
		if err != nil || parsed != d {
			t.Errorf("ParseDifficulty(%s) = %v, %v", d, parsed, err)
		}
	}

	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("ParseDifficulty accepted an unknown level")
	}
}

func TestEngineSettings(t *testing.T) {
	eng := NewEngine()

	if err := eng.SetDepth(-2); !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("SetDepth(-2) error = %v", err)
	}
	if err := eng.SetAlgorithm("random"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("SetAlgorithm(random) error = %v", err)
	}
	if err := eng.SetDepth(1); err != nil {
		t.Fatal(err)
	}
	if err := eng.SetAlgorithm(Minimax); err != nil {
		t.Fatal(err)
	}

	var infos []SearchInfo
	eng.OnInfo = func(info SearchInfo) { infos = append(infos, info) }

	res, ok, err := eng.Search(board.NewBoard(), board.White)
	if err != nil || !ok {
		t.Fatalf("Search = %v, %v", ok, err)
	}
	if res.Move.String() != "a3-b4" {
		t.Errorf("depth 1 move = %s, want a3-b4", res.Move)
	}
	if len(infos) != 1 {
		t.Fatalf("OnInfo called %d times, want 1", len(infos))
	}
	if infos[0].Algorithm != Minimax || infos[0].Depth != 1 || infos[0].Nodes != res.Nodes {
		t.Errorf("info = %+v", infos[0])
	}
}

func TestEnginePerft(t *testing.T) {
	eng := NewEngine()
	want := []uint64{1, 7, 49, 302}

	for depth, n := range want {
		if got := eng.Perft(board.NewBoard(), board.White, depth); got != n {
			t.Errorf("Perft(%d) = %d, want %d", depth, got, n)
		}
	}
}

func TestScoreToString(t *testing.T) {
	tests := map[int]string{
		0:         "0",
		3:         "+3",
		-12:       "-12",
		WinScore:  "White wins",
		-WinScore: "Black wins",
	}
	for score, want := range tests {
		if got := ScoreToString(score); got != want {
			t.Errorf("ScoreToString(%d) = %q, want %q", score, got, want)
		}
	}
}

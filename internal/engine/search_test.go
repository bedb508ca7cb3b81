package engine

import (
	"testing"

	"github.com/hailam/checkersplay/internal/board"
)

// Boards with pending captures on at least one side.
var midgameNotations = []string{
	"1b1b1b2/w5b1/7w/8/8/8/8/8",
	"8/W7/1B6/8/8/8/8/8",
	"1b6/2w5/8/8/3b1b2/4w1w1/1w6/8",
	"8/8/8/4b1b1/8/2b5/1w6/8",
}

func mustParse(t *testing.T, notation string) board.Board {
	t.Helper()
	b, err := board.ParseBoard(notation)
	if err != nil {
		t.Fatalf("ParseBoard(%q): %v", notation, err)
	}
	return b
}

func sameMove(a, b board.Move) bool {
	if a.IsNone() || b.IsNone() {
		return a.IsNone() == b.IsNone()
	}
	return a.Equal(b)
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	notations := append([]string{board.StartNotation}, midgameNotations...)

	for _, n := range notations {
		b := mustParse(t, n)
		for _, c := range []board.Color{board.White, board.Black} {
			for depth := 0; depth <= 4; depth++ {
				mm, ab := NewSearcher(), NewSearcher()
				mMove, mScore, mOK := mm.Minimax(b, c, depth)
				aMove, aScore, aOK := ab.AlphaBeta(b, c, -Infinity, Infinity, depth)

				if mOK != aOK || mScore != aScore || !sameMove(mMove, aMove) {
					t.Errorf("%s %s depth %d: minimax (%s, %d, %v) alphabeta (%s, %d, %v)",
						n, c, depth, mMove, mScore, mOK, aMove, aScore, aOK)
				}
				if ab.Nodes() > mm.Nodes() {
					t.Errorf("%s %s depth %d: alphabeta visited %d nodes, minimax %d",
						n, c, depth, ab.Nodes(), mm.Nodes())
				}
			}
		}
	}
}

func TestDepthZero(t *testing.T) {
	b := mustParse(t, "8/8/3b4/8/8/4W3/8/8")
	s := NewSearcher()

	move, score, ok := s.Minimax(b, board.White, 0)
	if !ok || !move.IsNone() || score != Evaluate(b) {
		t.Errorf("Minimax depth 0 = (%s, %d, %v), want (none, %d, true)", move, score, ok, Evaluate(b))
	}

	move, score, ok = s.AlphaBeta(b, board.Black, -Infinity, Infinity, 0)
	if !ok || !move.IsNone() || score != 4 {
		t.Errorf("AlphaBeta depth 0 = (%s, %d, %v), want (none, 4, true)", move, score, ok)
	}
}

func TestNoMovesIsNotOK(t *testing.T) {
	blocked := mustParse(t, "8/8/8/8/8/b7/1w6/2w5")
	empty := board.EmptyBoard()

	tests := []struct {
		name string
		b    board.Board
		c    board.Color
	}{
		{"blocked black", blocked, board.Black},
		{"empty white", empty, board.White},
		{"empty black", empty, board.Black},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for depth := 1; depth <= 3; depth++ {
				if _, _, ok := NewSearcher().Minimax(tc.b, tc.c, depth); ok {
					t.Errorf("Minimax depth %d reported a move", depth)
				}
				if _, _, ok := NewSearcher().AlphaBeta(tc.b, tc.c, -Infinity, Infinity, depth); ok {
					t.Errorf("AlphaBeta depth %d reported a move", depth)
				}
			}
		})
	}
}

func TestOpeningDepthOne(t *testing.T) {
	b := board.NewBoard()
	s := NewSearcher()

	move, score, ok := s.Minimax(b, board.White, 1)
	if !ok {
		t.Fatal("no move from the opening board")
	}
	if move.From != board.NewSquare(0, 5) || move.To != board.NewSquare(1, 4) {
		t.Errorf("best move = %s, want a3-b4 (first of equal moves)", move)
	}
	if score != 0 {
		t.Errorf("score = %d, want 0", score)
	}
	if s.Nodes() != 8 {
		t.Errorf("nodes = %d, want 8", s.Nodes())
	}

	s.Reset()
	s.Minimax(b, board.White, 2)
	if s.Nodes() != 1+7+49 {
		t.Errorf("depth 2 nodes = %d, want 57", s.Nodes())
	}
}

func TestWinningCapture(t *testing.T) {
	b := mustParse(t, "8/8/3b4/4w3/8/8/8/8")

	for _, depth := range []int{1, 2, 3} {
		move, score, ok := NewSearcher().AlphaBeta(b, board.Black, -Infinity, Infinity, depth)
		if !ok {
			t.Fatalf("depth %d: no move", depth)
		}
		if move.String() != "d6xf4" {
			t.Errorf("depth %d: move = %s, want d6xf4", depth, move)
		}
		if score != -WinScore {
			t.Errorf("depth %d: score = %d, want %d", depth, score, -WinScore)
		}
	}
}

func TestMaximizerAvoidsLoss(t *testing.T) {
	// d2-c3 walks into b4's capture and loses the last white piece.
	b := mustParse(t, "8/8/8/8/1b6/8/3w4/8")

	move, score, ok := NewSearcher().Minimax(b, board.White, 2)
	if !ok {
		t.Fatal("no move")
	}
	if move.String() != "d2-e3" || score != 0 {
		t.Errorf("white plays %s (score %d), want d2-e3 (score 0)", move, score)
	}
}

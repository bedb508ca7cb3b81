package board

import (
	"errors"
	"testing"
)

// Positions used across the move generator tests.
const (
	// White man on b2 can jump c3 then e5, ending on f6. Black's c3 can jump b2.
	chainNotation = "8/8/8/4b1b1/8/2b5/1w6/8"
	// Three white captures and four black captures are available.
	crossfireNotation = "1b6/2w5/8/8/3b1b2/4w1w1/8/8"
	// One black man next to one white man with an empty landing square.
	singleCaptureNotation = "8/8/3b4/4w3/8/8/8/8"
	// White man on b6 jumps c7 into d8, is promoted and jumps e7 backwards.
	promotionChainNotation = "8/2b1b3/1w6/8/8/8/8/8"
)

func mustParse(t *testing.T, notation string) Board {
	t.Helper()
	b, err := ParseBoard(notation)
	if err != nil {
		t.Fatalf("ParseBoard(%q): %v", notation, err)
	}
	return b
}

func mustMoves(t *testing.T, b Board, sq Square) []Move {
	t.Helper()
	moves, err := MovesFor(b, sq)
	if err != nil {
		t.Fatalf("MovesFor(%s): %v", sq, err)
	}
	return moves
}

func TestOpeningMovesFor(t *testing.T) {
	b := NewBoard()

	moves := mustMoves(t, b, NewSquare(2, 5))
	want := []Square{NewSquare(1, 4), NewSquare(3, 4)}
	if len(moves) != len(want) {
		t.Fatalf("MovesFor(c3) returned %d moves, want %d", len(moves), len(want))
	}
	for i, m := range moves {
		if m.From != NewSquare(2, 5) || m.To != want[i] {
			t.Errorf("move %d = %s, want c3-%s", i, m, want[i])
		}
		if m.IsCapture() {
			t.Errorf("move %d is a capture on the opening board", i)
		}
		if cell := m.Result.at(want[i]); cell != WhiteMan {
			t.Errorf("move %d: destination holds %s, want white man", i, cell)
		}
		if cell := m.Result.at(m.From); cell != DarkSquare {
			t.Errorf("move %d: origin holds %s, want empty", i, cell)
		}
	}

	// The source board is untouched.
	if b != NewBoard() {
		t.Error("MovesFor modified the source board")
	}
}

func TestOpeningAvailableMoves(t *testing.T) {
	b := NewBoard()
	for _, c := range []Color{White, Black} {
		moves := AvailableMoves(b, c)
		if len(moves) != 7 {
			t.Errorf("%s has %d opening moves, want 7", c, len(moves))
		}
		if eat := CanEat(b, c); len(eat) != 0 {
			t.Errorf("%s can eat on the opening board: %v", c, eat)
		}
	}

	// Generation order: row-major pieces, forward-left before forward-right.
	first := AvailableMoves(b, White)[0]
	if first.From != NewSquare(0, 5) || first.To != NewSquare(1, 4) {
		t.Errorf("first white move = %s, want a3-b4", first)
	}
}

func TestMovesForEmptySquare(t *testing.T) {
	b := NewBoard()
	for _, sq := range []Square{NewSquare(0, 0), NewSquare(1, 4), NewSquare(3, 3)} {
		moves := mustMoves(t, b, sq)
		if len(moves) != 0 {
			t.Errorf("MovesFor(%s) on empty square returned %d moves", sq, len(moves))
		}
	}
}

func TestMovesForOutOfBounds(t *testing.T) {
	b := NewBoard()
	for _, sq := range []Square{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {9, 9}} {
		if _, err := MovesFor(b, sq); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("MovesFor(%v) error = %v, want ErrOutOfBounds", sq, err)
		}
	}
}

func TestSingleCapture(t *testing.T) {
	b := mustParse(t, singleCaptureNotation)
	black := NewSquare(3, 2)

	eat := CanEat(b, Black)
	if len(eat) != 1 || eat[0] != black {
		t.Fatalf("CanEat(black) = %v, want [%s]", eat, black)
	}

	moves := AvailableMoves(b, Black)
	if len(moves) != 1 {
		t.Fatalf("AvailableMoves(black) returned %d moves, want 1", len(moves))
	}
	m := moves[0]
	if m.From != black || m.To != NewSquare(5, 4) {
		t.Errorf("capture = %s, want d6xf4", m)
	}
	if len(m.Captured) != 1 || m.Captured[0] != NewSquare(4, 3) {
		t.Errorf("captured = %v, want [e5]", m.Captured)
	}
	if men, kings := m.Result.Count(White); men+kings != 0 {
		t.Errorf("white still has %d pieces after the capture", men+kings)
	}
}

func TestForcedCapture(t *testing.T) {
	b := mustParse(t, chainNotation)

	eat := CanEat(b, Black)
	if len(eat) != 1 || eat[0] != NewSquare(2, 5) {
		t.Fatalf("CanEat(black) = %v, want [c3]", eat)
	}

	for _, m := range AvailableMoves(b, Black) {
		if !m.IsCapture() {
			t.Errorf("plain move %s offered while a capture is pending", m)
		}
	}

	// e5 has plain moves of its own but must stay put.
	if moves := mustMoves(t, b, NewSquare(4, 3)); len(moves) != 0 {
		t.Errorf("MovesFor(e5) returned %d moves while c3 must capture", len(moves))
	}
}

func TestCaptureChainIsMaximal(t *testing.T) {
	b := mustParse(t, chainNotation)
	from := NewSquare(1, 6)

	moves := mustMoves(t, b, from)
	if len(moves) != 1 {
		t.Fatalf("MovesFor(b2) returned %d moves, want 1: %v", len(moves), moves)
	}

	m := moves[0]
	if m.String() != "b2xd4xf6" {
		t.Errorf("chain = %s, want b2xd4xf6", m)
	}
	for _, other := range moves {
		if other.To == NewSquare(3, 4) {
			t.Errorf("intermediate hop to d4 returned as a move")
		}
	}
	wantCaptured := []Square{NewSquare(2, 5), NewSquare(4, 3)}
	if !samePath(m.Captured, wantCaptured) {
		t.Errorf("captured = %v, want %v", m.Captured, wantCaptured)
	}

	want := mustParse(t, "8/8/5w2/6b1/8/8/8/8")
	if m.Result != want {
		t.Errorf("result board = %s, want %s", m.Result.Notation(), want.Notation())
	}
}

func TestCrossfireCaptures(t *testing.T) {
	b := mustParse(t, crossfireNotation)

	tests := []struct {
		color Color
		want  []string
	}{
		{White, []string{"e3xc5", "e3xg5", "g3xe5"}},
		{Black, []string{"b8xd6", "d4xf2", "f4xd2", "f4xh2"}},
	}

	for _, tc := range tests {
		t.Run(tc.color.String(), func(t *testing.T) {
			moves := AvailableMoves(b, tc.color)
			if len(moves) != len(tc.want) {
				t.Fatalf("got %d moves %v, want %v", len(moves), moves, tc.want)
			}
			for i, m := range moves {
				if m.String() != tc.want[i] {
					t.Errorf("move %d = %s, want %s", i, m, tc.want[i])
				}
			}
		})
	}
}

func TestPromotion(t *testing.T) {
	b := mustParse(t, "8/2w5/8/8/8/8/8/8")
	from := NewSquare(2, 1)

	moves := mustMoves(t, b, from)
	if len(moves) != 2 {
		t.Fatalf("MovesFor(c7) returned %d moves, want 2", len(moves))
	}
	promoted := moves[0]
	if cell := promoted.Result.at(promoted.To); cell != WhiteKing {
		t.Fatalf("man on %s is %s, want white king", promoted.To, cell)
	}

	// The new king now has the backward diagonals.
	kingMoves := mustMoves(t, promoted.Result, promoted.To)
	if len(kingMoves) != 2 {
		t.Fatalf("king on %s has %d moves, want 2", promoted.To, len(kingMoves))
	}
	for _, m := range kingMoves {
		if m.To.Y != promoted.To.Y+1 {
			t.Errorf("king move %s is not backward", m)
		}
	}
}

func TestBlackPromotionByCapture(t *testing.T) {
	b := mustParse(t, chainNotation)

	moves := AvailableMoves(b, Black)
	if len(moves) != 1 {
		t.Fatalf("AvailableMoves(black) returned %d moves, want 1", len(moves))
	}
	if cell := moves[0].Result.at(NewSquare(0, 7)); cell != BlackKing {
		t.Errorf("capturing man landed as %s, want black king", cell)
	}
}

func TestChainContinuesAfterPromotion(t *testing.T) {
	b := mustParse(t, promotionChainNotation)

	moves := mustMoves(t, b, NewSquare(1, 2))
	if len(moves) != 1 {
		t.Fatalf("MovesFor(b6) returned %d moves, want 1: %v", len(moves), moves)
	}
	m := moves[0]
	if m.String() != "b6xd8xf6" {
		t.Errorf("chain = %s, want b6xd8xf6", m)
	}
	if cell := m.Result.at(NewSquare(5, 2)); cell != WhiteKing {
		t.Errorf("piece on f6 is %s, want white king", cell)
	}
	if men, kings := m.Result.Count(Black); men+kings != 0 {
		t.Errorf("black still has %d pieces", men+kings)
	}
}

func TestKingCapturesBackward(t *testing.T) {
	// White king on a7 with a black king on b6 and c5 empty.
	b := mustParse(t, "8/W7/1B6/8/8/8/8/8")

	eat := CanEat(b, White)
	if len(eat) != 1 || eat[0] != NewSquare(0, 1) {
		t.Fatalf("CanEat(white) = %v, want [a7]", eat)
	}
	moves := AvailableMoves(b, White)
	if len(moves) != 1 || moves[0].To != NewSquare(2, 3) {
		t.Errorf("AvailableMoves(white) = %v, want [a7xc5]", moves)
	}

	// A man on the same square has no capture.
	man := mustParse(t, "8/w7/1B6/8/8/8/8/8")
	if eat := CanEat(man, White); len(eat) != 0 {
		t.Errorf("man captured backward: %v", eat)
	}
}

func TestHasMovesMatchesAvailableMoves(t *testing.T) {
	notations := []string{
		StartNotation,
		chainNotation,
		crossfireNotation,
		singleCaptureNotation,
		promotionChainNotation,
		"8/8/8/8/8/b7/1w6/2w5", // black blocked
		"1b1b1b2/w5b1/7w/8/8/8/8/8",
	}

	for _, n := range notations {
		b := mustParse(t, n)
		for _, c := range []Color{White, Black} {
			want := len(AvailableMoves(b, c)) > 0
			if got := HasMoves(b, c); got != want {
				t.Errorf("%s %s: HasMoves = %v, want %v", n, c, got, want)
			}
		}
	}
}

func TestParseMove(t *testing.T) {
	b := NewBoard()

	m, err := ParseMove("c3-d4", b, White)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m.From != NewSquare(2, 5) || m.To != NewSquare(3, 4) {
		t.Errorf("parsed %s, want c3-d4", m)
	}

	if _, err := ParseMove("c3d4", b, White); err != nil {
		t.Errorf("ParseMove(c3d4): %v", err)
	}
	if _, err := ParseMove("c3-c4", b, White); err == nil {
		t.Error("ParseMove accepted an illegal move")
	}
	if _, err := ParseMove("c3-d4", b, Black); err == nil {
		t.Error("ParseMove accepted a white move for black")
	}

	chain := mustParse(t, chainNotation)
	for _, s := range []string{"b2xd4xf6", "b2xf6", "b2-f6"} {
		if _, err := ParseMove(s, chain, White); err != nil {
			t.Errorf("ParseMove(%s): %v", s, err)
		}
	}
	if _, err := ParseMove("b2xd4", chain, White); err == nil {
		t.Error("ParseMove accepted an incomplete chain")
	}
}

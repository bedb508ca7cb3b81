package engine

import "github.com/hailam/checkersplay/internal/board"

// WinScore is the evaluation of a position where one side has no legal moves.
const WinScore = 200

// Evaluate returns the static evaluation of a board from White's perspective.
// A side without legal moves has lost: +WinScore when Black cannot move,
// -WinScore when White cannot. Otherwise the material balance (man 1, king 5).
func Evaluate(b board.Board) int {
	if !board.HasMoves(b, board.Black) {
		return WinScore
	}
	if !board.HasMoves(b, board.White) {
		return -WinScore
	}
	return b.Material()
}

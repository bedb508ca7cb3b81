package engine

import "github.com/hailam/checkersplay/internal/board"

// Infinity bounds every reachable score.
const Infinity = 30000

// Searcher performs minimax and alpha-beta searches.
// It holds no position state; only a node counter for reporting.
type Searcher struct {
	nodes uint64
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset clears the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// isMinimizing reports whether c minimizes the White-positive score.
func isMinimizing(c board.Color) bool {
	return c == board.Black
}

// Minimax returns the best move for c searched depth plies deep, with its score.
// At depth 0 it returns NoMove and the static evaluation. ok is false when c has
// no legal moves. Ties go to the first move in generation order.
func (s *Searcher) Minimax(b board.Board, c board.Color, depth int) (board.Move, int, bool) {
	s.nodes++
	if depth == 0 {
		return board.NoMove, Evaluate(b), true
	}

	minimizing := isMinimizing(c)
	bestMove := board.NoMove
	bestScore := -Infinity
	if minimizing {
		bestScore = Infinity
	}
	found := false

	for _, m := range board.AvailableMoves(b, c) {
		_, score, ok := s.Minimax(m.Result, c.Other(), depth-1)
		if !ok {
			score = Evaluate(m.Result)
		}

		if (minimizing && score < bestScore) || (!minimizing && score > bestScore) {
			bestScore = score
			bestMove = m
			found = true
		}
	}

	if !found {
		return board.NoMove, 0, false
	}
	return bestMove, bestScore, true
}

// AlphaBeta is Minimax with alpha-beta pruning. alpha is the score White can
// already guarantee, beta the score Black can. It returns the same move and
// score as Minimax for the same board, color and depth.
func (s *Searcher) AlphaBeta(b board.Board, c board.Color, alpha, beta, depth int) (board.Move, int, bool) {
	s.nodes++
	if depth == 0 {
		return board.NoMove, Evaluate(b), true
	}

	moves := board.AvailableMoves(b, c)
	bestMove := board.NoMove
	found := false

	if isMinimizing(c) {
		bestScore := Infinity
		for _, m := range moves {
			_, score, ok := s.AlphaBeta(m.Result, c.Other(), alpha, beta, depth-1)
			if !ok {
				score = Evaluate(m.Result)
			}
			if score < bestScore {
				bestScore = score
				bestMove = m
				found = true
				beta = min(beta, bestScore)
			}
			if beta <= alpha {
				break
			}
		}
		if !found {
			return board.NoMove, 0, false
		}
		return bestMove, bestScore, true
	}

	bestScore := -Infinity
	for _, m := range moves {
		_, score, ok := s.AlphaBeta(m.Result, c.Other(), alpha, beta, depth-1)
		if !ok {
			score = Evaluate(m.Result)
		}
		if score > bestScore {
			bestScore = score
			bestMove = m
			found = true
			alpha = max(alpha, bestScore)
		}
		if alpha >= beta {
			break
		}
	}
	if !found {
		return board.NoMove, 0, false
	}
	return bestMove, bestScore, true
}

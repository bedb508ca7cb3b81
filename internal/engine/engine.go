package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hailam/checkersplay/internal/board"
)

// Errors returned by the search entry points.
var (
	ErrNotImplemented = errors.New("search algorithm not implemented")
	ErrInvalidDepth   = errors.New("invalid search depth")
)

// Algorithm selects the search strategy.
type Algorithm string

const (
	Minimax   Algorithm = "minimax"
	AlphaBeta Algorithm = "alphabeta"
)

// ParseAlgorithm parses an algorithm name.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case Minimax, AlphaBeta:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrNotImplemented, s)
	}
}

// Result is the outcome of a search.
type Result struct {
	Move    board.Move // NoMove for depth 0
	Score   int
	Nodes   uint64
	Elapsed time.Duration
}

// EvaluateBestMove searches depth plies for the best move of player. ok is
// false when player has no legal moves. The call is synchronous and cannot be
// interrupted; hosts that need responsiveness run it on another goroutine.
func EvaluateBestMove(b board.Board, player board.Color, algo Algorithm, depth int) (Result, bool, error) {
	if depth < 0 {
		return Result{}, false, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}

	s := NewSearcher()
	start := time.Now()

	var (
		move  board.Move
		score int
		ok    bool
	)
	switch algo {
	case Minimax:
		move, score, ok = s.Minimax(b, player, depth)
	case AlphaBeta:
		move, score, ok = s.AlphaBeta(b, player, -Infinity, Infinity, depth)
	default:
		return Result{}, false, fmt.Errorf("%w: %q", ErrNotImplemented, algo)
	}

	return Result{
		Move:    move,
		Score:   score,
		Nodes:   s.Nodes(),
		Elapsed: time.Since(start),
	}, ok, nil
}

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Algorithm Algorithm
	Depth     int
	Score     int
	Nodes     uint64
	Time      time.Duration
	Move      board.Move
}

// SearchLimits specifies the search to run.
type SearchLimits struct {
	Depth     int
	Algorithm Algorithm
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 4 ply
	Hard                     // 6 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2, Algorithm: AlphaBeta},
	Medium: {Depth: 4, Algorithm: AlphaBeta},
	Hard:   {Depth: 6, Algorithm: AlphaBeta},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("invalid difficulty: %q", s)
	}
}

// Engine is the checkers AI as seen by a host. It only holds configuration;
// every search starts from scratch.
type Engine struct {
	limits SearchLimits

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with Medium difficulty.
func NewEngine() *Engine {
	return &Engine{limits: DifficultySettings[Medium]}
}

// SetDifficulty replaces depth and algorithm with the difficulty preset.
func (e *Engine) SetDifficulty(d Difficulty) {
	if limits, ok := DifficultySettings[d]; ok {
		e.limits = limits
	}
}

// SetDepth sets the search depth in plies.
func (e *Engine) SetDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	e.limits.Depth = depth
	return nil
}

// SetAlgorithm sets the search algorithm.
func (e *Engine) SetAlgorithm(algo Algorithm) error {
	if _, err := ParseAlgorithm(string(algo)); err != nil {
		return err
	}
	e.limits.Algorithm = algo
	return nil
}

// Limits returns the current search configuration.
func (e *Engine) Limits() SearchLimits {
	return e.limits
}

// Search finds the best move for player with the configured limits.
func (e *Engine) Search(b board.Board, player board.Color) (Result, bool, error) {
	return e.SearchWithLimits(b, player, e.limits)
}

// SearchWithLimits finds the best move for player with specific limits.
func (e *Engine) SearchWithLimits(b board.Board, player board.Color, limits SearchLimits) (Result, bool, error) {
	res, ok, err := EvaluateBestMove(b, player, limits.Algorithm, limits.Depth)
	if err != nil {
		return res, ok, err
	}

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Algorithm: limits.Algorithm,
			Depth:     limits.Depth,
			Score:     res.Score,
			Nodes:     res.Nodes,
			Time:      res.Elapsed,
			Move:      res.Move,
		})
	}

	return res, ok, nil
}

// Perft counts leaf nodes of the move tree (for debugging move generation).
func (e *Engine) Perft(b board.Board, player board.Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := board.AvailableMoves(b, player)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		nodes += e.Perft(m.Result, player.Other(), depth-1)
	}
	return nodes
}

// Evaluate returns the static evaluation of a board.
func (e *Engine) Evaluate(b board.Board) int {
	return Evaluate(b)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	switch {
	case score >= WinScore:
		return "White wins"
	case score <= -WinScore:
		return "Black wins"
	case score > 0:
		return "+" + itoa(score)
	default:
		return itoa(score)
	}
}

// Simple integer to string (avoid strconv import)
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}

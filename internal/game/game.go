// Package game tracks a checkers game between two sides: whose turn it is,
// the moves played and how the game ended.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/checkersplay/internal/board"
	"github.com/hailam/checkersplay/internal/engine"
)

var (
	// ErrInvalidMoveReference is returned when a move was not generated from
	// the session's current board.
	ErrInvalidMoveReference = errors.New("move does not belong to the current board")
	ErrGameOver             = errors.New("game is over")
)

// MaxQuietPlies is the default number of plies without a capture or a man
// move after which the game is drawn.
const MaxQuietPlies = 80

// Outcome is the result of a game.
type Outcome int

const (
	Ongoing Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

// String returns the outcome in the usual score form.
func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Session is a single game.
type Session struct {
	ID      uuid.UUID
	Started time.Time

	// QuietLimit overrides MaxQuietPlies; zero or less disables the rule.
	QuietLimit int

	start      board.Board
	startColor board.Color
	board      board.Board
	toMove     board.Color

	history    []board.Move
	hashes     []uint64
	quietPlies int

	outcome Outcome
	result  string
}

// NewSession starts a game from the standard opening, White to move.
func NewSession() *Session {
	s, _ := NewSessionFrom(board.NewBoard(), board.White)
	return s
}

// NewSessionFrom starts a game from an arbitrary board.
func NewSessionFrom(b board.Board, toMove board.Color) (*Session, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		ID:         uuid.New(),
		Started:    time.Now(),
		start:      b,
		startColor: toMove,
		board:      b,
		toMove:     toMove,
		QuietLimit: MaxQuietPlies,
	}
	s.hashes = []uint64{s.key()}
	s.checkGameEnd()
	return s, nil
}

// Board returns the current board.
func (s *Session) Board() board.Board {
	return s.board
}

// StartBoard returns the board the game started from.
func (s *Session) StartBoard() board.Board {
	return s.start
}

// StartColor returns the side that moved first.
func (s *Session) StartColor() board.Color {
	return s.startColor
}

// ToMove returns the side to move.
func (s *Session) ToMove() board.Color {
	return s.toMove
}

// History returns the moves played so far.
func (s *Session) History() []board.Move {
	return s.history
}

// Moves returns the legal moves of the side to move.
func (s *Session) Moves() []board.Move {
	if s.IsOver() {
		return nil
	}
	return board.AvailableMoves(s.board, s.toMove)
}

// Outcome returns the current outcome.
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// Result returns a description of how the game ended, or "" while it runs.
func (s *Session) Result() string {
	return s.result
}

// IsOver reports whether the game has ended.
func (s *Session) IsOver() bool {
	return s.outcome != Ongoing
}

// QuietPlies returns the plies played since the last capture or man move.
func (s *Session) QuietPlies() int {
	return s.quietPlies
}

// Apply plays m, which must be one of Moves().
func (s *Session) Apply(m board.Move) error {
	if s.IsOver() {
		return fmt.Errorf("%w: %s", ErrGameOver, s.result)
	}
	if !s.isLegal(m) {
		return fmt.Errorf("%w: %s", ErrInvalidMoveReference, m)
	}

	piece, _ := s.board.CellAt(m.From)
	if m.IsCapture() || !piece.IsKing() {
		s.quietPlies = 0
	} else {
		s.quietPlies++
	}

	s.board = m.Result
	s.toMove = s.toMove.Other()
	s.history = append(s.history, m)
	s.hashes = append(s.hashes, s.key())

	s.checkGameEnd()
	return nil
}

// ApplyText parses move text against the current board and plays it.
func (s *Session) ApplyText(text string) (board.Move, error) {
	if s.IsOver() {
		return board.NoMove, fmt.Errorf("%w: %s", ErrGameOver, s.result)
	}
	m, err := board.ParseMove(text, s.board, s.toMove)
	if err != nil {
		return board.NoMove, err
	}
	return m, s.Apply(m)
}

func (s *Session) isLegal(m board.Move) bool {
	for _, legal := range board.AvailableMoves(s.board, s.toMove) {
		if legal.Equal(m) {
			return true
		}
	}
	return false
}

// key is the repetition key of the current board and side to move.
func (s *Session) key() uint64 {
	h := s.board.Hash()
	if s.toMove == board.Black {
		h ^= board.ZobristSide()
	}
	return h
}

// checkGameEnd checks if the game is over.
func (s *Session) checkGameEnd() {
	switch {
	case !board.HasMoves(s.board, s.toMove):
		winner := s.toMove.Other()
		if winner == board.White {
			s.outcome = WhiteWins
		} else {
			s.outcome = BlackWins
		}
		s.result = fmt.Sprintf("%s wins: %s has no moves", winner, s.toMove)
	case s.isThreefoldRepetition():
		s.outcome = Draw
		s.result = "Draw by threefold repetition"
	case s.QuietLimit > 0 && s.quietPlies >= s.QuietLimit:
		s.outcome = Draw
		s.result = fmt.Sprintf("Draw after %d plies without progress", s.quietPlies)
	default:
		return
	}
	log.Printf("[GAME] %s after %d plies (%s)", s.outcome, len(s.history), s.result)
}

// isThreefoldRepetition checks if the current board has occurred 3 times with
// the same side to move.
func (s *Session) isThreefoldRepetition() bool {
	current := s.hashes[len(s.hashes)-1]
	count := 0
	for _, h := range s.hashes {
		if h == current {
			count++
		}
	}
	return count >= 3
}

// Think searches the current board with eng on a separate goroutine. The
// search cannot be interrupted: cancelling ctx only stops waiting for it, and
// its result is dropped. ok is false when the side to move has no moves.
func (s *Session) Think(ctx context.Context, eng *engine.Engine) (engine.Result, bool, error) {
	if s.IsOver() {
		return engine.Result{}, false, fmt.Errorf("%w: %s", ErrGameOver, s.result)
	}

	if err := ctx.Err(); err != nil {
		return engine.Result{}, false, err
	}

	type searchResult struct {
		res engine.Result
		ok  bool
		err error
	}

	b, c := s.board, s.toMove
	done := make(chan searchResult, 1)

	log.Printf("[AI] Starting search - ToMove=%s Depth=%d", c, eng.Limits().Depth)
	go func() {
		res, ok, err := eng.Search(b, c)
		done <- searchResult{res, ok, err}
	}()

	select {
	case r := <-done:
		if r.err == nil && r.ok {
			log.Printf("[AI] Received move from engine: %s (score %d, %d nodes)", r.res.Move, r.res.Score, r.res.Nodes)
		}
		return r.res, r.ok, r.err
	case <-ctx.Done():
		log.Printf("[AI] Stopped waiting for search: %v", ctx.Err())
		return engine.Result{}, false, ctx.Err()
	}
}

// PlayEngineMove lets eng choose a move and plays it.
func (s *Session) PlayEngineMove(ctx context.Context, eng *engine.Engine) (board.Move, error) {
	res, ok, err := s.Think(ctx, eng)
	if err != nil {
		return board.NoMove, err
	}
	if !ok {
		return board.NoMove, fmt.Errorf("%w: %s has no moves", ErrGameOver, s.toMove)
	}
	if res.Move.IsNone() {
		return board.NoMove, fmt.Errorf("%w: search depth %d returns no move", engine.ErrInvalidDepth, eng.Limits().Depth)
	}
	return res.Move, s.Apply(res.Move)
}

// MoveTexts returns the history as move strings.
func (s *Session) MoveTexts() []string {
	texts := make([]string, len(s.history))
	for i, m := range s.history {
		texts[i] = m.String()
	}
	return texts
}

// Notation returns the numbered move log, e.g. "1. c3-d4 f6-e5 2. ...",
// followed by the outcome.
func (s *Session) Notation() string {
	var sb strings.Builder
	num := 1
	white := s.startColor == board.White

	for i, m := range s.history {
		if white {
			fmt.Fprintf(&sb, "%d. ", num)
		} else if i == 0 {
			fmt.Fprintf(&sb, "%d... ", num)
		}
		sb.WriteString(m.String())
		sb.WriteByte(' ')
		if !white {
			num++
		}
		white = !white
	}
	sb.WriteString(s.outcome.String())
	return sb.String()
}

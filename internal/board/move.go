package board

import (
	"fmt"
	"strings"
)

// Move is a complete turn by one piece. It carries the board that results from
// playing it on the board it was generated from; Result is the only valid way to
// apply the move.
type Move struct {
	From     Square   // square the piece started on
	To       Square   // final landing square
	Path     []Square // every landing square in order; Path[len-1] == To
	Captured []Square // jumped squares, empty for plain moves
	Result   Board
}

// NoMove represents the absence of a move (e.g. a depth-0 search result).
var NoMove = Move{From: NoSquare, To: NoSquare}

// IsNone returns true for NoMove.
func (m Move) IsNone() bool {
	return m.From == NoSquare
}

// IsCapture returns true if the move jumps at least one piece.
func (m Move) IsCapture() bool {
	return len(m.Captured) > 0
}

// Equal reports whether two moves describe the same turn with the same outcome.
func (m Move) Equal(o Move) bool {
	if m.From != o.From || m.To != o.To || m.Result != o.Result {
		return false
	}
	if len(m.Path) != len(o.Path) {
		return false
	}
	for i := range m.Path {
		if m.Path[i] != o.Path[i] {
			return false
		}
	}
	return true
}

// String returns the move in text form: "c3-d4" for plain moves and
// "b2xd4xf6" for captures.
func (m Move) String() string {
	if m.IsNone() {
		return "none"
	}
	if !m.IsCapture() {
		return m.From.String() + "-" + m.To.String()
	}

	var sb strings.Builder
	sb.WriteString(m.From.String())
	for _, sq := range m.Path {
		sb.WriteByte('x')
		sb.WriteString(sq.String())
	}
	return sb.String()
}

// ParseMove matches move text against the legal moves of color c on b.
// "c3-d4", "c3d4" and "b2xf6" match on from/to (first match in generation
// order); a full capture path such as "b2xd4xf6" must match exactly.
func ParseMove(s string, b Board, c Color) (Move, error) {
	squares, err := parseMoveSquares(s)
	if err != nil {
		return NoMove, err
	}

	from, to := squares[0], squares[len(squares)-1]
	fullPath := len(squares) > 2

	for _, m := range AvailableMoves(b, c) {
		if m.From != from || m.To != to {
			continue
		}
		if fullPath && !samePath(m.Path, squares[1:]) {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("illegal move for %s: %s", c, s)
}

// parseMoveSquares splits move text into its squares.
func parseMoveSquares(s string) ([]Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == 'x' })
	if len(fields) == 1 && len(fields[0]) == 4 {
		fields = []string{fields[0][:2], fields[0][2:]}
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("invalid move string: %q", s)
	}

	squares := make([]Square, 0, len(fields))
	for _, f := range fields {
		sq, err := ParseSquare(f)
		if err != nil {
			return nil, err
		}
		squares = append(squares, sq)
	}
	return squares, nil
}

func samePath(a, b []Square) bool {
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

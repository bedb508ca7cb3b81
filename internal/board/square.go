// Package board implements the checkers board, move generation and move application.
package board

import "fmt"

// Square addresses a cell by column (X) and row (Y), both 0-7.
// Row 0 is Black's back rank and the top of the diagram; row 7 is White's.
type Square struct {
	X, Y int
}

// NoSquare marks the absence of a square (e.g. in NoMove).
var NoSquare = Square{X: -1, Y: -1}

// NewSquare creates a square from column and row.
func NewSquare(x, y int) Square {
	return Square{X: x, Y: y}
}

// IsValid returns true if both coordinates are on the board.
func (sq Square) IsValid() bool {
	return sq.X >= 0 && sq.X < 8 && sq.Y >= 0 && sq.Y < 8
}

// IsDark returns true for playable squares.
func (sq Square) IsDark() bool {
	return (sq.X+sq.Y)%2 == 1
}

// index returns the offset of the square in a Board. The square must be valid.
func (sq Square) index() int {
	return sq.Y*8 + sq.X
}

// Offset returns the square dx columns and dy rows away. The result may be invalid.
func (sq Square) Offset(dx, dy int) Square {
	return Square{X: sq.X + dx, Y: sq.Y + dy}
}

// String returns the algebraic name of the square ("c3" for X=2, Y=5).
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.X, '8'-sq.Y)
}

// ParseSquare parses algebraic notation (e.g. "c3") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	sq := Square{X: int(s[0]) - 'a', Y: '8' - int(s[1])}
	if !sq.IsValid() {
		return NoSquare, fmt.Errorf("%w: %q", ErrOutOfBounds, s)
	}
	return sq, nil
}

// checkSquare returns ErrOutOfBounds for squares outside the board.
func checkSquare(sq Square) error {
	if !sq.IsValid() {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, sq.X, sq.Y)
	}
	return nil
}

package board

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by board access.
var (
	ErrOutOfBounds     = errors.New("square out of bounds")
	ErrInvalidNotation = errors.New("invalid board notation")
	ErrWrongSquare     = errors.New("cell does not fit square color")
)

// Board is the 8x8 grid, indexed y*8+x. It is a value: assigning or passing a
// Board copies it, so a board handed out is never changed by later moves.
type Board [64]Cell

// EmptyBoard returns a board with every dark square empty.
func EmptyBoard() Board {
	var b Board
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if (x+y)%2 == 1 {
				b[y*8+x] = DarkSquare
			}
		}
	}
	return b
}

// NewBoard creates the starting position: black men on the dark squares of
// rows 0-2, white men on rows 5-7.
func NewBoard() Board {
	b := EmptyBoard()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b[y*8+x] != DarkSquare {
				continue
			}
			switch {
			case y < 3:
				b[y*8+x] = BlackMan
			case y > 4:
				b[y*8+x] = WhiteMan
			}
		}
	}
	return b
}

// CellAt returns the cell at sq.
func (b Board) CellAt(sq Square) (Cell, error) {
	if err := checkSquare(sq); err != nil {
		return LightSquare, err
	}
	return b[sq.index()], nil
}

// Replace returns a copy of the board with sq set to cell. Light squares only
// take LightSquare and dark squares never do.
func (b Board) Replace(sq Square, cell Cell) (Board, error) {
	if err := checkSquare(sq); err != nil {
		return b, err
	}
	if sq.IsDark() == (cell == LightSquare) {
		return b, fmt.Errorf("%w: %s on %s", ErrWrongSquare, cell, sq)
	}
	b[sq.index()] = cell
	return b, nil
}

// Copy returns an independent duplicate of the board.
func (b Board) Copy() Board {
	return b
}

// at reads a cell without bounds checking.
func (b *Board) at(sq Square) Cell {
	return b[sq.index()]
}

// remove empties a (dark) square.
func (b *Board) remove(sq Square) {
	b[sq.index()] = DarkSquare
}

// relocate moves the piece on from to to, promoting it if it reached the far row.
func (b *Board) relocate(from, to Square) {
	b[to.index()] = b.at(from).Promoted(to.Y)
	b.remove(from)
}

// Squares returns the squares holding pieces of color c in row-major order.
func (b Board) Squares(c Color) []Square {
	var squares []Square
	for i, cell := range b {
		if cell.Occupied() && cell.Color() == c {
			squares = append(squares, Square{X: i % 8, Y: i / 8})
		}
	}
	return squares
}

// Count returns the number of men and kings of color c.
func (b Board) Count(c Color) (men, kings int) {
	for _, cell := range b {
		if !cell.Occupied() || cell.Color() != c {
			continue
		}
		if cell.IsKing() {
			kings++
		} else {
			men++
		}
	}
	return men, kings
}

// Material returns the material balance (positive favors white).
func (b Board) Material() int {
	score := 0
	for _, cell := range b {
		score += cell.Value()
	}
	return score
}

// Validate checks the light-square invariant.
func (b Board) Validate() error {
	for i, cell := range b {
		sq := Square{X: i % 8, Y: i / 8}
		if sq.IsDark() {
			if cell == LightSquare {
				return fmt.Errorf("dark square %s marked light", sq)
			}
			continue
		}
		if cell != LightSquare {
			return fmt.Errorf("light square %s holds %s", sq, cell)
		}
	}
	return nil
}

// String returns a diagram of the board with row and column labels.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for y := 0; y < 8; y++ {
		fmt.Fprintf(&sb, "%d  ", 8-y)
		for x := 0; x < 8; x++ {
			sb.WriteByte(b[y*8+x].Char())
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}

package board

import (
	"fmt"
	"strings"
)

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// ParseColor parses "white"/"w" or "black"/"b" (case-insensitive).
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return White, fmt.Errorf("invalid color: %q", s)
	}
}

// Cell is the content of one board square packed into 3 bits:
// bit 2 = occupied, bit 1 = king, bit 0 = color (or dark square when empty).
type Cell uint8

const (
	LightSquare Cell = 0b000 // unplayable, always empty
	DarkSquare  Cell = 0b001 // playable and empty
	WhiteMan    Cell = 0b100
	BlackMan    Cell = 0b101
	WhiteKing   Cell = 0b110
	BlackKing   Cell = 0b111
)

const (
	occupiedBit Cell = 0b100
	kingBit     Cell = 0b010
	colorBit    Cell = 0b001
)

// Material values from White's perspective.
const (
	ManValue  = 1
	KingValue = 5
)

// NewPiece returns the cell holding a piece of the given color and rank.
func NewPiece(c Color, king bool) Cell {
	cell := occupiedBit | Cell(c)
	if king {
		cell |= kingBit
	}
	return cell
}

// Occupied returns true if the cell holds a piece.
func (c Cell) Occupied() bool {
	return c&occupiedBit != 0
}

// IsKing returns true if the cell holds a king.
func (c Cell) IsKing() bool {
	return c.Occupied() && c&kingBit != 0
}

// Color returns the color of the piece. Only meaningful for occupied cells.
func (c Cell) Color() Color {
	return Color(c & colorBit)
}

// IsEnemyOf returns true if the cell holds a piece of the other color.
func (c Cell) IsEnemyOf(color Color) bool {
	return c.Occupied() && c.Color() != color
}

// Value returns the material value of the cell: positive for white, negative for black.
func (c Cell) Value() int {
	if !c.Occupied() {
		return 0
	}
	v := ManValue
	if c.IsKing() {
		v = KingValue
	}
	if c.Color() == Black {
		return -v
	}
	return v
}

// Promoted returns the cell after landing on row y: men reaching the far row
// (0 for white, 7 for black) become kings.
func (c Cell) Promoted(y int) Cell {
	switch {
	case c == WhiteMan && y == 0:
		return WhiteKing
	case c == BlackMan && y == 7:
		return BlackKing
	}
	return c
}

// Char returns the notation character for the cell.
func (c Cell) Char() byte {
	switch c {
	case WhiteMan:
		return 'w'
	case WhiteKing:
		return 'W'
	case BlackMan:
		return 'b'
	case BlackKing:
		return 'B'
	case DarkSquare:
		return '.'
	default:
		return ' '
	}
}

// String returns the cell name.
func (c Cell) String() string {
	switch c {
	case LightSquare:
		return "light"
	case DarkSquare:
		return "dark"
	case WhiteMan:
		return "white man"
	case BlackMan:
		return "black man"
	case WhiteKing:
		return "white king"
	case BlackKing:
		return "black king"
	default:
		return fmt.Sprintf("Cell(%d)", uint8(c))
	}
}

// cellFromChar converts a notation character to a piece cell.
func cellFromChar(ch byte) (Cell, bool) {
	switch ch {
	case 'w':
		return WhiteMan, true
	case 'W':
		return WhiteKing, true
	case 'b':
		return BlackMan, true
	case 'B':
		return BlackKing, true
	default:
		return LightSquare, false
	}
}

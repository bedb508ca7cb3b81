package board

import (
	"fmt"
	"strings"
)

// StartNotation is the notation of the starting position.
const StartNotation = "1b1b1b1b/b1b1b1b1/1b1b1b1b/8/8/w1w1w1w1/1w1w1w1w/w1w1w1w1"

// ParseBoard parses board notation: eight rows from row 0 to row 7 separated by
// '/', with w/W for white men/kings, b/B for black men/kings and digits for runs
// of empty squares.
func ParseBoard(notation string) (Board, error) {
	rows := strings.Split(strings.TrimSpace(notation), "/")
	if len(rows) != 8 {
		return Board{}, fmt.Errorf("%w: need 8 rows, got %d", ErrInvalidNotation, len(rows))
	}

	b := EmptyBoard()
	for y, row := range rows {
		if err := parseRow(&b, y, row); err != nil {
			return Board{}, err
		}
	}
	return b, nil
}

// parseRow parses one row of notation into b.
func parseRow(b *Board, y int, row string) error {
	x := 0
	for i := 0; i < len(row); i++ {
		ch := row[i]

		if ch >= '1' && ch <= '8' {
			x += int(ch - '0')
			if x > 8 {
				return fmt.Errorf("%w: row %d is longer than 8 squares", ErrInvalidNotation, y)
			}
			continue
		}

		cell, ok := cellFromChar(ch)
		if !ok {
			return fmt.Errorf("%w: invalid character %q in row %d", ErrInvalidNotation, ch, y)
		}
		if x > 7 {
			return fmt.Errorf("%w: row %d is longer than 8 squares", ErrInvalidNotation, y)
		}
		sq := Square{X: x, Y: y}
		if !sq.IsDark() {
			return fmt.Errorf("%w: piece on light square %s", ErrInvalidNotation, sq)
		}
		b[sq.index()] = cell
		x++
	}

	if x != 8 {
		return fmt.Errorf("%w: row %d has %d squares", ErrInvalidNotation, y, x)
	}
	return nil
}

// Notation returns the board in the notation read by ParseBoard.
func (b Board) Notation() string {
	var sb strings.Builder

	for y := 0; y < 8; y++ {
		empty := 0
		for x := 0; x < 8; x++ {
			cell := b[y*8+x]
			if !cell.Occupied() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(cell.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if y < 7 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}

package board

// direction is a diagonal step.
type direction struct {
	dx, dy int
}

var (
	upLeft    = direction{-1, -1}
	upRight   = direction{1, -1}
	downLeft  = direction{-1, 1}
	downRight = direction{1, 1}
)

// moveRule enables a direction for pieces of one color, optionally kings only.
type moveRule struct {
	dir      direction
	color    Color
	kingOnly bool
}

// moveRules drives both plain moves and captures. Men move toward the opponent;
// kings additionally get the two backward diagonals. The order fixes generation
// order and therefore tie-breaking in search.
var moveRules = [...]moveRule{
	{upLeft, White, false},
	{upRight, White, false},
	{downLeft, Black, false},
	{downRight, Black, false},
	{downLeft, White, true},
	{downRight, White, true},
	{upLeft, Black, true},
	{upRight, Black, true},
}

// applies returns true if the rule is enabled for piece.
func (r moveRule) applies(piece Cell) bool {
	if piece.Color() != r.color {
		return false
	}
	return !r.kingOnly || piece.IsKing()
}

// step returns the plain move in direction d, if the destination is free.
func (b *Board) step(from Square, d direction) (Move, bool) {
	to := from.Offset(d.dx, d.dy)
	if !to.IsValid() || b.at(to) != DarkSquare {
		return Move{}, false
	}

	next := *b
	next.relocate(from, to)
	return Move{From: from, To: to, Path: []Square{to}, Result: next}, true
}

// jump returns the board after a single capture in direction d, if legal.
func (b *Board) jump(from Square, d direction) (next Board, over, to Square, ok bool) {
	over = from.Offset(d.dx, d.dy)
	to = from.Offset(2*d.dx, 2*d.dy)
	if !to.IsValid() {
		return next, over, to, false
	}

	piece := b.at(from)
	if !b.at(over).IsEnemyOf(piece.Color()) || b.at(to) != DarkSquare {
		return next, over, to, false
	}

	next = *b
	next.relocate(from, to)
	next.remove(over)
	return next, over, to, true
}

// canJump returns true if the piece on from has at least one single capture.
func (b *Board) canJump(from Square) bool {
	piece := b.at(from)
	for _, r := range moveRules {
		if !r.applies(piece) {
			continue
		}
		if _, _, _, ok := b.jump(from, r.dir); ok {
			return true
		}
	}
	return false
}

// plainMoves appends the non-capturing moves of the piece on from.
func (b *Board) plainMoves(from Square, out []Move) []Move {
	piece := b.at(from)
	for _, r := range moveRules {
		if !r.applies(piece) {
			continue
		}
		if m, ok := b.step(from, r.dir); ok {
			out = append(out, m)
		}
	}
	return out
}

// captureChains appends every maximal capture chain of the piece standing on
// at. origin, path and captured describe the hops already made this turn.
// A hop that can be extended is not appended on its own.
func (b *Board) captureChains(at, origin Square, path, captured []Square, out []Move) []Move {
	piece := b.at(at)
	for _, r := range moveRules {
		if !r.applies(piece) {
			continue
		}
		next, over, to, ok := b.jump(at, r.dir)
		if !ok {
			continue
		}

		hopPath := append(append([]Square(nil), path...), to)
		hopCaptured := append(append([]Square(nil), captured...), over)

		before := len(out)
		out = next.captureChains(to, origin, hopPath, hopCaptured, out)
		if len(out) == before {
			out = append(out, Move{
				From:     origin,
				To:       to,
				Path:     hopPath,
				Captured: hopCaptured,
				Result:   next,
			})
		}
	}
	return out
}

// sideCanJump returns true if any piece of color c has a capture.
func (b *Board) sideCanJump(c Color) bool {
	for i, cell := range b {
		if cell.Occupied() && cell.Color() == c && b.canJump(Square{X: i % 8, Y: i / 8}) {
			return true
		}
	}
	return false
}

// MovesFor returns the legal moves of the piece on sq. When any piece of the
// same color can capture, only capture chains are legal, so a piece without a
// capture gets no moves.
func MovesFor(b Board, sq Square) ([]Move, error) {
	cell, err := b.CellAt(sq)
	if err != nil {
		return nil, err
	}
	if !cell.Occupied() {
		return nil, nil
	}

	if b.sideCanJump(cell.Color()) {
		return b.captureChains(sq, sq, nil, nil, nil), nil
	}
	return b.plainMoves(sq, nil), nil
}

// AvailableMoves returns all legal moves for color c: every capture chain of
// every piece if any capture exists, otherwise every plain move.
func AvailableMoves(b Board, c Color) []Move {
	squares := b.Squares(c)

	var moves []Move
	for _, sq := range squares {
		moves = b.captureChains(sq, sq, nil, nil, moves)
	}
	if len(moves) > 0 {
		return moves
	}

	for _, sq := range squares {
		moves = b.plainMoves(sq, moves)
	}
	return moves
}

// CanEat returns the pieces of color c that have at least one capture.
func CanEat(b Board, c Color) []Square {
	var squares []Square
	for _, sq := range b.Squares(c) {
		if b.canJump(sq) {
			squares = append(squares, sq)
		}
	}
	return squares
}

// HasMoves reports whether color c has any legal move. It is equivalent to
// len(AvailableMoves(b, c)) > 0 without building the moves.
func HasMoves(b Board, c Color) bool {
	for _, sq := range b.Squares(c) {
		if b.canJump(sq) {
			return true
		}
		piece := b.at(sq)
		for _, r := range moveRules {
			if !r.applies(piece) {
				continue
			}
			to := sq.Offset(r.dir.dx, r.dir.dy)
			if to.IsValid() && b.at(to) == DarkSquare {
				return true
			}
		}
	}
	return false
}

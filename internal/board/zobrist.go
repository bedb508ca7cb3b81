package board

// Zobrist hash keys for board hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece [64][4]uint64 // [square][piece index], see pieceIndex
	zobristSide  uint64        // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for sq := 0; sq < 64; sq++ {
		for p := 0; p < 4; p++ {
			zobristPiece[sq][p] = rng.next()
		}
	}

	zobristSide = rng.next()
}

// pieceIndex maps an occupied cell to 0-3 (color bit and king bit).
func pieceIndex(c Cell) int {
	return int(c & (kingBit | colorBit))
}

// Hash returns the Zobrist hash of the piece placement.
func (b Board) Hash() uint64 {
	var h uint64
	for i, cell := range b {
		if cell.Occupied() {
			h ^= zobristPiece[i][pieceIndex(cell)]
		}
	}
	return h
}

// ZobristSide returns the key XORed into a position hash when black is to move.
func ZobristSide() uint64 {
	return zobristSide
}

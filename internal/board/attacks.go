package board

import "sync"

// Tables holds every precomputed attack table. A Tables value is immutable once
// NewTables returns and may be shared freely between goroutines.
type Tables struct {
	knight [64]Bitboard
	king   [64]Bitboard
	pawn   [2][64]Bitboard // [Color][Square]

	bishop [64]Magic
	rook   [64]Magic

	// Between and Line bitboards for pins/checks
	between [64][64]Bitboard // Squares strictly between two squares
	line    [64][64]Bitboard // Full line through two squares (including endpoints)
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the process-wide tables, building them on first use.
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables = NewTables()
	})
	return defaultTables
}

// NewTables builds a complete, independent set of attack tables.
func NewTables() *Tables {
	t := &Tables{}
	t.initKnightAttacks()
	t.initKingAttacks()
	t.initPawnAttacks()
	t.initLines()
	t.initMagics() // From magic.go
	return t
}

func (t *Tables) initKnightAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		// Knight moves: 2+1 or 1+2 in any direction
		attacks := Empty

		attacks |= (bb >> 15) & NotFileA // NNE
		attacks |= (bb >> 17) & NotFileH // NNW
		attacks |= (bb << 15) & NotFileH // SSW
		attacks |= (bb << 17) & NotFileA // SSE

		attacks |= (bb >> 6) & NotFileAB  // ENE
		attacks |= (bb >> 10) & NotFileGH // WNW
		attacks |= (bb << 6) & NotFileGH  // WSW
		attacks |= (bb << 10) & NotFileAB // ESE

		t.knight[sq] = attacks
	}
}

func (t *Tables) initKingAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		attacks := bb.North() | bb.South()
		attacks |= bb.East() | bb.West()
		attacks |= bb.NorthEast() | bb.NorthWest()
		attacks |= bb.SouthEast() | bb.SouthWest()

		t.king[sq] = attacks
	}
}

func (t *Tables) initPawnAttacks() {
	for sq := A8; sq <= H1; sq++ {
		bb := SquareBB(sq)

		// White pawns capture toward rank 8, black pawns toward rank 1
		t.pawn[White][sq] = bb.NorthEast() | bb.NorthWest()
		t.pawn[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// initLines fills between and line for every pair of squares sharing a rank, file or diagonal.
func (t *Tables) initLines() {
	for sq1 := A8; sq1 <= H1; sq1++ {
		for sq2 := A8; sq2 <= H1; sq2++ {
			if sq1 == sq2 {
				continue
			}

			f1, r1 := sq1.File(), sq1.Rank()
			f2, r2 := sq2.File(), sq2.Rank()

			df := sign(f2 - f1)
			dr := sign(r2 - r1)

			// Only aligned squares (rook or bishop lines)
			if df != 0 && dr != 0 && abs(f2-f1) != abs(r2-r1) {
				continue
			}

			var between Bitboard
			for f, r := f1+df, r1+dr; f != f2 || r != r2; f, r = f+df, r+dr {
				between |= SquareBB(NewSquare(f, r))
			}
			t.between[sq1][sq2] = between

			var line Bitboard
			for f, r := f1, r1; onBoard(f, r); f, r = f-df, r-dr {
				line |= SquareBB(NewSquare(f, r))
			}
			for f, r := f1+df, r1+dr; onBoard(f, r); f, r = f+df, r+dr {
				line |= SquareBB(NewSquare(f, r))
			}
			t.line[sq1][sq2] = line
		}
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file <= 7 && rank >= 0 && rank <= 7
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightAttacks returns the knight attack bitboard for a square.
func (t *Tables) KnightAttacks(sq Square) Bitboard {
	return t.knight[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func (t *Tables) KingAttacks(sq Square) Bitboard {
	return t.king[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq captures on.
func (t *Tables) PawnAttacks(sq Square, c Color) Bitboard {
	return t.pawn[c][sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func (t *Tables) BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &t.bishop[sq]
	return m.Attacks[m.index(occupied)]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func (t *Tables) RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &t.rook[sq]
	return m.Attacks[m.index(occupied)]
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func (t *Tables) QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return t.BishopAttacks(sq, occupied) | t.RookAttacks(sq, occupied)
}

// BishopMask returns the relevant occupancy mask of a bishop on sq.
func (t *Tables) BishopMask(sq Square) Bitboard {
	return t.bishop[sq].Mask
}

// RookMask returns the relevant occupancy mask of a rook on sq.
func (t *Tables) RookMask(sq Square) Bitboard {
	return t.rook[sq].Mask
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func (t *Tables) Between(sq1, sq2 Square) Bitboard {
	return t.between[sq1][sq2]
}

// Line returns the bitboard of the full line through two squares.
// Returns empty if squares are not aligned.
func (t *Tables) Line(sq1, sq2 Square) Bitboard {
	return t.line[sq1][sq2]
}

// Aligned returns true if three squares are on the same line.
func (t *Tables) Aligned(sq1, sq2, sq3 Square) bool {
	return t.line[sq1][sq2]&SquareBB(sq3) != 0
}

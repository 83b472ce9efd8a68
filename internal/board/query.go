package board

// SquareAttacked reports whether any piece of color by attacks sq, given the
// piece bitboards and the full occupancy to cast slider rays through.
func (t *Tables) SquareAttacked(pieces *[12]Bitboard, occupied Bitboard, sq Square, by Color) bool {
	// A pawn of color by attacks sq exactly when sq's opposite-colored pawn pattern hits it
	if t.pawn[by.Other()][sq]&pieces[NewPiece(Pawn, by)] != 0 {
		return true
	}
	if t.knight[sq]&pieces[NewPiece(Knight, by)] != 0 {
		return true
	}
	if t.king[sq]&pieces[NewPiece(King, by)] != 0 {
		return true
	}

	queens := pieces[NewPiece(Queen, by)]
	if t.BishopAttacks(sq, occupied)&(pieces[NewPiece(Bishop, by)]|queens) != 0 {
		return true
	}
	return t.RookAttacks(sq, occupied)&(pieces[NewPiece(Rook, by)]|queens) != 0
}

// AttackedSquares returns the union of every square color by attacks.
func (t *Tables) AttackedSquares(pieces *[12]Bitboard, occupied Bitboard, by Color) Bitboard {
	var attacked Bitboard

	pawns := pieces[NewPiece(Pawn, by)]
	if by == White {
		attacked |= pawns.NorthEast() | pawns.NorthWest()
	} else {
		attacked |= pawns.SouthEast() | pawns.SouthWest()
	}

	for bb := pieces[NewPiece(Knight, by)]; bb != 0; {
		attacked |= t.knight[bb.PopLSB()]
	}

	queens := pieces[NewPiece(Queen, by)]
	for bb := pieces[NewPiece(Bishop, by)] | queens; bb != 0; {
		attacked |= t.BishopAttacks(bb.PopLSB(), occupied)
	}
	for bb := pieces[NewPiece(Rook, by)] | queens; bb != 0; {
		attacked |= t.RookAttacks(bb.PopLSB(), occupied)
	}

	for bb := pieces[NewPiece(King, by)]; bb != 0; {
		attacked |= t.king[bb.PopLSB()]
	}

	return attacked
}

// IsSquareAttacked returns true if the square is attacked by the given color.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	if sq == NoSquare {
		return false
	}
	return p.tables.SquareAttacked(&p.Pieces, p.Occupancy[Both], sq, by)
}

// AttackedSquares returns every square attacked by color by.
func (p *Position) AttackedSquares(by Color) Bitboard {
	return p.tables.AttackedSquares(&p.Pieces, p.Occupancy[Both], by)
}

// KingDangerSquares returns the squares c's king may not step onto.
// The king is lifted off the board first so that a slider checking along a
// line also covers the square behind the king.
func (p *Position) KingDangerSquares(c Color) Bitboard {
	v := NewVBoard(p)
	if ksq := p.KingSquare(c); ksq != NoSquare {
		v.Remove(NewPiece(King, c), ksq)
	}
	return p.tables.AttackedSquares(&v.Pieces, v.Occupancy[Both], c.Other())
}

// AttackersTo returns all pieces of color by attacking sq.
func (p *Position) AttackersTo(sq Square, by Color) Bitboard {
	t := p.tables
	occupied := p.Occupancy[Both]
	queens := p.Pieces[NewPiece(Queen, by)]

	return (t.pawn[by.Other()][sq] & p.Pieces[NewPiece(Pawn, by)]) |
		(t.knight[sq] & p.Pieces[NewPiece(Knight, by)]) |
		(t.king[sq] & p.Pieces[NewPiece(King, by)]) |
		(t.BishopAttacks(sq, occupied) & (p.Pieces[NewPiece(Bishop, by)] | queens)) |
		(t.RookAttacks(sq, occupied) & (p.Pieces[NewPiece(Rook, by)] | queens))
}

// KingAttackers returns the enemy pieces giving check to c's king.
func (p *Position) KingAttackers(c Color) Bitboard {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return Empty
	}
	return p.AttackersTo(ksq, c.Other())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.KingAttackers(p.SideToMove) != 0
}

// Pins describes the friendly pieces pinned against a king.
type Pins struct {
	Pinned Bitboard

	// Ray holds, for each pinned square, the squares from the king (exclusive)
	// to the pinner (inclusive). A pinned piece may only move within it.
	Ray [64]Bitboard
}

// RayOf returns the pin ray of sq, or Universe when sq is not pinned.
func (pins *Pins) RayOf(sq Square) Bitboard {
	if !pins.Pinned.IsSet(sq) {
		return Universe
	}
	return pins.Ray[sq]
}

// Pins finds the pieces of color c pinned to the king on ksq.
func (p *Position) Pins(ksq Square, c Color) Pins {
	var pins Pins
	if ksq == NoSquare {
		return pins
	}

	t := p.tables
	them := c.Other()
	occupied := p.Occupancy[Both]
	queens := p.Pieces[NewPiece(Queen, them)]

	// Sliders that would attack the king on an empty board
	snipers := (t.RookAttacks(ksq, Empty) & (p.Pieces[NewPiece(Rook, them)] | queens)) |
		(t.BishopAttacks(ksq, Empty) & (p.Pieces[NewPiece(Bishop, them)] | queens))

	for snipers != 0 {
		sniper := snipers.PopLSB()
		blockers := t.Between(ksq, sniper) & occupied

		// Exactly one blocker, and it is ours
		if blockers != 0 && !blockers.MoreThanOne() && blockers&p.Occupancy[c] != 0 {
			sq := blockers.LSB()
			pins.Pinned |= blockers
			pins.Ray[sq] = t.Between(ksq, sniper) | SquareBB(sniper)
		}
	}

	return pins
}

// PinnedPieces returns the pieces of color c pinned to the king on ksq.
func (p *Position) PinnedPieces(ksq Square, c Color) Bitboard {
	return p.Pins(ksq, c).Pinned
}

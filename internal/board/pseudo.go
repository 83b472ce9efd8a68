package board

// GeneratePseudoLegalMoves generates every move obeying piece movement rules
// for the side to move, without checking whether it leaves the own king in
// check. Castling still requires the right, empty squares and an unattacked
// path. Positions without kings are accepted.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	t := p.tables
	us := p.SideToMove
	them := us.Other()
	occupied := p.Occupancy[Both]
	targets := ^p.Occupancy[us]

	p.generatePawnMoves(ml, p.Pieces[NewPiece(Pawn, us)], Universe, Universe)
	if ep := p.EnPassant; ep != NoSquare && p.Pieces[NewPiece(Pawn, them)].IsSet(enPassantVictim(ep, us)) {
		pawn := NewPiece(Pawn, us)
		for attackers := t.PawnAttacks(ep, them) & p.Pieces[pawn]; attackers != 0; {
			ml.Add(NewEnPassant(attackers.PopLSB(), ep, pawn))
		}
	}

	knight := NewPiece(Knight, us)
	for bb := p.Pieces[knight]; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, knight, from, t.KnightAttacks(from)&targets)
	}

	bishop := NewPiece(Bishop, us)
	for bb := p.Pieces[bishop]; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, bishop, from, t.BishopAttacks(from, occupied)&targets)
	}

	rook := NewPiece(Rook, us)
	for bb := p.Pieces[rook]; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, rook, from, t.RookAttacks(from, occupied)&targets)
	}

	queen := NewPiece(Queen, us)
	for bb := p.Pieces[queen]; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, queen, from, t.QueenAttacks(from, occupied)&targets)
	}

	king := NewPiece(King, us)
	for bb := p.Pieces[king]; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, king, from, t.KingAttacks(from)&targets)
	}

	if p.Castling != NoCastling && !p.InCheck() {
		p.generateCastling(ml, p.AttackedSquares(them))
	}

	return ml
}

// IsLegal reports whether a pseudo-legal move keeps the mover's king safe.
func (p *Position) IsLegal(m Move) bool {
	us := m.Piece().Color()
	v := NewVBoard(p)
	v.ApplyMove(m)
	return !v.KingAttacked(p.tables, us)
}

// FilterLegal keeps only the moves of ml that do not leave the king in check.
func (p *Position) FilterLegal(ml *MoveList) *MoveList {
	result := NewMoveList()
	for _, m := range ml.Slice() {
		if p.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

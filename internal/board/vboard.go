package board

// VBoard is a lightweight board for attack simulation.
// Unlike Position, it only contains data needed for attack detection.
// It is a plain value: copying it never touches the Position it came from.
type VBoard struct {
	Pieces    [12]Bitboard
	Occupancy [3]Bitboard
}

// NewVBoard creates a VBoard from a Position.
func NewVBoard(p *Position) VBoard {
	return VBoard{
		Pieces:    p.Pieces,
		Occupancy: p.Occupancy,
	}
}

// Remove takes piece off sq.
func (v *VBoard) Remove(piece Piece, sq Square) {
	bb := SquareBB(sq)
	v.Pieces[piece] &^= bb
	v.Occupancy[piece.Color()] &^= bb
	v.Occupancy[Both] &^= bb
}

// Put places piece on sq.
func (v *VBoard) Put(piece Piece, sq Square) {
	bb := SquareBB(sq)
	v.Pieces[piece] |= bb
	v.Occupancy[piece.Color()] |= bb
	v.Occupancy[Both] |= bb
}

// ApplyMove plays a move on the VBoard (no validation, no state update).
func (v *VBoard) ApplyMove(m Move) {
	piece := m.Piece()
	from, to := m.From(), m.To()

	switch {
	case m.IsEnPassant():
		v.Remove(m.Captured(), enPassantVictim(to, piece.Color()))
	case m.IsCapture():
		v.Remove(m.Captured(), to)
	}

	v.Remove(piece, from)
	if m.IsPromotion() {
		v.Put(m.Promotion(), to)
	} else {
		v.Put(piece, to)
	}

	if m.IsCastling() {
		rook := NewPiece(Rook, piece.Color())
		rookFrom, rookTo := castlingRookSquares(to)
		v.Remove(rook, rookFrom)
		v.Put(rook, rookTo)
	}
}

// IsAttacked checks if sq is attacked by byColor using tables t.
func (v *VBoard) IsAttacked(t *Tables, sq Square, byColor Color) bool {
	return t.SquareAttacked(&v.Pieces, v.Occupancy[Both], sq, byColor)
}

// KingAttacked checks if c's king is attacked on the VBoard.
func (v *VBoard) KingAttacked(t *Tables, c Color) bool {
	ksq := v.Pieces[NewPiece(King, c)].LSB()
	if ksq == NoSquare {
		return false
	}
	return v.IsAttacked(t, ksq, c.Other())
}

// enPassantVictim returns the square of the pawn taken when a pawn of color c
// captures en passant onto to.
func enPassantVictim(to Square, c Color) Square {
	if c == White {
		return to + 8
	}
	return to - 8
}

// castlingRookSquares returns the rook's origin and destination for a castling
// move whose king lands on kingTo.
func castlingRookSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default: // C8
		return A8, D8
	}
}

package board

// promotionOrder is the order promotions are emitted in.
var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// castlingPath describes one castling option: the squares that must be empty
// and the squares the king crosses, destination included.
type castlingPath struct {
	right    CastlingRights
	kingFrom Square
	kingTo   Square
	empty    Bitboard
	transit  Bitboard
}

var castlingPaths = [2][2]castlingPath{
	White: {
		{WhiteKingSideCastle, E1, G1, SquareBB(F1) | SquareBB(G1), SquareBB(F1) | SquareBB(G1)},
		{WhiteQueenSideCastle, E1, C1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(C1) | SquareBB(D1)},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, SquareBB(F8) | SquareBB(G8), SquareBB(F8) | SquareBB(G8)},
		{BlackQueenSideCastle, E8, C8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(C8) | SquareBB(D8)},
	},
}

// GenerateLegalMoves generates all legal moves for the position.
//
// Moves come out in a fixed order: king steps, castling, pinned pieces,
// pawns (including en passant), knights, bishops, rooks, queens.
// It panics if either side has no king.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.GenerateLegalMovesInto(ml)
	return ml
}

// GenerateLegalMovesInto clears ml and fills it with the legal moves of the position.
func (p *Position) GenerateLegalMovesInto(ml *MoveList) {
	ml.Clear()

	t := p.tables
	us := p.SideToMove
	them := us.Other()
	ksq := p.mustKingSquare(us)
	p.mustKingSquare(them)

	own := p.Occupancy[us]
	danger := p.KingDangerSquares(us)
	checkers := p.KingAttackers(us)

	// King steps never depend on the masks below
	king := NewPiece(King, us)
	p.addTargets(ml, king, ksq, t.KingAttacks(ksq)&^own&^danger)

	// Double check: only the king can move
	if checkers.MoreThanOne() {
		return
	}

	captureMask, pushMask := Universe, Universe
	if checkers != 0 {
		checker := checkers.LSB()
		captureMask = checkers
		pushMask = Empty
		if pt := p.PieceAt(checker).Type(); pt == Bishop || pt == Rook || pt == Queen {
			pushMask = t.Between(ksq, checker)
		}
	} else {
		p.generateCastling(ml, danger)
	}

	pins := p.Pins(ksq, us)
	p.generatePinnedMoves(ml, &pins, captureMask, pushMask)

	free := ^pins.Pinned
	targets := ^own & (captureMask | pushMask)
	occupied := p.Occupancy[Both]

	p.generatePawnMoves(ml, p.Pieces[NewPiece(Pawn, us)]&free, captureMask, pushMask)
	p.generateEnPassant(ml, ksq, captureMask, pushMask)

	knight := NewPiece(Knight, us)
	for bb := p.Pieces[knight] & free; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, knight, from, t.KnightAttacks(from)&targets)
	}

	bishop := NewPiece(Bishop, us)
	for bb := p.Pieces[bishop] & free; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, bishop, from, t.BishopAttacks(from, occupied)&targets)
	}

	rook := NewPiece(Rook, us)
	for bb := p.Pieces[rook] & free; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, rook, from, t.RookAttacks(from, occupied)&targets)
	}

	queen := NewPiece(Queen, us)
	for bb := p.Pieces[queen] & free; bb != 0; {
		from := bb.PopLSB()
		p.addTargets(ml, queen, from, t.QueenAttacks(from, occupied)&targets)
	}
}

// addTargets adds a move from from to every square in targets.
func (p *Position) addTargets(ml *MoveList, piece Piece, from Square, targets Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(NewCapture(from, to, piece, p.PieceAt(to)))
	}
}

// addPawnMove adds a single pawn push or capture, expanding promotions.
func (p *Position) addPawnMove(ml *MoveList, pawn Piece, from, to Square) {
	captured := p.PieceAt(to)
	if SquareBB(to)&(Rank1|Rank8) != 0 {
		c := pawn.Color()
		for _, pt := range promotionOrder {
			ml.Add(NewPromotion(from, to, pawn, NewPiece(pt, c), captured))
		}
		return
	}
	ml.Add(NewCapture(from, to, pawn, captured))
}

// generateCastling adds castling moves. The caller guarantees the king is not in check.
func (p *Position) generateCastling(ml *MoveList, danger Bitboard) {
	us := p.SideToMove
	king := NewPiece(King, us)
	rook := NewPiece(Rook, us)

	for _, cp := range castlingPaths[us] {
		if p.Castling&cp.right == 0 {
			continue
		}
		rookFrom, _ := castlingRookSquares(cp.kingTo)
		if !p.Pieces[king].IsSet(cp.kingFrom) || !p.Pieces[rook].IsSet(rookFrom) {
			continue
		}
		if p.Occupancy[Both]&cp.empty != 0 || danger&cp.transit != 0 {
			continue
		}
		ml.Add(NewCastling(cp.kingFrom, cp.kingTo, king))
	}
}

// generatePinnedMoves adds the moves of pinned pieces, each kept on its pin ray.
func (p *Position) generatePinnedMoves(ml *MoveList, pins *Pins, captureMask, pushMask Bitboard) {
	t := p.tables
	us := p.SideToMove
	own := p.Occupancy[us]
	enemies := p.Occupancy[us.Other()]
	occupied := p.Occupancy[Both]

	for bb := pins.Pinned; bb != 0; {
		from := bb.PopLSB()
		piece := p.PieceAt(from)
		ray := pins.Ray[from]

		switch piece.Type() {
		case Pawn:
			single, double := pawnPushes(SquareBB(from), us, ^occupied)
			for push := (single | double) & ray & pushMask; push != 0; {
				to := push.PopLSB()
				if double.IsSet(to) {
					ml.Add(NewDoublePush(from, to, piece))
				} else {
					p.addPawnMove(ml, piece, from, to)
				}
			}
			for capture := t.PawnAttacks(from, us) & enemies & ray & captureMask; capture != 0; {
				p.addPawnMove(ml, piece, from, capture.PopLSB())
			}
		case Bishop:
			p.addTargets(ml, piece, from, t.BishopAttacks(from, occupied)&^own&ray&(captureMask|pushMask))
		case Rook:
			p.addTargets(ml, piece, from, t.RookAttacks(from, occupied)&^own&ray&(captureMask|pushMask))
		case Queen:
			p.addTargets(ml, piece, from, t.QueenAttacks(from, occupied)&^own&ray&(captureMask|pushMask))
		}
		// A pinned knight can never stay on its ray
	}
}

// pawnPushes returns the single and double push destinations of pawns of color c.
func pawnPushes(pawns Bitboard, c Color, empty Bitboard) (single, double Bitboard) {
	if c == White {
		single = pawns.North() & empty
		double = (single & Rank3).North() & empty
	} else {
		single = pawns.South() & empty
		double = (single & Rank6).South() & empty
	}
	return single, double
}

// generatePawnMoves generates pushes and captures of the given (unpinned) pawns.
func (p *Position) generatePawnMoves(ml *MoveList, pawns, captureMask, pushMask Bitboard) {
	us := p.SideToMove
	pawn := NewPiece(Pawn, us)
	enemies := p.Occupancy[us.Other()]

	// up is the square offset of a single push
	var attackW, attackE Bitboard
	var up int

	push1, push2 := pawnPushes(pawns, us, ^p.Occupancy[Both])
	if us == White {
		attackW = pawns.NorthWest() & enemies
		attackE = pawns.NorthEast() & enemies
		up = -8
	} else {
		attackW = pawns.SouthWest() & enemies
		attackE = pawns.SouthEast() & enemies
		up = 8
	}

	// The double push needs an empty intermediate square, not a masked one
	push1 &= pushMask
	push2 &= pushMask
	attackW &= captureMask
	attackE &= captureMask

	for push1 != 0 {
		to := push1.PopLSB()
		p.addPawnMove(ml, pawn, Square(int(to)-up), to)
	}

	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewDoublePush(Square(int(to)-2*up), to, pawn))
	}

	for attackW != 0 {
		to := attackW.PopLSB()
		p.addPawnMove(ml, pawn, Square(int(to)-up+1), to)
	}

	for attackE != 0 {
		to := attackE.PopLSB()
		p.addPawnMove(ml, pawn, Square(int(to)-up-1), to)
	}
}

// generateEnPassant adds en passant captures that survive a full simulation.
// Removing two pawns from one rank can uncover a rook or queen on the king,
// which no pin test sees, so every candidate is played out on a VBoard.
func (p *Position) generateEnPassant(ml *MoveList, ksq Square, captureMask, pushMask Bitboard) {
	ep := p.EnPassant
	if ep == NoSquare {
		return
	}

	t := p.tables
	us := p.SideToMove
	pawn := NewPiece(Pawn, us)
	victim := enPassantVictim(ep, us)

	if !p.Pieces[pawn.Opposite()].IsSet(victim) || !p.IsEmpty(ep) {
		return
	}
	// Capturing the checking pawn, or landing between king and checker
	if captureMask&SquareBB(victim) == 0 && pushMask&SquareBB(ep) == 0 {
		return
	}

	for attackers := t.PawnAttacks(ep, us.Other()) & p.Pieces[pawn]; attackers != 0; {
		m := NewEnPassant(attackers.PopLSB(), ep, pawn)
		v := NewVBoard(p)
		v.ApplyMove(m)
		if !v.IsAttacked(t, ksq, us.Other()) {
			ml.Add(m)
		}
	}
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	var ml MoveList
	p.GenerateLegalMovesInto(&ml)
	return ml.Len() > 0
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is a draw (stalemate, 50-move, insufficient material).
func (p *Position) IsDraw() bool {
	if p.HalfMoveClock >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}
	return p.IsStalemate()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	// If there are any pawns, rooks, or queens, sufficient material
	if p.Pieces[WhitePawn]|p.Pieces[BlackPawn] != 0 ||
		p.Pieces[WhiteRook]|p.Pieces[BlackRook] != 0 ||
		p.Pieces[WhiteQueen]|p.Pieces[BlackQueen] != 0 {
		return false
	}

	// Count minor pieces
	wMinors := (p.Pieces[WhiteKnight] | p.Pieces[WhiteBishop]).PopCount()
	bMinors := (p.Pieces[BlackKnight] | p.Pieces[BlackBishop]).PopCount()

	// K vs K, K+minor vs K
	if wMinors+bMinors <= 1 {
		return true
	}

	// K+B vs K+B with both bishops on the same color
	if wMinors == 1 && bMinors == 1 && p.Pieces[WhiteBishop] != 0 && p.Pieces[BlackBishop] != 0 {
		return squareColor(p.Pieces[WhiteBishop].LSB()) == squareColor(p.Pieces[BlackBishop].LSB())
	}

	return false
}

// squareColor returns 0 for light squares and 1 for dark squares.
func squareColor(sq Square) int {
	return (sq.File() + sq.Rank() + 1) & 1
}

package board

import (
	"fmt"

	"github.com/apex/log"
)

// DebugMoveValidation enables consistency checks after every MakeMove and UnmakeMove.
// Failures are logged, never fatal. Intended for tests and debugging sessions.
var DebugMoveValidation = false

// castlingGuards maps each castling right to the king and rook home squares
// it depends on. Any move from or to one of them drops the right.
var castlingGuards = [4]struct {
	right CastlingRights
	guard Bitboard
}{
	{WhiteKingSideCastle, SquareBB(E1) | SquareBB(H1)},
	{WhiteQueenSideCastle, SquareBB(E1) | SquareBB(A1)},
	{BlackKingSideCastle, SquareBB(E8) | SquareBB(H8)},
	{BlackQueenSideCastle, SquareBB(E8) | SquareBB(A8)},
}

// MakeMove applies a move produced by the generator for this position.
// The move is trusted: passing anything else corrupts the position.
func (p *Position) MakeMove(m Move) {
	p.history = append(p.history, StateEntry{
		Castling:      p.Castling,
		EnPassant:     p.EnPassant,
		HalfMoveClock: p.HalfMoveClock,
	})

	us := p.SideToMove
	from, to := m.From(), m.To()
	piece := m.Piece()

	// Handle captures
	switch {
	case m.IsEnPassant():
		p.removePiece(m.Captured(), enPassantVictim(to, us))
	case m.IsCapture():
		p.removePiece(m.Captured(), to)
	}

	// Move the piece, promoting if needed
	p.removePiece(piece, from)
	if m.IsPromotion() {
		p.putPiece(m.Promotion(), to)
	} else {
		p.putPiece(piece, to)
	}

	// Handle castling
	if m.IsCastling() {
		rook := NewPiece(Rook, us)
		rookFrom, rookTo := castlingRookSquares(to)
		p.removePiece(rook, rookFrom)
		p.putPiece(rook, rookTo)
	}

	// Update castling rights
	touched := SquareBB(from) | SquareBB(to)
	for _, g := range castlingGuards {
		if touched&g.guard != 0 {
			p.Castling &^= g.right
		}
	}

	// Set en passant square for double pawn push
	p.EnPassant = NoSquare
	if m.IsDoublePush() {
		p.EnPassant = Square((int(from) + int(to)) / 2)
	}

	// Update half-move clock
	if piece.Type() == Pawn || m.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	// Update full-move number
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = us.Other()

	if DebugMoveValidation {
		p.checkConsistency("MakeMove", m)
		if p.IsSquareAttacked(p.KingSquare(us), p.SideToMove) {
			log.WithFields(log.Fields{
				"move": m.String(),
				"fen":  p.ToFEN(),
			}).Errorf("%v left its king in check", us)
		}
	}
}

// UnmakeMove reverts m, which must be the most recently applied move.
// It panics when no move has been applied.
func (p *Position) UnmakeMove(m Move) {
	n := len(p.history)
	if n == 0 {
		panic("board: UnmakeMove without a matching MakeMove")
	}

	us := p.SideToMove.Other()
	p.SideToMove = us
	from, to := m.From(), m.To()
	piece := m.Piece()

	if m.IsCastling() {
		rook := NewPiece(Rook, us)
		rookFrom, rookTo := castlingRookSquares(to)
		p.removePiece(rook, rookTo)
		p.putPiece(rook, rookFrom)
	}

	if m.IsPromotion() {
		p.removePiece(m.Promotion(), to)
	} else {
		p.removePiece(piece, to)
	}
	p.putPiece(piece, from)

	switch {
	case m.IsEnPassant():
		p.putPiece(m.Captured(), enPassantVictim(to, us))
	case m.IsCapture():
		p.putPiece(m.Captured(), to)
	}

	state := p.history[n-1]
	p.history = p.history[:n-1]
	p.Castling = state.Castling
	p.EnPassant = state.EnPassant
	p.HalfMoveClock = state.HalfMoveClock

	if us == Black {
		p.FullMoveNumber--
	}

	if DebugMoveValidation {
		p.checkConsistency("UnmakeMove", m)
	}
}

// checkConsistency logs every broken board invariant.
func (p *Position) checkConsistency(op string, m Move) {
	entry := log.WithFields(log.Fields{
		"op":   op,
		"move": m.String(),
	})

	var seen Bitboard
	for piece := WhitePawn; piece < NoPiece; piece++ {
		if seen&p.Pieces[piece] != 0 {
			entry.Errorf("%v overlaps another piece bitboard", piece)
		}
		seen |= p.Pieces[piece]
	}

	occ := p.Occupancy
	p.updateOccupied()
	if occ != p.Occupancy {
		entry.WithField("stored", fmt.Sprintf("%x", occ)).Error("occupancy out of sync with piece bitboards")
	}

	for c := White; c <= Black; c++ {
		if n := p.Pieces[NewPiece(King, c)].PopCount(); n != 1 {
			entry.Errorf("%v has %d kings", c, n)
		}
	}
}

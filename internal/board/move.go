package board

import (
	"errors"
	"fmt"
	"strings"
)

// Move encodes a chess move in 32 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-15: moving piece
// bits 16-19: promotion piece (NoPiece if none)
// bit 20:     capture
// bit 21:     double pawn push
// bit 22:     en passant
// bit 23:     castling
// bits 24-27: captured piece (NoPiece if none)
type Move uint32

// Move flags
const (
	FlagCapture    Move = 1 << 20
	FlagDoublePush Move = 1 << 21
	FlagEnPassant  Move = 1 << 22
	FlagCastling   Move = 1 << 23
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// ErrIllegalMove is returned when a move string does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

// NewMove packs a move. The capture flag is set whenever captured is a real piece.
func NewMove(from, to Square, piece, promotion, captured Piece, flags Move) Move {
	m := Move(from) | Move(to)<<6 | Move(piece)<<12 | Move(promotion)<<16 | Move(captured)<<24 | flags
	if captured != NoPiece {
		m |= FlagCapture
	}
	return m
}

// NewQuiet creates a non-capturing move.
func NewQuiet(from, to Square, piece Piece) Move {
	return NewMove(from, to, piece, NoPiece, NoPiece, 0)
}

// NewCapture creates a capture of captured on to.
func NewCapture(from, to Square, piece, captured Piece) Move {
	return NewMove(from, to, piece, NoPiece, captured, 0)
}

// NewDoublePush creates a two-square pawn advance.
func NewDoublePush(from, to Square, piece Piece) Move {
	return NewMove(from, to, piece, NoPiece, NoPiece, FlagDoublePush)
}

// NewPromotion creates a promotion move, capturing when captured is not NoPiece.
func NewPromotion(from, to Square, piece, promotion, captured Piece) Move {
	return NewMove(from, to, piece, promotion, captured, 0)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square, piece Piece) Move {
	return NewMove(from, to, piece, NoPiece, piece.Opposite(), FlagEnPassant)
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square, king Piece) Move {
	return NewMove(from, to, king, NoPiece, NoPiece, FlagCastling)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Piece returns the moving piece.
func (m Move) Piece() Piece {
	return Piece((m >> 12) & 0xF)
}

// Promotion returns the piece the pawn becomes, or NoPiece.
func (m Move) Promotion() Piece {
	return Piece((m >> 16) & 0xF)
}

// Captured returns the captured piece, or NoPiece.
func (m Move) Captured() Piece {
	return Piece((m >> 24) & 0xF)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion() != NoPiece
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m&FlagCapture != 0
}

// IsDoublePush returns true for a two-square pawn advance.
func (m Move) IsDoublePush() bool {
	return m&FlagDoublePush != 0
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m&FlagCastling != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&FlagEnPassant != 0
}

// IsQuiet returns true if this is not a capture or promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		s += string(m.Promotion().Type().Char())
	}

	return s
}

// ParseMove parses a UCI format move string and matches it against the legal moves of pos.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: invalid move string %q", ErrIllegalMove, s)
	}

	s = strings.ToLower(s)
	if _, err := ParseSquare(s[0:2]); err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	if _, err := ParseSquare(s[2:4]); err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	moves := pos.GenerateLegalMoves()
	for _, m := range moves.Slice() {
		if m.String() == s {
			return m, nil
		}
	}

	return NoMove, fmt.Errorf("%w: %s in %s", ErrIllegalMove, s, pos.ToFEN())
}

// MaxMoves bounds the number of legal moves in any reachable position.
const MaxMoves = 256

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Strings returns the UCI form of every move, in list order.
func (ml *MoveList) Strings() []string {
	out := make([]string, ml.count)
	for i, m := range ml.Slice() {
		out[i] = m.String()
	}
	return out
}

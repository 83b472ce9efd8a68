package board

import (
	"errors"
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side still holds the right to castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castlingRight(c, kingSide) != 0
}

func castlingRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// StateEntry is the irreversible part of a position, saved once per applied move.
type StateEntry struct {
	Castling      CastlingRights
	EnPassant     Square
	HalfMoveClock int
}

// Position represents a complete chess position.
//
// A Position is not safe for concurrent use. Give each goroutine its own Copy;
// the attack tables it points at are shared read-only.
type Position struct {
	// Piece bitboards indexed by Piece, mutually disjoint.
	Pieces [12]Bitboard

	// Occupancy indexed by White, Black and Both.
	Occupancy [3]Bitboard

	// Game state
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Plies since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1

	history []StateEntry
	tables  *Tables
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// newEmptyPosition returns a position with no pieces that queries t.
func newEmptyPosition(t *Tables) *Position {
	if t == nil {
		t = Default()
	}
	return &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		tables:         t,
	}
}

// Tables returns the attack tables the position queries.
func (p *Position) Tables() *Tables {
	return p.tables
}

// Copy creates a deep copy of the position, including its move history.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.history = append([]StateEntry(nil), p.history...)
	return &newPos
}

// Ply returns the number of moves applied since the position was constructed.
func (p *Position) Ply() int {
	return len(p.history)
}

// Equal reports whether two positions hold the same pieces, state and history.
func (p *Position) Equal(o *Position) bool {
	if p.Pieces != o.Pieces || p.Occupancy != o.Occupancy ||
		p.SideToMove != o.SideToMove || p.Castling != o.Castling ||
		p.EnPassant != o.EnPassant || p.HalfMoveClock != o.HalfMoveClock ||
		p.FullMoveNumber != o.FullMoveNumber || len(p.history) != len(o.history) {
		return false
	}
	for i := range p.history {
		if p.history[i] != o.history[i] {
			return false
		}
	}
	return true
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)

	if p.Occupancy[Both]&bb == 0 {
		return NoPiece
	}

	c := White
	if p.Occupancy[Black]&bb != 0 {
		c = Black
	}

	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[NewPiece(pt, c)]&bb != 0 {
			return NewPiece(pt, c)
		}
	}

	return NoPiece
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Occupancy[Both]&SquareBB(sq) == 0
}

// Bitboard returns the squares holding pieces of the given type and color.
func (p *Position) Bitboard(pt PieceType, c Color) Bitboard {
	return p.Pieces[NewPiece(pt, c)]
}

// Occupied returns all squares holding a piece of color c.
func (p *Position) Occupied(c Color) Bitboard {
	return p.Occupancy[c]
}

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[NewPiece(King, c)].LSB()
}

// mustKingSquare returns the square of c's king and panics when there is none.
// Every legal-move query requires exactly one king per side.
func (p *Position) mustKingSquare(c Color) Square {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		panic(fmt.Sprintf("board: %v has no king", c))
	}
	return ksq
}

// putPiece places a piece on an empty square.
func (p *Position) putPiece(piece Piece, sq Square) {
	bb := SquareBB(sq)
	p.Pieces[piece] |= bb
	p.Occupancy[piece.Color()] |= bb
	p.Occupancy[Both] |= bb
}

// removePiece removes a known piece from a square.
func (p *Position) removePiece(piece Piece, sq Square) {
	bb := SquareBB(sq)
	p.Pieces[piece] &^= bb
	p.Occupancy[piece.Color()] &^= bb
	p.Occupancy[Both] &^= bb
}

// updateOccupied recalculates occupancy bitboards from piece bitboards.
func (p *Position) updateOccupied() {
	p.Occupancy = [3]Bitboard{}

	for piece := WhitePawn; piece < NoPiece; piece++ {
		p.Occupancy[piece.Color()] |= p.Pieces[piece]
	}

	p.Occupancy[Both] = p.Occupancy[White] | p.Occupancy[Black]
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(Square(row*8 + file))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	return sb.String()
}

// ErrInvalidPosition is returned by Validate for positions the generator cannot handle.
var ErrInvalidPosition = errors.New("invalid position")

// castlingHomes lists the king and rook home squares each castling right depends on.
var castlingHomes = [4]struct {
	right CastlingRights
	king  Piece
	ksq   Square
	rook  Piece
	rsq   Square
}{
	{WhiteKingSideCastle, WhiteKing, E1, WhiteRook, H1},
	{WhiteQueenSideCastle, WhiteKing, E1, WhiteRook, A1},
	{BlackKingSideCastle, BlackKing, E8, BlackRook, H8},
	{BlackQueenSideCastle, BlackKing, E8, BlackRook, A8},
}

// Validate checks the preconditions of legal move generation.
func (p *Position) Validate() error {
	// Check that each side has exactly one king
	if p.Pieces[WhiteKing].PopCount() != 1 {
		return fmt.Errorf("%w: white must have exactly one king", ErrInvalidPosition)
	}
	if p.Pieces[BlackKing].PopCount() != 1 {
		return fmt.Errorf("%w: black must have exactly one king", ErrInvalidPosition)
	}

	// Check that pawns are not on rank 1 or 8
	if (p.Pieces[WhitePawn]|p.Pieces[BlackPawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("%w: pawns cannot be on rank 1 or 8", ErrInvalidPosition)
	}

	var seen Bitboard
	for piece := WhitePawn; piece < NoPiece; piece++ {
		if seen&p.Pieces[piece] != 0 {
			return fmt.Errorf("%w: overlapping piece bitboards", ErrInvalidPosition)
		}
		seen |= p.Pieces[piece]
	}

	for _, h := range castlingHomes {
		if p.Castling&h.right == 0 {
			continue
		}
		if !p.Pieces[h.king].IsSet(h.ksq) || !p.Pieces[h.rook].IsSet(h.rsq) {
			return fmt.Errorf("%w: castling right %s without king and rook on their home squares", ErrInvalidPosition, h.right)
		}
	}

	if p.EnPassant != NoSquare {
		want := 5 // 6th rank when white is to move
		if p.SideToMove == Black {
			want = 2
		}
		if p.EnPassant.Rank() != want {
			return fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidPosition, p.EnPassant)
		}
	}

	// The side that just moved cannot be in check
	them := p.SideToMove.Other()
	if p.IsSquareAttacked(p.KingSquare(them), p.SideToMove) {
		return fmt.Errorf("%w: %v king can be captured", ErrInvalidPosition, them)
	}

	return nil
}

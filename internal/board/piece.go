package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Both indexes the all-pieces entry of Position.Occupancy.
const Both = 2

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "pnbrqk"[pt]
}

// Piece combines PieceType and Color into a single value.
// Encoded as pieceType*2 + color, so both colors of a kind are adjacent:
// WhitePawn=0, BlackPawn=1, WhiteKnight=2, ...
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn)<<1 | Piece(White)
	BlackPawn   Piece = Piece(Pawn)<<1 | Piece(Black)
	WhiteKnight Piece = Piece(Knight)<<1 | Piece(White)
	BlackKnight Piece = Piece(Knight)<<1 | Piece(Black)
	WhiteBishop Piece = Piece(Bishop)<<1 | Piece(White)
	BlackBishop Piece = Piece(Bishop)<<1 | Piece(Black)
	WhiteRook   Piece = Piece(Rook)<<1 | Piece(White)
	BlackRook   Piece = Piece(Rook)<<1 | Piece(Black)
	WhiteQueen  Piece = Piece(Queen)<<1 | Piece(White)
	BlackQueen  Piece = Piece(Queen)<<1 | Piece(Black)
	WhiteKing   Piece = Piece(King)<<1 | Piece(White)
	BlackKing   Piece = Piece(King)<<1 | Piece(Black)
	NoPiece     Piece = 12
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt)<<1 | Piece(c)
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p >> 1)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p & 1)
}

// Opposite returns the same kind of piece in the other color.
func (p Piece) Opposite() Piece {
	if p >= NoPiece {
		return NoPiece
	}
	return p ^ 1
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return string("PpNnBbRrQqKk"[p])
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

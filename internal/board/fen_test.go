package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"2r5/4k3/8/2Pp4/8/2K5/8/8 w - d6 5 4",
		"r3k2r/p1pp1pb1/bn2Qnp1/2qPN3/1p2P3/2N5/PPPBBPPP/R3K2R b KQkq - 3 2",
		"4k3/8/8/8/8/8/8/4K2R w K - 49 120",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, err := ParseFEN(fen)
			if err != nil {
				t.Fatalf("ParseFEN failed: %v", err)
			}
			if got := pos.ToFEN(); got != fen {
				t.Errorf("ToFEN() = %q", got)
			}
			if err := pos.Validate(); err != nil {
				t.Errorf("Validate failed: %v", err)
			}
		})
	}
}

func TestParseFENFields(t *testing.T) {
	pos := MustParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3")

	if pos.SideToMove != Black {
		t.Error("expected black to move")
	}
	if pos.EnPassant != D3 {
		t.Errorf("EnPassant = %v, want d3", pos.EnPassant)
	}
	if pos.HalfMoveClock != 0 || pos.FullMoveNumber != 1 {
		t.Errorf("default clocks = %d/%d, want 0/1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
	if pos.PieceAt(A4) != BlackKing || pos.PieceAt(H4) != WhiteRook || pos.PieceAt(D4) != WhitePawn {
		t.Error("pieces misplaced")
	}
	if pos.Occupancy[Both].PopCount() != 5 || pos.Occupancy[White].PopCount() != 3 {
		t.Errorf("occupancy counts = %d/%d", pos.Occupancy[Both].PopCount(), pos.Occupancy[White].PopCount())
	}
	if pos.KingSquare(White) != E1 {
		t.Errorf("KingSquare(White) = %v", pos.KingSquare(White))
	}

	start := NewPosition()
	if start.Castling != AllCastling || start.Pieces[WhitePawn] != Rank2 || start.Pieces[BlackPawn] != Rank7 {
		t.Error("starting position is wrong")
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"8/8/8/8/8/8/8/8",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkx - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 extra",
	}

	for _, fen := range bad {
		t.Run(fen, func(t *testing.T) {
			if _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("expected ErrInvalidFEN, got %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"no white king", "4k3/8/8/8/8/8/8/8 w - - 0 1"},
		{"two black kings", "k3k3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"pawn on back rank", "4k2P/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1"},
		{"castling with moved king", "r3k2r/8/8/8/8/8/8/R2K3R w KQ - 0 1"},
		{"en passant wrong side", "4k3/8/8/3pP3/8/8/8/4K3 w - d3 0 1"},
		{"side not to move in check", "4k3/4R3/8/8/8/8/8/4K3 w - - 0 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN failed: %v", err)
			}
			if err := pos.Validate(); !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("expected ErrInvalidPosition, got %v", err)
			}
		})
	}
}

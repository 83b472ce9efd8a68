package board

import (
	"testing"
)

func TestGameState(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		checkmate bool
		stalemate bool
		draw      bool
	}{
		// Back rank mate, black pawns on g7 and h7 block the escape
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", true, false, false},
		{"king takes the checker", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", false, false, false},
		{"fool's mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", true, false, false},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, true, true},
		{"start", StartFEN, false, false, false},
		{"fifty moves", "8/8/4k3/8/8/3K4/8/R7 w - - 100 80", false, false, true},
		{"forty nine and a half moves", "8/8/4k3/8/8/3K4/8/R7 w - - 99 80", false, false, false},
		{"bare kings", "8/8/4k3/8/8/3K4/8/8 w - - 0 1", false, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			if got := pos.IsCheckmate(); got != tc.checkmate {
				t.Errorf("IsCheckmate() = %v, want %v", got, tc.checkmate)
			}
			if got := pos.IsStalemate(); got != tc.stalemate {
				t.Errorf("IsStalemate() = %v, want %v", got, tc.stalemate)
			}
			if got := pos.IsDraw(); got != tc.draw {
				t.Errorf("IsDraw() = %v, want %v", got, tc.draw)
			}
			if got := pos.HasLegalMoves(); got == (tc.checkmate || tc.stalemate) {
				t.Errorf("HasLegalMoves() = %v", got)
			}
		})
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"king vs king", "8/8/4k3/8/8/3K4/8/8 w - - 0 1", true},
		{"knight", "8/8/4k3/8/8/3KN3/8/8 w - - 0 1", true},
		{"bishop", "8/8/4k3/8/8/3KB3/8/8 w - - 0 1", true},
		{"bishops on dark squares", "5b2/8/4k3/8/8/3K4/8/2B5 w - - 0 1", true},
		{"bishops on opposite colors", "2b5/8/4k3/8/8/3K4/8/2B5 w - - 0 1", false},
		{"two knights", "8/8/4k3/8/8/3KNN2/8/8 w - - 0 1", false},
		{"pawn", "8/8/4k3/8/8/3K4/4P3/8 w - - 0 1", false},
		{"rook", "8/8/4k3/8/8/3K4/8/R7 w - - 0 1", false},
		{"start", StartFEN, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MustParseFEN(tc.fen).IsInsufficientMaterial(); got != tc.want {
				t.Errorf("IsInsufficientMaterial() = %v, want %v", got, tc.want)
			}
		})
	}
}

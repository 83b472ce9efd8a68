package board

import (
	"math/rand"
	"testing"
)

func TestLeaperAttacks(t *testing.T) {
	tab := Default()

	tests := []struct {
		name string
		got  Bitboard
		want Bitboard
	}{
		{"knight a8", tab.KnightAttacks(A8), SquareBB(B6) | SquareBB(C7)},
		{"knight h1", tab.KnightAttacks(H1), SquareBB(G3) | SquareBB(F2)},
		{"knight d4", tab.KnightAttacks(D4), SquareBB(C6) | SquareBB(E6) | SquareBB(F5) | SquareBB(F3) |
			SquareBB(E2) | SquareBB(C2) | SquareBB(B3) | SquareBB(B5)},
		{"king a1", tab.KingAttacks(A1), SquareBB(A2) | SquareBB(B2) | SquareBB(B1)},
		{"king e4", tab.KingAttacks(E4), SquareBB(D5) | SquareBB(E5) | SquareBB(F5) | SquareBB(D4) |
			SquareBB(F4) | SquareBB(D3) | SquareBB(E3) | SquareBB(F3)},
		{"white pawn e2", tab.PawnAttacks(E2, White), SquareBB(D3) | SquareBB(F3)},
		{"white pawn a2", tab.PawnAttacks(A2, White), SquareBB(B3)},
		{"black pawn h7", tab.PawnAttacks(H7, Black), SquareBB(G6)},
		{"black pawn d5", tab.PawnAttacks(D5, Black), SquareBB(C4) | SquareBB(E4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got\n%v\nwant\n%v", tc.got, tc.want)
			}
		})
	}
}

func TestSliderAttacks(t *testing.T) {
	tab := Default()

	tests := []struct {
		name  string
		got   Bitboard
		count int
	}{
		{"rook d4 empty", tab.RookAttacks(D4, Empty), 14},
		{"rook a1 empty", tab.RookAttacks(A1, Empty), 14},
		{"bishop d4 empty", tab.BishopAttacks(D4, Empty), 13},
		{"bishop a1 empty", tab.BishopAttacks(A1, Empty), 7},
		{"queen d4 empty", tab.QueenAttacks(D4, Empty), 27},
		{"rook d4 boxed", tab.RookAttacks(D4, SquareBB(D5)|SquareBB(D3)|SquareBB(C4)|SquareBB(E4)), 4},
		{"bishop a1 blocked b2", tab.BishopAttacks(A1, SquareBB(B2)), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got.PopCount() != tc.count {
				t.Errorf("got %d squares, want %d\n%v", tc.got.PopCount(), tc.count, tc.got)
			}
		})
	}

	// Blockers are included, squares behind them are not
	got := tab.RookAttacks(A1, SquareBB(A4)|SquareBB(C1))
	want := SquareBB(A2) | SquareBB(A3) | SquareBB(A4) | SquareBB(B1) | SquareBB(C1)
	if got != want {
		t.Errorf("rook a1 with blockers:\n%v\nwant\n%v", got, want)
	}
}

func TestMagicsMatchRayCasting(t *testing.T) {
	tab := Default()
	rng := rand.New(rand.NewSource(1))

	for sq := A8; sq <= H1; sq++ {
		for i := 0; i < 300; i++ {
			// Sparse and dense occupancies
			occ := Bitboard(rng.Uint64() & rng.Uint64())
			if i%2 == 1 {
				occ = Bitboard(rng.Uint64())
			}

			if got, want := tab.BishopAttacks(sq, occ), bishopAttacksSlow(sq, occ); got != want {
				t.Fatalf("bishop %v occ %x: got %x want %x", sq, uint64(occ), uint64(got), uint64(want))
			}
			if got, want := tab.RookAttacks(sq, occ), rookAttacksSlow(sq, occ); got != want {
				t.Fatalf("rook %v occ %x: got %x want %x", sq, uint64(occ), uint64(got), uint64(want))
			}
		}
	}
}

func TestMagicsExhaustiveSubsets(t *testing.T) {
	tab := Default()

	for sq := A8; sq <= H1; sq++ {
		for _, m := range []struct {
			mask Bitboard
			fast func(Square, Bitboard) Bitboard
			slow func(Square, Bitboard) Bitboard
		}{
			{tab.BishopMask(sq), tab.BishopAttacks, bishopAttacksSlow},
			{tab.RookMask(sq), tab.RookAttacks, rookAttacksSlow},
		} {
			n := m.mask.PopCount()
			for i := 0; i < 1<<n; i++ {
				occ := indexToOccupancy(i, n, m.mask)
				if m.fast(sq, occ) != m.slow(sq, occ) {
					t.Fatalf("%v: subset %d of mask %x mismatches", sq, i, uint64(m.mask))
				}
			}
		}
	}
}

func TestRelevantMasks(t *testing.T) {
	tab := Default()

	tests := []struct {
		name string
		mask Bitboard
		bits int
	}{
		{"rook a1", tab.RookMask(A1), 12},
		{"rook d4", tab.RookMask(D4), 10},
		{"rook a4", tab.RookMask(A4), 11},
		{"bishop a1", tab.BishopMask(A1), 6},
		{"bishop d4", tab.BishopMask(D4), 9},
		{"bishop b1", tab.BishopMask(B1), 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.mask.PopCount() != tc.bits {
				t.Errorf("got %d relevant bits, want %d", tc.mask.PopCount(), tc.bits)
			}
		})
	}

	// Edge squares never belong to a bishop mask
	for sq := A8; sq <= H1; sq++ {
		if tab.BishopMask(sq)&Edges != 0 {
			t.Errorf("bishop mask of %v touches the edge", sq)
		}
	}
}

func TestBetweenAndLine(t *testing.T) {
	tab := Default()

	tests := []struct {
		name string
		got  Bitboard
		want Bitboard
	}{
		{"between a1 h8", tab.Between(A1, H8), SquareBB(B2) | SquareBB(C3) | SquareBB(D4) | SquareBB(E5) | SquareBB(F6) | SquareBB(G7)},
		{"between e1 e4", tab.Between(E1, E4), SquareBB(E2) | SquareBB(E3)},
		{"between adjacent", tab.Between(E1, E2), Empty},
		{"between unaligned", tab.Between(A1, B3), Empty},
		{"line a1 b2", tab.Line(A1, B2), tab.Between(A1, H8) | SquareBB(A1) | SquareBB(H8)},
		{"line d4 d6", tab.Line(D4, D6), FileD},
		{"line h8 a8", tab.Line(H8, A8), Rank8},
		{"line unaligned", tab.Line(A1, B3), Empty},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got\n%v\nwant\n%v", tc.got, tc.want)
			}
		})
	}

	if !tab.Aligned(A1, C3, H8) || tab.Aligned(A1, C3, H7) {
		t.Error("Aligned mismatch on the long diagonal")
	}

	// Between is symmetric
	for a := A8; a <= H1; a++ {
		for b := A8; b <= H1; b++ {
			if tab.Between(a, b) != tab.Between(b, a) {
				t.Fatalf("Between(%v, %v) not symmetric", a, b)
			}
		}
	}
}

func TestTablesIndependent(t *testing.T) {
	if Default() != Default() {
		t.Error("Default should return the same tables")
	}

	own := NewTables()
	if own == Default() {
		t.Error("NewTables should build a separate value")
	}
	if own.QueenAttacks(E4, Empty) != Default().QueenAttacks(E4, Empty) {
		t.Error("independent tables disagree")
	}

	pos, err := ParseFENWith(StartFEN, own)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Tables() != own {
		t.Error("position does not query the tables it was built with")
	}
	if n := pos.GenerateLegalMoves().Len(); n != 20 {
		t.Errorf("got %d moves with own tables, want 20", n)
	}
}

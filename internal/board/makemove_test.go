package board

import "testing"

// roundTrip plays and takes back every legal move down to depth plies,
// checking the position is restored exactly each time.
func roundTrip(t *testing.T, pos *Position, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}

	before := pos.Copy()
	hash := pos.Hash()
	for _, m := range pos.GenerateLegalMoves().Slice() {
		pos.MakeMove(m)
		roundTrip(t, pos, depth-1)
		pos.UnmakeMove(m)

		if !pos.Equal(before) {
			t.Fatalf("%v did not round-trip:\nbefore %s\nafter  %s", m, before.ToFEN(), pos.ToFEN())
		}
		if pos.Hash() != hash {
			t.Fatalf("%v changed the hash after undo", m)
		}
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	DebugMoveValidation = true
	defer func() { DebugMoveValidation = false }()

	depth := 2
	if testing.Short() {
		depth = 1
	}
	for _, fen := range testFENs {
		t.Run(fen, func(t *testing.T) {
			roundTrip(t, MustParseFEN(fen), depth)
		})
	}
}

func TestMakeMoveEffects(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  string
	}{
		{
			name:  "double push sets en passant",
			fen:   StartFEN,
			moves: []string{"e2e4"},
			want:  "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		},
		{
			name:  "en passant removes the pawn",
			fen:   "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
			moves: []string{"e5d6"},
			want:  "4k3/8/3P4/8/8/8/8/4K3 b - - 0 1",
		},
		{
			name:  "white castles king side",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 4 10",
			moves: []string{"e1g1"},
			want:  "r3k2r/8/8/8/8/8/8/R4RK1 b kq - 5 10",
		},
		{
			name:  "black castles queen side",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 10",
			moves: []string{"e8c8"},
			want:  "2kr3r/8/8/8/8/8/8/R3K2R w KQ - 1 11",
		},
		{
			name:  "rook move drops one right",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			moves: []string{"h1h5"},
			want:  "r3k2r/8/8/7R/8/8/8/R3K3 b Qkq - 1 1",
		},
		{
			name:  "capturing a rook drops the victim's right",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			moves: []string{"a1a8"},
			want:  "R3k2r/8/8/8/8/8/8/4K2R b Kk - 0 1",
		},
		{
			name:  "promotion with capture",
			fen:   "1r2k3/P7/8/8/8/8/8/4K3 w - - 7 30",
			moves: []string{"a7b8q"},
			want:  "1Q2k3/8/8/8/8/8/8/4K3 b - - 0 30",
		},
		{
			name:  "under promotion",
			fen:   "4k3/8/8/8/8/8/p7/4K3 b - - 0 1",
			moves: []string{"a2a1n"},
			want:  "4k3/8/8/8/8/8/8/n3K3 w - - 0 2",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := MustParseFEN(tc.fen)
			start := pos.Copy()

			var played []Move
			for _, s := range tc.moves {
				m, err := ParseMove(s, pos)
				if err != nil {
					t.Fatalf("ParseMove(%s) failed: %v", s, err)
				}
				pos.MakeMove(m)
				played = append(played, m)
			}

			if got := pos.ToFEN(); got != tc.want {
				t.Errorf("after %v:\n got %s\nwant %s", tc.moves, got, tc.want)
			}
			if pos.Ply() != len(played) {
				t.Errorf("Ply() = %d, want %d", pos.Ply(), len(played))
			}

			for i := len(played) - 1; i >= 0; i-- {
				pos.UnmakeMove(played[i])
			}
			if !pos.Equal(start) {
				t.Errorf("undo did not restore %s, got %s", tc.fen, pos.ToFEN())
			}
		})
	}
}

func TestCopyIsIndependent(t *testing.T) {
	pos := NewPosition()
	m, _ := ParseMove("d2d4", pos)
	pos.MakeMove(m)

	cp := pos.Copy()
	reply, _ := ParseMove("d7d5", cp)
	cp.MakeMove(reply)

	if pos.Ply() != 1 || cp.Ply() != 2 {
		t.Errorf("plies = %d/%d, want 1/2", pos.Ply(), cp.Ply())
	}
	if pos.PieceAt(D5) != NoPiece {
		t.Error("move on the copy leaked into the original")
	}

	cp.UnmakeMove(reply)
	cp.UnmakeMove(m)
	pos.UnmakeMove(m)
	if !pos.Equal(cp) || !pos.Equal(NewPosition()) {
		t.Error("both positions should be back at the start")
	}
}

func TestUnmakeWithoutHistoryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewPosition().UnmakeMove(NewDoublePush(E2, E4, WhitePawn))
}

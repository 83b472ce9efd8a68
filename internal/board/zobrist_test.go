package board

import "testing"

func TestHashRestoredByUnmake(t *testing.T) {
	for _, fen := range testFENs {
		pos := MustParseFEN(fen)
		want := pos.Hash()

		for _, m := range pos.GenerateLegalMoves().Slice() {
			pos.MakeMove(m)
			if pos.Hash() == want {
				t.Errorf("%s: %v left the hash unchanged", fen, m)
			}
			pos.UnmakeMove(m)
			if got := pos.Hash(); got != want {
				t.Fatalf("%s: hash after %v round trip = %x, want %x", fen, m, got, want)
			}
		}
	}
}

func TestHashTransposition(t *testing.T) {
	play := func(moves ...string) *Position {
		pos := NewPosition()
		for _, s := range moves {
			m, err := ParseMove(s, pos)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", s, err)
			}
			pos.MakeMove(m)
		}
		return pos
	}

	a := play("g1f3", "g8f6", "b1c3", "b8c6")
	b := play("b1c3", "b8c6", "g1f3", "g8f6")
	if a.Hash() != b.Hash() {
		t.Error("transposed move orders hash differently")
	}

	// The knights return home but the clocks moved on
	c := play("g1f3", "g8f6", "f3g1", "f6g8")
	if c.Hash() != NewPosition().Hash() {
		t.Error("clocks should not affect the hash")
	}
}

func TestHashDistinguishesState(t *testing.T) {
	base := MustParseFEN("r3k2r/8/8/3pP3/8/8/8/R3K2R w KQkq d6 0 1")

	variants := []string{
		"r3k2r/8/8/3pP3/8/8/8/R3K2R b KQkq - 0 1",
		"r3k2r/8/8/3pP3/8/8/8/R3K2R w KQk d6 0 1",
		"r3k2r/8/8/3pP3/8/8/8/R3K2R w KQkq - 0 1",
		"r3k2r/8/8/3pP3/8/8/8/R3K1R1 w Qkq d6 0 1",
	}
	for _, fen := range variants {
		if MustParseFEN(fen).Hash() == base.Hash() {
			t.Errorf("%s hashes like the base position", fen)
		}
	}

	if MustParseFEN("r3k2r/8/8/3pP3/8/8/8/R3K2R w KQkq d6 37 90").Hash() != base.Hash() {
		t.Error("move counters should not affect the hash")
	}
}

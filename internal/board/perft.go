package board

// Perft counts the leaf nodes of the legal move tree of the given depth.
// Depth 0 counts the position itself. The position is restored before returning.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	var ml MoveList
	p.GenerateLegalMovesInto(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for _, m := range ml.Slice() {
		p.MakeMove(m)
		nodes += Perft(p, depth-1)
		p.UnmakeMove(m)
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide runs Perft below every root move, in generation order.
// The entries sum to Perft(p, depth).
func PerftDivide(p *Position, depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}

	moves := p.GenerateLegalMoves()
	entries := make([]DivideEntry, 0, moves.Len())
	for _, m := range moves.Slice() {
		p.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: Perft(p, depth-1)})
		p.UnmakeMove(m)
	}
	return entries
}

package board

import (
	"fmt"
	"strings"
)

// ToSAN converts a legal move of pos to Standard Algebraic Notation.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	pt := m.Piece().Type()

	var sb strings.Builder

	// Castling
	if m.IsCastling() {
		if to > from {
			sb.WriteString("O-O") // Kingside
		} else {
			sb.WriteString("O-O-O") // Queenside
		}
	} else {
		// Piece letter and disambiguation (not for pawns)
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m))
		}

		// Capture marker
		if m.IsCapture() {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		// Destination square
		sb.WriteString(to.String())

		// Promotion
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion().Type()])
		}
	}

	// Check/checkmate marker
	pos.MakeMove(m)
	if pos.IsCheckmate() {
		sb.WriteByte('#')
	} else if pos.InCheck() {
		sb.WriteByte('+')
	}
	pos.UnmakeMove(m)

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece kind to the same square.
func disambiguation(pos *Position, m Move) string {
	from := m.From()
	to := m.To()

	var candidates []Square
	for _, other := range pos.GenerateLegalMoves().Slice() {
		if other.To() != to || other.From() == from || other.Piece() != m.Piece() {
			continue
		}
		candidates = append(candidates, other.From())
	}

	// No ambiguity
	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN parses a SAN string and returns the matching legal move.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)

	// Remove check/checkmate markers and annotations
	s = strings.TrimRight(s, "+#!?")

	moves := pos.GenerateLegalMoves()

	// Handle castling
	switch s {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		kingSide := len(s) == 3
		for _, m := range moves.Slice() {
			if m.IsCastling() && (m.To() > m.From()) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %q in %s", ErrIllegalMove, orig, pos.ToFEN())
	}

	// Parse promotion
	promo := NoPieceType
	if idx := strings.Index(s, "="); idx >= 0 && idx+1 < len(s) {
		promo = PieceFromChar(s[idx+1]).Type()
		if promo == NoPieceType || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("%w: promotion in %q", ErrIllegalMove, orig)
		}
		s = s[:idx]
	}

	// Remove capture marker
	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	// Determine piece type
	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		pt = PieceFromChar(s[0]).Type()
		if pt == NoPieceType || pt == Pawn {
			return NoMove, fmt.Errorf("%w: piece letter in %q", ErrIllegalMove, orig)
		}
		s = s[1:]
	}

	// Parse destination (last 2 characters)
	if len(s) < 2 {
		return NoMove, fmt.Errorf("%w: no destination in %q", ErrIllegalMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	s = s[:len(s)-2]

	// Parse disambiguation (file, rank, or both)
	disambigFile, disambigRank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		default:
			return NoMove, fmt.Errorf("%w: unexpected %q in %q", ErrIllegalMove, c, orig)
		}
	}

	var found []Move
	for _, m := range moves.Slice() {
		if m.To() != dest || m.Piece().Type() != pt || m.IsCastling() {
			continue
		}

		from := m.From()
		if disambigFile >= 0 && from.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && from.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture() {
			continue
		}

		// Check promotion
		if m.IsPromotion() != (promo != NoPieceType) {
			continue
		}
		if m.IsPromotion() && m.Promotion().Type() != promo {
			continue
		}

		found = append(found, m)
	}

	switch len(found) {
	case 0:
		return NoMove, fmt.Errorf("%w: %q in %s", ErrIllegalMove, orig, pos.ToFEN())
	case 1:
		return found[0], nil
	default:
		return NoMove, fmt.Errorf("%w: %q is ambiguous", ErrIllegalMove, orig)
	}
}

// MovesToSAN converts a line of moves played from pos to SAN notation.
// pos itself is left unchanged.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m)
	}

	return result
}

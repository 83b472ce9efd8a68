package board

import "fmt"

// Magic bitboard implementation for sliding piece attacks.
// The multipliers below were searched offline for the A8=0 square layout and are
// collision-free for every relevant occupancy subset of their square.

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask    Bitboard   // Relevant occupancy mask (excludes edges)
	Magic   uint64     // Magic multiplier
	Shift   uint8      // 64 - relevant bits
	Attacks []Bitboard // 2^bits entries indexed by the folded occupancy
}

// index folds an occupancy into a dense table index.
func (m *Magic) index(occupied Bitboard) uint64 {
	return (uint64(occupied&m.Mask) * m.Magic) >> m.Shift
}

// bishopMagicNumbers holds one multiplier per square, A8 first.
var bishopMagicNumbers = [64]uint64{
	0x4408012448004100, 0x4063020204190000, 0x0104082881102005, 0x0108208420040000,
	0x3402021001020001, 0x0240901008610004, 0x0000A82808040051, 0x8180110801042058,
	0x0908428202240100, 0x8901080210820604, 0x2000420401122200, 0x2060024081010300,
	0x0001011040802008, 0x0480020804060400, 0xC444421210428810, 0x8180804048041000,
	0x8040002082020220, 0x0504200290121210, 0x0302107000881101, 0x0421000804110000,
	0x1002000422010890, 0x2006024108010402, 0x0608400101086110, 0x2100840104210108,
	0x2010401084445410, 0x2A08200022120202, 0x0404084810044040, 0x9020080101004009,
	0x0000820084010404, 0x42D0028001425001, 0x802C04008080C448, 0x0004004400291402,
	0x0402084200200200, 0x8000822004105420, 0x1804020800010641, 0x0000640100100900,
	0x00A4040400081010, 0x0410100140028040, 0x010A240C00C108A0, 0x000A020044E20062,
	0x0408011948002042, 0x0812080404008242, 0x0402011848010C00, 0x0401802018040102,
	0x8002082008202D00, 0x0040410408200902, 0x0004900420480110, 0x10080C808A000490,
	0x02020B1088042401, 0x800C8484B0305400, 0x0020020042780020, 0x0028000246080800,
	0xC0080950020A0810, 0x0010088308020202, 0x8310821004008000, 0x0A04048404002120,
	0x00220824011C1002, 0x0000902401041000, 0x001C022042009080, 0x00024A400A460805,
	0x00C0000020020484, 0x2600084082044100, 0x40000808A8080840, 0x00102002C4808700,
}

var rookMagicNumbers = [64]uint64{
	0x41800421B0400480, 0x02400050002002C0, 0x0100090010402000, 0x0200100822004004,
	0x1200200802001004, 0x82000804901B0200, 0x8980120013000480, 0x2080008000402100,
	0x0000800080204000, 0x0A02404010002000, 0x0A41004010200500, 0x0209001000296100,
	0x0004800400080080, 0x000E000814220010, 0x800500020001000C, 0x0002000042010084,
	0x2040058001512480, 0x6080828020004012, 0x1414C10020010390, 0x0020808010000802,
	0x2008008080040008, 0x0040808002000400, 0x0280AC00901A4108, 0x010002000902A444,
	0x1204400880048028, 0x1200400C80200080, 0x0401200280100081, 0x028C100080080081,
	0x0001001100080204, 0x080A006A00041810, 0x0800020400100881, 0x0001800080004100,
	0x0040804000800020, 0xA0A0004001010080, 0x002000C801401000, 0x2010080080801000,
	0x0100800400800800, 0x2084000200808004, 0x0010100104000802, 0xA400010882000854,
	0x0001804000628010, 0x481001406001400C, 0x0210004020010100, 0x01060131C0620028,
	0x0081000802110004, 0x010A020004008080, 0xB444B03102040018, 0x0004012080420004,
	0x4050800028400480, 0x0308810840002100, 0x4420208200481200, 0x1090020820110100,
	0x4000080004008080, 0x0104004002010040, 0x8090011042080400, 0x0184068044050600,
	0x0882800108494A21, 0x8200802011004001, 0x000200201080400E, 0x41900408A0900101,
	0x002200184410210E, 0x0002001088044122, 0xA0020802102907A4, 0x0460040430410082,
}

// Relevant occupancy bit counts per square, checked against the masks at init.
var bishopRelevantBits = [64]uint8{
	6, 5, 5, 5, 5, 5, 5, 6,
	5, 5, 5, 5, 5, 5, 5, 5,
	5, 5, 7, 7, 7, 7, 5, 5,
	5, 5, 7, 9, 9, 7, 5, 5,
	5, 5, 7, 9, 9, 7, 5, 5,
	5, 5, 7, 7, 7, 7, 5, 5,
	5, 5, 5, 5, 5, 5, 5, 5,
	6, 5, 5, 5, 5, 5, 5, 6,
}

var rookRelevantBits = [64]uint8{
	12, 11, 11, 11, 11, 11, 11, 12,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	11, 10, 10, 10, 10, 10, 10, 11,
	12, 11, 11, 11, 11, 11, 11, 12,
}

func (t *Tables) initMagics() {
	for sq := A8; sq <= H1; sq++ {
		t.bishop[sq] = newMagic(sq, bishopMask(sq), bishopMagicNumbers[sq], bishopRelevantBits[sq], bishopAttacksSlow)
		t.rook[sq] = newMagic(sq, rookMask(sq), rookMagicNumbers[sq], rookRelevantBits[sq], rookAttacksSlow)
	}
}

// newMagic enumerates every subset of mask and stores the ray-cast attacks at its magic index.
func newMagic(sq Square, mask Bitboard, magic uint64, bits uint8, slow func(Square, Bitboard) Bitboard) Magic {
	if mask.PopCount() != int(bits) {
		panic(fmt.Sprintf("board: relevant bits for %s: mask has %d, table says %d", sq, mask.PopCount(), bits))
	}

	m := Magic{
		Mask:    mask,
		Magic:   magic,
		Shift:   64 - bits,
		Attacks: make([]Bitboard, 1<<bits),
	}

	for i := 0; i < len(m.Attacks); i++ {
		occ := indexToOccupancy(i, int(bits), mask)
		m.Attacks[m.index(occ)] = slow(sq, occ)
	}
	return m
}

// bishopMask returns the relevant occupancy mask for a bishop at square.
// Rays stop one square short of the board edge.
func bishopMask(sq Square) Bitboard {
	var mask Bitboard
	row, file := sq.Row(), sq.File()

	for r, f := row+1, file+1; r <= 6 && f <= 6; r, f = r+1, f+1 {
		mask |= SquareBB(Square(r*8 + f))
	}
	for r, f := row-1, file+1; r >= 1 && f <= 6; r, f = r-1, f+1 {
		mask |= SquareBB(Square(r*8 + f))
	}
	for r, f := row-1, file-1; r >= 1 && f >= 1; r, f = r-1, f-1 {
		mask |= SquareBB(Square(r*8 + f))
	}
	for r, f := row+1, file-1; r <= 6 && f >= 1; r, f = r+1, f-1 {
		mask |= SquareBB(Square(r*8 + f))
	}

	return mask
}

// rookMask returns the relevant occupancy mask for a rook at square.
func rookMask(sq Square) Bitboard {
	var mask Bitboard
	row, file := sq.Row(), sq.File()

	for r := row + 1; r <= 6; r++ {
		mask |= SquareBB(Square(r*8 + file))
	}
	for r := row - 1; r >= 1; r-- {
		mask |= SquareBB(Square(r*8 + file))
	}
	for f := file + 1; f <= 6; f++ {
		mask |= SquareBB(Square(row*8 + f))
	}
	for f := file - 1; f >= 1; f-- {
		mask |= SquareBB(Square(row*8 + f))
	}

	return mask
}

// indexToOccupancy maps a dense index onto the sparse bits of mask, lowest bit first.
func indexToOccupancy(index, bits int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; i < bits; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

// castRay walks from sq in (dRow, dFile) steps, including the first blocker.
func castRay(sq Square, occupied Bitboard, dRow, dFile int) Bitboard {
	var attacks Bitboard
	r, f := sq.Row()+dRow, sq.File()+dFile
	for r >= 0 && r <= 7 && f >= 0 && f <= 7 {
		s := SquareBB(Square(r*8 + f))
		attacks |= s
		if occupied&s != 0 {
			break
		}
		r += dRow
		f += dFile
	}
	return attacks
}

// bishopAttacksSlow computes bishop attacks by ray casting (used during initialization).
func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return castRay(sq, occupied, 1, 1) |
		castRay(sq, occupied, 1, -1) |
		castRay(sq, occupied, -1, 1) |
		castRay(sq, occupied, -1, -1)
}

// rookAttacksSlow computes rook attacks by ray casting (used during initialization).
func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return castRay(sq, occupied, 1, 0) |
		castRay(sq, occupied, -1, 0) |
		castRay(sq, occupied, 0, 1) |
		castRay(sq, occupied, 0, -1)
}

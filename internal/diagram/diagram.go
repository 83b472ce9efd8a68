// Package diagram renders positions and bitboards as SVG.
package diagram

import (
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chesscore/internal/board"
)

const (
	lightSquare = "fill:#f0d9b5"
	darkSquare  = "fill:#b58863"
	markSquare  = "fill:#cd4f4f;fill-opacity:0.55"
	labelStyle  = "font-family:sans-serif;font-size:%dpx;fill:#333"
	pieceStyle  = "font-family:serif;font-size:%dpx;text-anchor:middle;dominant-baseline:central"
)

// glyphs are the Unicode chess symbols indexed by board.Piece.
var glyphs = [12]string{"♙", "♟", "♘", "♞", "♗", "♝", "♖", "♜", "♕", "♛", "♔", "♚"}

// Options controls how a diagram is drawn.
type Options struct {
	SquareSize int            // pixels per square, 48 if zero
	Flip       bool           // draw from Black's side
	Highlight  board.Bitboard // squares tinted over the board
	Title      string
}

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return 48
	}
	return o.SquareSize
}

// Position writes an SVG diagram of pos to w.
func Position(w io.Writer, pos *board.Position, opts Options) error {
	return render(w, opts, func(sq board.Square) string {
		if piece := pos.PieceAt(sq); piece != board.NoPiece {
			return glyphs[piece]
		}
		return ""
	})
}

// Bitboard writes an SVG diagram with the set squares of bb highlighted.
func Bitboard(w io.Writer, bb board.Bitboard, opts Options) error {
	opts.Highlight |= bb
	return render(w, opts, func(board.Square) string { return "" })
}

func render(w io.Writer, opts Options, glyph func(board.Square) string) error {
	size := opts.squareSize()
	margin := size / 2
	total := 8*size + margin

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(total, total)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	for row := 0; row < 8; row++ {
		for file := 0; file < 8; file++ {
			sq := board.Square(row*8 + file)
			x, y := file*size+margin, row*size
			if opts.Flip {
				x, y = (7-file)*size+margin, (7-row)*size
			}

			style := lightSquare
			if (row+file)%2 == 1 {
				style = darkSquare
			}
			canvas.Rect(x, y, size, size, style)

			if opts.Highlight.IsSet(sq) {
				canvas.Rect(x, y, size, size, markSquare)
			}
			if g := glyph(sq); g != "" {
				canvas.Text(x+size/2, y+size/2, g, fmt.Sprintf(pieceStyle, size*3/4))
			}
		}
	}

	// Coordinates
	label := fmt.Sprintf(labelStyle, size/4)
	for i := 0; i < 8; i++ {
		file, rank := i, 7-i
		if opts.Flip {
			file, rank = 7-i, i
		}
		canvas.Text(margin+i*size+size/2-size/10, 8*size+margin*2/3, string(rune('a'+file)), label)
		canvas.Text(margin/4, i*size+size/2+size/10, string(rune('1'+rank)), label)
	}

	canvas.End()

	_, err := w.Write(buf.Bytes())
	return err
}

package chessduel

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
)

var pieceGlyphs = map[nchess.Piece]string{
	nchess.WhiteKing:   "♔",
	nchess.WhiteQueen:  "♕",
	nchess.WhiteRook:   "♖",
	nchess.WhiteBishop: "♗",
	nchess.WhiteKnight: "♘",
	nchess.WhitePawn:   "♙",
	nchess.BlackKing:   "♚",
	nchess.BlackQueen:  "♛",
	nchess.BlackRook:   "♜",
	nchess.BlackBishop: "♝",
	nchess.BlackKnight: "♞",
	nchess.BlackPawn:   "♟",
}

// renderBoard draws the position as a monospace text grid, rank 8 on top.
func renderBoard(board *nchess.Board) string {
	squares := board.SquareMap()
	ranks := []nchess.Rank{
		nchess.Rank8, nchess.Rank7, nchess.Rank6, nchess.Rank5,
		nchess.Rank4, nchess.Rank3, nchess.Rank2, nchess.Rank1,
	}
	files := []nchess.File{
		nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD,
		nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH,
	}
	var b strings.Builder
	b.WriteString("```\n")
	for row, rank := range ranks {
		b.WriteString(rank.String())
		b.WriteByte(' ')
		for col, file := range files {
			sq := nchess.NewSquare(file, rank)
			piece := squares[sq]
			if piece == nchess.NoPiece {
				if (row+col)%2 == 0 {
					b.WriteString("·")
				} else {
					b.WriteString(" ")
				}
			} else {
				b.WriteString(pieceGlyphs[piece])
			}
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	b.WriteString("  a b c d e f g h\n```")
	return b.String()
}

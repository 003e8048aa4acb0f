package domain

import "fmt"

// Square indexes the board from a1 (0) to h8 (63): file + 8*rank.
type Square int

const (
	BoardSize  = 8
	NumSquares = BoardSize * BoardSize
)

// NewSquare builds a square from zero-based file and rank.
func NewSquare(file, rank int) Square {
	return Square(file + rank*BoardSize)
}

// FromGrid maps screen coordinates (row 0 is rank 8, col 0 is file a).
func FromGrid(row, col int) (Square, bool) {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return 0, false
	}
	return NewSquare(col, BoardSize-1-row), true
}

func (s Square) File() int { return int(s) % BoardSize }
func (s Square) Rank() int { return int(s) / BoardSize }

// Grid is the inverse of FromGrid.
func (s Square) Grid() (row, col int) {
	return BoardSize - 1 - s.Rank(), s.File()
}

func (s Square) Valid() bool { return s >= 0 && s < NumSquares }

func (s Square) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Square(%d)", int(s))
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

type PieceKind int

const (
	King PieceKind = iota + 1
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

// Letter returns the upper-case piece letter used for asset names.
func (k PieceKind) Letter() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return "?"
}

type Piece struct {
	Color Color
	Kind  PieceKind
}

// Move is a plain from/to pair. Promotion choice belongs to the rules implementation.
type Move struct {
	From Square
	To   Square
}

func (m Move) String() string { return m.From.String() + m.To.String() }

// Rules is the chess rules collaborator. Legality, check and notation all live behind it.
type Rules interface {
	LegalMoves() []Move
	Apply(from, to Square) error
	PieceAt(sq Square) (Piece, bool)
	Turn() Color
	History() []string
	Reset()
	FEN() string
	Outcome() string
	// Opening names the ECO opening of the moves so far, or "" when none matches.
	Opening() string
}

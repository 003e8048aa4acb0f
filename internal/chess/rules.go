package chess

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/clickchess/internal/chess/openingbook"
	"github.com/park285/clickchess/internal/domain"
)

var ErrIllegalMove = errors.New("illegal chess move")

// Rules implements domain.Rules on top of corentings/chess.
// It is not safe for concurrent use; callers serialise access.
type Rules struct {
	game *nchess.Game
}

var _ domain.Rules = (*Rules)(nil)

func NewRules() *Rules {
	return &Rules{game: nchess.NewGame()}
}

// NewRulesFromMoves replays UCI moves from the starting position.
func NewRulesFromMoves(moves ...string) (*Rules, error) {
	r := NewRules()
	notation := nchess.UCINotation{}
	for _, mv := range moves {
		move, err := notation.Decode(r.game.Position(), strings.ToLower(strings.TrimSpace(mv)))
		if err != nil {
			return nil, fmt.Errorf("decode move %s: %w", mv, err)
		}
		if err := r.game.Move(move, nil); err != nil {
			return nil, fmt.Errorf("apply move %s: %w", mv, err)
		}
	}
	return r, nil
}

// LegalMoves lists legal from/to pairs. The four promotion choices of one pawn
// move collapse into a single pair.
func (r *Rules) LegalMoves() []domain.Move {
	valid := r.game.ValidMoves()
	out := make([]domain.Move, 0, len(valid))
	seen := make(map[domain.Move]struct{}, len(valid))
	for _, mv := range valid {
		m := domain.Move{From: domain.Square(mv.S1()), To: domain.Square(mv.S2())}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Apply plays from->to. Pawn moves onto the last rank promote to a queen.
func (r *Rules) Apply(from, to domain.Square) error {
	if !from.Valid() || !to.Valid() {
		return ErrIllegalMove
	}
	text := from.String() + to.String()
	if r.isPromotion(from, to) {
		text += "q"
	}
	pos := r.game.Position()
	move, err := nchess.UCINotation{}.Decode(pos, text)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrIllegalMove, text)
	}
	if err := r.game.Move(move, nil); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, text, err)
	}
	return nil
}

func (r *Rules) isPromotion(from, to domain.Square) bool {
	for _, mv := range r.game.ValidMoves() {
		if domain.Square(mv.S1()) == from && domain.Square(mv.S2()) == to && mv.Promo() != nchess.NoPieceType {
			return true
		}
	}
	return false
}

func (r *Rules) PieceAt(sq domain.Square) (domain.Piece, bool) {
	if !sq.Valid() {
		return domain.Piece{}, false
	}
	piece := r.game.Position().Board().Piece(nchess.Square(sq))
	if piece == nchess.NoPiece {
		return domain.Piece{}, false
	}
	return domain.Piece{Color: fromColor(piece.Color()), Kind: fromPieceType(piece.Type())}, true
}

func (r *Rules) Turn() domain.Color {
	return fromColor(r.game.Position().Turn())
}

// History returns the SAN token of every ply in order.
func (r *Rules) History() []string {
	positions := r.game.Positions()
	moves := r.game.Moves()
	san := make([]string, 0, len(moves))
	notation := nchess.AlgebraicNotation{}
	for i, mv := range moves {
		if i < len(positions) {
			san = append(san, notation.Encode(positions[i], mv))
		}
	}
	return san
}

func (r *Rules) Reset() {
	r.game = nchess.NewGame()
}

func (r *Rules) FEN() string {
	return r.game.FEN()
}

func (r *Rules) Outcome() string {
	return string(r.game.Outcome())
}

func (r *Rules) Opening() string {
	op, ok := openingbook.Classify(r.game.Moves())
	if !ok {
		return ""
	}
	return op.String()
}

func fromColor(c nchess.Color) domain.Color {
	if c == nchess.Black {
		return domain.Black
	}
	return domain.White
}

func fromPieceType(pt nchess.PieceType) domain.PieceKind {
	switch pt {
	case nchess.King:
		return domain.King
	case nchess.Queen:
		return domain.Queen
	case nchess.Rook:
		return domain.Rook
	case nchess.Bishop:
		return domain.Bishop
	case nchess.Knight:
		return domain.Knight
	default:
		return domain.Pawn
	}
}

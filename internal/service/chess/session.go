package chess

import (
	"sync"

	"github.com/park285/clickchess/internal/domain"
	"github.com/park285/clickchess/pkg/chessdto"
	"go.uber.org/zap"
)

// Session owns the single game shown by the web front-end: the rules
// collaborator, the active square and the last applied move.
type Session struct {
	mu     sync.Mutex
	rules  domain.Rules
	logger *zap.Logger

	active   *domain.Square
	lastMove *domain.Move
	dests    map[domain.Square]struct{}
}

func NewSession(rules domain.Rules, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{rules: rules, logger: logger}
}

// Click feeds one grid click into the selection state machine.
// Out-of-range coordinates deselect.
func (s *Session) Click(row, col int) {
	sq, ok := domain.FromGrid(row, col)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.logger.Debug("click outside board", zap.Int("row", row), zap.Int("col", col))
		s.clearSelection()
		return
	}
	s.clickSquare(sq)
}

// ClickSquare is Click addressed by board square.
func (s *Session) ClickSquare(sq domain.Square) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !sq.Valid() {
		s.clearSelection()
		return
	}
	s.clickSquare(sq)
}

func (s *Session) clickSquare(sq domain.Square) {
	if s.active != nil {
		from := *s.active
		if from == sq {
			s.clearSelection()
			return
		}
		if s.isLegal(from, sq) {
			s.clearSelection()
			if err := s.rules.Apply(from, sq); err != nil {
				s.logger.Warn("rules rejected a listed legal move",
					zap.String("from", from.String()),
					zap.String("to", sq.String()),
					zap.Error(err),
				)
				return
			}
			s.lastMove = &domain.Move{From: from, To: sq}
			s.logger.Info("chess move applied",
				zap.String("from", from.String()),
				zap.String("to", sq.String()),
				zap.Int("ply", len(s.rules.History())),
			)
			return
		}
	}
	if s.ownPiece(sq) {
		s.selectSquare(sq)
		return
	}
	s.clearSelection()
}

// Reset restores the starting position and clears selection and last move.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules.Reset()
	s.clearSelection()
	s.lastMove = nil
	s.logger.Info("chess board reset")
}

func (s *Session) ownPiece(sq domain.Square) bool {
	piece, ok := s.rules.PieceAt(sq)
	return ok && piece.Color == s.rules.Turn()
}

func (s *Session) isLegal(from, to domain.Square) bool {
	for _, mv := range s.rules.LegalMoves() {
		if mv.From == from && mv.To == to {
			return true
		}
	}
	return false
}

func (s *Session) selectSquare(sq domain.Square) {
	active := sq
	s.active = &active
	s.dests = make(map[domain.Square]struct{})
	for _, mv := range s.rules.LegalMoves() {
		if mv.From == sq {
			s.dests[mv.To] = struct{}{}
		}
	}
}

func (s *Session) clearSelection() {
	s.active = nil
	s.dests = nil
}

// Snapshot is a consistent copy of everything the renderers need.
type Snapshot struct {
	Active       *domain.Square
	LastMove     *domain.Move
	Destinations map[domain.Square]struct{}
	Pieces       map[domain.Square]domain.Piece
	Turn         domain.Color
	History      []string
	FEN          string
	Outcome      string
	Opening      string
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Destinations: make(map[domain.Square]struct{}, len(s.dests)),
		Pieces:       make(map[domain.Square]domain.Piece),
		Turn:         s.rules.Turn(),
		History:      s.rules.History(),
		FEN:          s.rules.FEN(),
		Outcome:      s.rules.Outcome(),
		Opening:      s.rules.Opening(),
	}
	if s.active != nil {
		active := *s.active
		snap.Active = &active
	}
	if s.lastMove != nil {
		last := *s.lastMove
		snap.LastMove = &last
	}
	for sq := range s.dests {
		snap.Destinations[sq] = struct{}{}
	}
	for sq := domain.Square(0); sq < domain.NumSquares; sq++ {
		if p, ok := s.rules.PieceAt(sq); ok {
			snap.Pieces[sq] = p
		}
	}
	return snap
}

// SquareView extracts the render input for one grid cell.
func (snap Snapshot) SquareView(row, col int) (SquareView, bool) {
	sq, ok := domain.FromGrid(row, col)
	if !ok {
		return SquareView{}, false
	}
	view := SquareView{Row: row, Col: col}
	if p, ok := snap.Pieces[sq]; ok {
		piece := p
		view.Piece = &piece
	}
	view.Active = snap.Active != nil && *snap.Active == sq
	view.LastMove = snap.LastMove != nil && (snap.LastMove.From == sq || snap.LastMove.To == sq)
	_, view.Destination = snap.Destinations[sq]
	return view, true
}

// DestinationList returns the legal destinations sorted by square index.
func (snap Snapshot) DestinationList() []domain.Square {
	out := make([]domain.Square, 0, len(snap.Destinations))
	for sq := domain.Square(0); sq < domain.NumSquares; sq++ {
		if _, ok := snap.Destinations[sq]; ok {
			out = append(out, sq)
		}
	}
	return out
}

// State converts the snapshot into its wire representation.
func (snap Snapshot) State() chessdto.BoardState {
	state := chessdto.BoardState{
		FEN:          snap.FEN,
		Turn:         snap.Turn.String(),
		Outcome:      snap.Outcome,
		Opening:      snap.Opening,
		History:      append([]string{}, snap.History...),
		Destinations: []string{},
	}
	if snap.Active != nil {
		state.Active = snap.Active.String()
	}
	for _, sq := range snap.DestinationList() {
		state.Destinations = append(state.Destinations, sq.String())
	}
	if snap.LastMove != nil {
		state.LastMove = &chessdto.MoveRef{From: snap.LastMove.From.String(), To: snap.LastMove.To.String()}
	}
	return state
}

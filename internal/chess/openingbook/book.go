// Package openingbook names the opening a game is in using the ECO
// classification bundled with the chess library.
package openingbook

import (
	"sync"

	chesslib "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

var (
	ecoOnce sync.Once
	ecoBook *opening.BookECO
)

// Opening is one ECO entry.
type Opening struct {
	Code  string
	Title string
}

func (o Opening) String() string {
	if o.Code == "" {
		return o.Title
	}
	return o.Code + " " + o.Title
}

func book() *opening.BookECO {
	ecoOnce.Do(func() { ecoBook = opening.NewBookECO() })
	return ecoBook
}

// Classify returns the ECO opening matching the played moves, if any.
func Classify(moves []*chesslib.Move) (Opening, bool) {
	if len(moves) == 0 {
		return Opening{}, false
	}
	eco := book().Find(moves)
	if eco == nil {
		return Opening{}, false
	}
	return Opening{Code: eco.Code(), Title: eco.Title()}, true
}

package chessdto

// MoveRef is a from/to pair in algebraic square names.
type MoveRef struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BoardState is the JSON view of the shared game served at /state.
type BoardState struct {
	FEN          string   `json:"fen"`
	Turn         string   `json:"turn"`
	Outcome      string   `json:"outcome"`
	Opening      string   `json:"opening,omitempty"`
	History      []string `json:"history"`
	Active       string   `json:"active,omitempty"`
	Destinations []string `json:"destinations"`
	LastMove     *MoveRef `json:"lastMove,omitempty"`
}

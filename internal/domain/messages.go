package domain

// ClientMessage is a frame received over the WebSocket.
type ClientMessage struct {
	Type           string `json:"type"`
	JWT            string `json:"jwt,omitempty"`
	Column         int    `json:"column"`
	StartingPlayer int    `json:"startingPlayer,omitempty"`
}

// ServerMessage is a frame sent over the WebSocket. Move frames carry the
// MoveResult fields; state frames carry the full game state.
type ServerMessage struct {
	Type        string     `json:"type"`
	Message     string     `json:"message,omitempty"`
	GameID      string     `json:"gameId,omitempty"`
	Code        MoveCode   `json:"code,omitempty"`
	Board       Board      `json:"board,omitempty"`
	Row         int        `json:"row,omitempty"`
	Column      int        `json:"column,omitempty"`
	Winner      PlayerID   `json:"winner,omitempty"`
	WinningLine []Cell     `json:"winningLine,omitempty"`
	NextTurn    PlayerID   `json:"nextTurn,omitempty"`
	Status      GameStatus `json:"status,omitempty"`
	History     []Board    `json:"history,omitempty"`
}

// ErrorMessage is a minimal error frame.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

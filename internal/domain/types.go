package domain

// to represent the players in the game
type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other player. Empty has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

// to represent the overall game status
type GameStatus string

const (
	StatusStart  GameStatus = "start"
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// MoveCode classifies the outcome of a single PlayMove call.
type MoveCode string

const (
	MoveInvalid MoveCode = "invalid"
	MoveSuccess MoveCode = "success"
	MoveWon     MoveCode = "won"
	MoveDraw    MoveCode = "draw"
)

// Cell is a board coordinate. Row 0 is the top row.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrColumnOutOfBounds Error = "column out of bounds"
	ErrColumnFull        Error = "column is full"
)

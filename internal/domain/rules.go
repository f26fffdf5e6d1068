package domain

// default board shape
const (
	DefaultRows      = 6
	DefaultColumns   = 7
	DefaultWinLength = 4
)

// Rules is the immutable configuration injected into an Engine.
// Board dimensions and the winning line length live here rather than in
// package-level constants so board size stays a parameter.
type Rules struct {
	Rows           int      `json:"rows"`
	Columns        int      `json:"columns"`
	WinLength      int      `json:"winLength"`
	StartingPlayer PlayerID `json:"startingPlayer"`
}

// DefaultRules returns the standard 6x7 game where Player1 moves first.
func DefaultRules() Rules {
	return Rules{
		Rows:           DefaultRows,
		Columns:        DefaultColumns,
		WinLength:      DefaultWinLength,
		StartingPlayer: Player1,
	}
}

// Normalized replaces malformed fields with their defaults instead of
// rejecting them, so partially loaded save data still produces a playable
// engine.
func (r Rules) Normalized() Rules {
	if r.Rows <= 0 {
		r.Rows = DefaultRows
	}
	if r.Columns <= 0 {
		r.Columns = DefaultColumns
	}
	if r.WinLength <= 1 {
		r.WinLength = DefaultWinLength
	}
	if r.StartingPlayer != Player1 && r.StartingPlayer != Player2 {
		r.StartingPlayer = Player1
	}
	return r
}

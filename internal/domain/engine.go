package domain

// Engine owns a single game: the board history, the turn order and the
// game status. All mutation goes through PlayMove; history snapshots are
// deep copies and never alias each other.
type Engine struct {
	rules   Rules
	history []Board
	status  GameStatus
}

// Options seed a new engine with previously recorded state, for resuming
// a saved game. A nil or malformed history falls back to a fresh game.
type Options struct {
	History []Board
}

// MoveResult is the outcome of one PlayMove call. It is produced fresh on
// every call, never mutated afterwards, and owned by the caller.
type MoveResult struct {
	Board       Board    `json:"board"`
	Winner      PlayerID `json:"winner"`
	Code        MoveCode `json:"code"`
	Message     string   `json:"message,omitempty"`
	Row         int      `json:"row"`
	Column      int      `json:"column"`
	WinningLine []Cell   `json:"winningLine,omitempty"`
}

// GameState is the plain-data view of an engine, for rendering or
// persistence by embedding code.
type GameState struct {
	StartingPlayer PlayerID   `json:"startingPlayer"`
	CurrentTurn    PlayerID   `json:"currentTurn"`
	Status         GameStatus `json:"status"`
	Board          Board      `json:"board"`
	History        []Board    `json:"history"`
}

// NewEngine creates an engine for the given rules. Malformed rules and
// options are normalized to defaults rather than rejected.
func NewEngine(rules Rules, opts Options) *Engine {
	e := &Engine{rules: rules.Normalized()}
	e.history = normalizeHistory(opts.History, e.rules)
	e.status = e.evaluateStatus()
	return e
}

// normalizeHistory deep-copies a recorded history. A missing history, or
// one containing a snapshot that does not match the board dimensions,
// falls back to the single-empty-board history of a fresh game.
func normalizeHistory(recorded []Board, rules Rules) []Board {
	if len(recorded) == 0 {
		return []Board{NewBoard(rules.Rows, rules.Columns)}
	}
	history := make([]Board, 0, len(recorded))
	for _, snapshot := range recorded {
		if !snapshot.shaped(rules.Rows, rules.Columns) {
			return []Board{NewBoard(rules.Rows, rules.Columns)}
		}
		history = append(history, snapshot.Clone())
	}
	return history
}

func (e *Engine) evaluateStatus() GameStatus {
	if winner, _ := CheckWin(e.current(), e.rules.WinLength); winner != Empty {
		return StatusWon
	}
	if e.current().Full() {
		return StatusDraw
	}
	if len(e.history) == 1 {
		return StatusStart
	}
	return StatusActive
}

// current returns the most recent snapshot without copying.
func (e *Engine) current() Board {
	return e.history[len(e.history)-1]
}

// Board returns a copy of the current board.
func (e *Engine) Board() Board {
	return e.current().Clone()
}

// History returns a deep copy of every snapshot, oldest first. The first
// entry is always the starting board.
func (e *Engine) History() []Board {
	history := make([]Board, len(e.history))
	for i, snapshot := range e.history {
		history[i] = snapshot.Clone()
	}
	return history
}

// Rules returns the engine's configuration.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Status returns the current game status.
func (e *Engine) Status() GameStatus {
	return e.status
}

// MovesPlayed is the number of successfully applied moves.
func (e *Engine) MovesPlayed() int {
	return len(e.history) - 1
}

// CurrentTurn derives the player to move from the history length parity
// and the starting player. It is never stored separately, so it cannot
// drift from the history.
func (e *Engine) CurrentTurn() PlayerID {
	if e.MovesPlayed()%2 == 0 {
		return e.rules.StartingPlayer
	}
	return e.rules.StartingPlayer.Opponent()
}

// Finished reports whether the game reached a terminal state.
func (e *Engine) Finished() bool {
	return e.status == StatusWon || e.status == StatusDraw
}

// State returns the plain-data view of the engine.
func (e *Engine) State() GameState {
	return GameState{
		StartingPlayer: e.rules.StartingPlayer,
		CurrentTurn:    e.CurrentTurn(),
		Status:         e.status,
		Board:          e.Board(),
		History:        e.History(),
	}
}

// PlayMove drops the current player's token into the given column and
// reports the outcome. Invalid moves leave the engine untouched. Once the
// game is won or drawn, further calls re-evaluate the final board without
// mutating anything, so they keep returning the same outcome.
func (e *Engine) PlayMove(column int) MoveResult {
	if e.Finished() {
		return e.terminalResult(column)
	}

	next := e.current().Clone()

	if !next.ValidColumn(column) {
		return MoveResult{
			Board:   next,
			Winner:  Empty,
			Code:    MoveInvalid,
			Message: ErrColumnOutOfBounds.Error(),
			Row:     -1,
			Column:  column,
		}
	}

	// the mover is determined by the pre-move history parity
	mover := e.CurrentTurn()
	row := next.Drop(column, mover)
	if row < 0 {
		return MoveResult{
			Board:   next,
			Winner:  Empty,
			Code:    MoveInvalid,
			Message: ErrColumnFull.Error(),
			Row:     -1,
			Column:  column,
		}
	}

	e.history = append(e.history, next)

	if winner, line := CheckWin(next, e.rules.WinLength); winner != Empty {
		e.status = StatusWon
		return MoveResult{
			Board:       next.Clone(),
			Winner:      winner,
			Code:        MoveWon,
			Row:         row,
			Column:      column,
			WinningLine: line,
		}
	}

	if next.Full() {
		e.status = StatusDraw
		return MoveResult{
			Board:  next.Clone(),
			Winner: Empty,
			Code:   MoveDraw,
			Row:    row,
			Column: column,
		}
	}

	e.status = StatusActive
	return MoveResult{
		Board:  next.Clone(),
		Winner: Empty,
		Code:   MoveSuccess,
		Row:    row,
		Column: column,
	}
}

// terminalResult re-evaluates the final board so repeated calls after the
// game ends return the same outcome without touching history.
func (e *Engine) terminalResult(column int) MoveResult {
	final := e.current().Clone()
	if winner, line := CheckWin(final, e.rules.WinLength); winner != Empty {
		return MoveResult{
			Board:       final,
			Winner:      winner,
			Code:        MoveWon,
			Row:         -1,
			Column:      column,
			WinningLine: line,
		}
	}
	return MoveResult{
		Board:  final,
		Winner: Empty,
		Code:   MoveDraw,
		Row:    -1,
		Column: column,
	}
}

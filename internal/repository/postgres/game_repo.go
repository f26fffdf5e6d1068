package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dropfour/drop-four/backend/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// GameRecord is a finished game as stored in the games table
type GameRecord struct {
	GameID          string          `json:"id"`
	UserID          int64           `json:"userId"`
	Status          string          `json:"status"`
	Winner          domain.PlayerID `json:"winner"`
	Reason          string          `json:"reason"`
	TotalMoves      int             `json:"totalMoves"`
	DurationSeconds int             `json:"durationSeconds"`
	CreatedAt       time.Time       `json:"createdAt"`
	FinishedAt      time.Time       `json:"finishedAt"`
}

// SaveGame upserts a finished game, including the final board and the full
// snapshot history, and bumps the owner's stats in the same transaction
func (r *GameRepo) SaveGame(rec GameRecord, finalBoard domain.Board, history []domain.Board) error {
	boardJSON, err := json.Marshal(finalBoard)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %v", err)
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %v", err)
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO games (game_id, user_id, status, winner, reason, total_moves, duration_seconds, created_at, finished_at, board_state, history)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (game_id) DO UPDATE SET
		status = EXCLUDED.status,
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state,
		history = EXCLUDED.history;
	`
	_, err = tx.Exec(query, rec.GameID, rec.UserID, rec.Status, int(rec.Winner), rec.Reason,
		rec.TotalMoves, rec.DurationSeconds, rec.CreatedAt, rec.FinishedAt, boardJSON, historyJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %v", err)
	}

	outcome := "lost"
	switch {
	case rec.Status == string(domain.StatusDraw):
		outcome = "drawn"
	case rec.Winner != domain.Empty:
		outcome = "won"
	}
	statsQuery := `
	UPDATE players
	SET games_played = games_played + 1,
	    games_won = games_won + CASE WHEN $2 = 'won' THEN 1 ELSE 0 END,
	    games_drawn = games_drawn + CASE WHEN $2 = 'drawn' THEN 1 ELSE 0 END
	WHERE id = $1;
	`
	if _, err := tx.Exec(statsQuery, rec.UserID, outcome); err != nil {
		return fmt.Errorf("failed to update player stats: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

const gameSelectFields = `game_id, user_id, status, winner, reason, total_moves, duration_seconds, created_at, finished_at`

// GetUserGameHistory lists a user's finished games, newest first
func (r *GameRepo) GetUserGameHistory(userID int64, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + gameSelectFields + ` FROM games WHERE user_id = $1 ORDER BY finished_at DESC LIMIT $2;`

	rows, err := r.DB.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game history: %v", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var rec GameRecord
		var winner int
		if err := rows.Scan(&rec.GameID, &rec.UserID, &rec.Status, &winner, &rec.Reason,
			&rec.TotalMoves, &rec.DurationSeconds, &rec.CreatedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game record: %v", err)
		}
		rec.Winner = domain.PlayerID(winner)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetGameByID retrieves one finished game; nil when not found
func (r *GameRepo) GetGameByID(gameID string) (*GameRecord, error) {
	query := `SELECT ` + gameSelectFields + ` FROM games WHERE game_id = $1;`

	var rec GameRecord
	var winner int
	err := r.DB.QueryRow(query, gameID).Scan(&rec.GameID, &rec.UserID, &rec.Status, &winner,
		&rec.Reason, &rec.TotalMoves, &rec.DurationSeconds, &rec.CreatedAt, &rec.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %v", err)
	}
	rec.Winner = domain.PlayerID(winner)
	return &rec, nil
}

// GetGameHistory returns the stored board snapshots for a finished game
func (r *GameRepo) GetGameHistory(gameID string) ([]domain.Board, error) {
	query := `SELECT history FROM games WHERE game_id = $1;`

	var historyJSON []byte
	err := r.DB.QueryRow(query, gameID).Scan(&historyJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game history: %v", err)
	}

	var history []domain.Board
	if err := json.Unmarshal(historyJSON, &history); err != nil {
		return nil, fmt.Errorf("failed to decode game history: %v", err)
	}
	return history, nil
}

package postgres

import (
	"database/sql"
	"fmt"
	"time"
)

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

type User struct {
	ID           int64
	Username     string
	Name         string
	Email        sql.NullString
	GoogleID     sql.NullString
	AvatarURL    string
	PasswordHash string
	GamesPlayed  int
	GamesWon     int
	GamesDrawn   int
	CreatedAt    time.Time
}

// UserResponse returns a JSON-friendly map of public user data
func (u *User) UserResponse() map[string]interface{} {
	email := ""
	if u.Email.Valid {
		email = u.Email.String
	}
	return map[string]interface{}{
		"id":         u.ID,
		"username":   u.Username,
		"name":       u.Name,
		"email":      email,
		"avatar_url": u.AvatarURL,
		"played":     u.GamesPlayed,
		"wins":       u.GamesWon,
		"draws":      u.GamesDrawn,
	}
}

const userSelectFields = `id, username, COALESCE(name, '') as name, email, google_id, COALESCE(avatar_url, '') as avatar_url, password_hash, games_played, games_won, games_drawn, created_at`

// scanUser is a helper that scans a row into a User struct
func scanUser(row interface{ Scan(dest ...any) error }) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Email,
		&user.GoogleID,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.GamesDrawn,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user; email and googleID may be empty
func (r *UserRepo) CreateUser(username, name, passwordHash, email, googleID, avatarURL string) (int64, error) {
	var emailParam, googleIDParam interface{}
	if email != "" {
		emailParam = email
	}
	if googleID != "" {
		googleIDParam = googleID
	}

	query := `
	INSERT INTO players (username, name, password_hash, email, google_id, avatar_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id;
	`
	var userID int64
	err := r.DB.QueryRow(query, username, name, passwordHash, emailParam, googleIDParam, avatarURL).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %v", err)
	}
	return userID, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepo) GetUserByUsername(username string) (*User, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE username = $1;`
	user, err := scanUser(r.DB.QueryRow(query, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepo) GetUserByID(userID int64) (*User, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE id = $1;`
	user, err := scanUser(r.DB.QueryRow(query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepo) GetUserByEmail(email string) (*User, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE email = $1;`
	user, err := scanUser(r.DB.QueryRow(query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// GetUserByGoogleID retrieves a user by their Google account ID
func (r *UserRepo) GetUserByGoogleID(googleID string) (*User, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE google_id = $1;`
	user, err := scanUser(r.DB.QueryRow(query, googleID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return user, nil
}

// RecordGameOutcome bumps the owner's counters for one finished game.
// outcome is "won", "drawn" or "lost".
func (r *UserRepo) RecordGameOutcome(userID int64, outcome string) error {
	query := `
	UPDATE players
	SET games_played = games_played + 1,
	    games_won = games_won + CASE WHEN $2 = 'won' THEN 1 ELSE 0 END,
	    games_drawn = games_drawn + CASE WHEN $2 = 'drawn' THEN 1 ELSE 0 END
	WHERE id = $1;
	`
	if _, err := r.DB.Exec(query, userID, outcome); err != nil {
		return fmt.Errorf("failed to update player stats: %v", err)
	}
	return nil
}

package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dropfour/drop-four/backend/internal/domain"
	"github.com/dropfour/drop-four/backend/internal/repository/postgres"
	"github.com/dropfour/drop-four/backend/pkg/uid"
)

const snapshotKeyPrefix = "game_snapshot:"

type GameRepository interface {
	SaveGame(rec postgres.GameRecord, finalBoard domain.Board, history []domain.Board) error
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// GameSession binds one engine to its owning user. Pass-and-play: both
// colors are driven through the owner's connection, so a session has a
// single owner and all calls on it are serialized by its mutex.
type GameSession struct {
	GameID        string
	OwnerID       int64
	OwnerUsername string
	Engine        *domain.Engine
	CreatedAt     time.Time
	LastMoveAt    time.Time
	Reason        string
	mu            sync.Mutex
}

// snapshot is the JSON shape cached in Redis after every applied move, so
// an interrupted game can be resumed through the engine's history option.
type snapshot struct {
	GameID        string         `json:"gameId"`
	OwnerID       int64          `json:"ownerId"`
	OwnerUsername string         `json:"ownerUsername"`
	Rules         domain.Rules   `json:"rules"`
	History       []domain.Board `json:"history"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// SessionManager tracks live game sessions. One live game per user.
type SessionManager struct {
	Sessions   map[string]*GameSession // gameID → session
	UserToGame map[int64]string        // userID → gameID
	mu         sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		Sessions:   make(map[string]*GameSession),
		UserToGame: make(map[int64]string),
	}
}

func (sm *SessionManager) add(session *GameSession) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	// a new game replaces any previous live game of the same owner
	if oldID, ok := sm.UserToGame[session.OwnerID]; ok {
		delete(sm.Sessions, oldID)
	}
	sm.Sessions[session.GameID] = session
	sm.UserToGame[session.OwnerID] = session.GameID
}

func (sm *SessionManager) GetSessionByUserID(userID int64) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	gameID, exists := sm.UserToGame[userID]
	if !exists {
		return nil, false
	}
	session, exists := sm.Sessions[gameID]
	return session, exists
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Sessions[gameID]
	return session, exists
}

func (sm *SessionManager) Remove(gameID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, exists := sm.Sessions[gameID]
	if !exists {
		return
	}
	delete(sm.Sessions, gameID)
	if sm.UserToGame[session.OwnerID] == gameID {
		delete(sm.UserToGame, session.OwnerID)
	}
}

// CleanupStaleSessions drops live sessions idle for longer than maxIdle
// and returns how many were removed
func (sm *SessionManager) CleanupStaleSessions(maxIdle time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxIdle)
	for gameID, session := range sm.Sessions {
		if session.LastMoveAt.Before(cutoff) {
			delete(sm.Sessions, gameID)
			if sm.UserToGame[session.OwnerID] == gameID {
				delete(sm.UserToGame, session.OwnerID)
			}
			removed++
		}
	}
	return removed
}

// Service is the embedding layer around the rules engine: it creates and
// resumes sessions, relays moves, snapshots live games to the cache and
// persists finished ones.
type Service struct {
	Manager     *SessionManager
	repo        GameRepository
	cache       CacheRepository // optional, can be nil
	rules       domain.Rules
	snapshotTTL time.Duration
}

func NewService(repo GameRepository, cache CacheRepository, rules domain.Rules, snapshotTTL time.Duration) *Service {
	return &Service{
		Manager:     NewSessionManager(),
		repo:        repo,
		cache:       cache,
		rules:       rules.Normalized(),
		snapshotTTL: snapshotTTL,
	}
}

// Rules returns the board configuration games are created with.
func (s *Service) Rules() domain.Rules {
	return s.rules
}

// CreateGame starts a fresh game for the user. startingPlayer overrides
// the configured starting color when it names a real player.
func (s *Service) CreateGame(userID int64, username string, startingPlayer domain.PlayerID) *GameSession {
	rules := s.rules
	if startingPlayer == domain.Player1 || startingPlayer == domain.Player2 {
		rules.StartingPlayer = startingPlayer
	}

	session := &GameSession{
		GameID:        uid.GenerateGameID(),
		OwnerID:       userID,
		OwnerUsername: username,
		Engine:        domain.NewEngine(rules, domain.Options{}),
		CreatedAt:     time.Now(),
		LastMoveAt:    time.Now(),
	}
	s.Manager.add(session)

	log.Printf("[GAME] Created game %s for %s (ID: %d)", session.GameID, username, userID)
	return session
}

// PlayMove applies one column drop to the user's live game. The engine
// reports invalid moves in the result rather than through the error; the
// error is reserved for "no live game".
func (s *Service) PlayMove(userID int64, column int) (domain.MoveResult, *GameSession, error) {
	session, ok := s.Manager.GetSessionByUserID(userID)
	if !ok {
		restored, err := s.resumeFromSnapshot(userID)
		if err != nil {
			return domain.MoveResult{}, nil, err
		}
		session = restored
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	result := session.Engine.PlayMove(column)
	switch result.Code {
	case domain.MoveSuccess:
		session.LastMoveAt = time.Now()
		s.storeSnapshot(session)
	case domain.MoveWon, domain.MoveDraw:
		// a repeated call on a finished game re-returns the outcome
		// without re-persisting
		if session.Reason == "" {
			session.LastMoveAt = time.Now()
			session.Reason = string(result.Code)
			s.finishGame(session)
		}
	}

	return result, session, nil
}

// GetState returns the plain-data view of the user's live game.
func (s *Service) GetState(userID int64) (domain.GameState, string, error) {
	session, ok := s.Manager.GetSessionByUserID(userID)
	if !ok {
		restored, err := s.resumeFromSnapshot(userID)
		if err != nil {
			return domain.GameState{}, "", err
		}
		session = restored
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.Engine.State(), session.GameID, nil
}

// Resign abandons the user's live game. The player whose turn it is
// forfeits; the game is persisted with reason "resigned".
func (s *Service) Resign(userID int64) (*GameSession, error) {
	session, ok := s.Manager.GetSessionByUserID(userID)
	if !ok {
		return nil, fmt.Errorf("no live game for user %d", userID)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Reason != "" {
		return session, nil
	}
	session.Reason = "resigned"
	s.finishGame(session)
	return session, nil
}

// finishGame persists the terminal game and clears its cache snapshot.
// Callers hold the session mutex.
func (s *Service) finishGame(session *GameSession) {
	engine := session.Engine
	winner, _ := domain.CheckWin(engine.Board(), engine.Rules().WinLength)

	rec := postgres.GameRecord{
		GameID:          session.GameID,
		UserID:          session.OwnerID,
		Status:          string(engine.Status()),
		Winner:          winner,
		Reason:          session.Reason,
		TotalMoves:      engine.MovesPlayed(),
		DurationSeconds: int(time.Since(session.CreatedAt).Seconds()),
		CreatedAt:       session.CreatedAt,
		FinishedAt:      time.Now(),
	}
	if err := s.repo.SaveGame(rec, engine.Board(), engine.History()); err != nil {
		log.Printf("[GAME] Failed to persist game %s: %v", session.GameID, err)
	}
	s.deleteSnapshot(session)
	log.Printf("[GAME] Finished game %s (%s, winner %d, %d moves)",
		session.GameID, session.Reason, winner, rec.TotalMoves)
}

// resumeFromSnapshot rebuilds a live session from the cached history, for
// games interrupted by a disconnect or a restart.
func (s *Service) resumeFromSnapshot(userID int64) (*GameSession, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("no live game for user %d", userID)
	}

	ctx := context.Background()
	data, err := s.cache.Get(ctx, snapshotKey(userID))
	if err != nil || data == "" {
		return nil, fmt.Errorf("no live game for user %d", userID)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		log.Printf("[GAME] Dropping unreadable snapshot for user %d: %v", userID, err)
		s.cache.Del(ctx, snapshotKey(userID))
		return nil, fmt.Errorf("no live game for user %d", userID)
	}

	session := &GameSession{
		GameID:        snap.GameID,
		OwnerID:       snap.OwnerID,
		OwnerUsername: snap.OwnerUsername,
		Engine:        domain.NewEngine(snap.Rules, domain.Options{History: snap.History}),
		CreatedAt:     snap.CreatedAt,
		LastMoveAt:    time.Now(),
	}
	s.Manager.add(session)

	log.Printf("[GAME] Resumed game %s for user %d from snapshot", snap.GameID, userID)
	return session, nil
}

// storeSnapshot caches the full game state. Callers hold the session
// mutex.
func (s *Service) storeSnapshot(session *GameSession) {
	if s.cache == nil {
		return
	}

	snap := snapshot{
		GameID:        session.GameID,
		OwnerID:       session.OwnerID,
		OwnerUsername: session.OwnerUsername,
		Rules:         session.Engine.Rules(),
		History:       session.Engine.History(),
		CreatedAt:     session.CreatedAt,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[GAME] Failed to marshal snapshot for game %s: %v", session.GameID, err)
		return
	}

	ctx := context.Background()
	if err := s.cache.Set(ctx, snapshotKey(session.OwnerID), data, s.snapshotTTL); err != nil {
		log.Printf("[GAME] Failed to cache snapshot for game %s: %v", session.GameID, err)
	}
}

func (s *Service) deleteSnapshot(session *GameSession) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	s.cache.Del(ctx, snapshotKey(session.OwnerID))
}

func snapshotKey(userID int64) string {
	return fmt.Sprintf("%s%d", snapshotKeyPrefix, userID)
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropfour/drop-four/backend/internal/config"
	"github.com/dropfour/drop-four/backend/internal/domain"
	"github.com/dropfour/drop-four/backend/pkg/auth"
	"github.com/dropfour/drop-four/backend/pkg/uid"
)

const blockedSessionKeyPrefix = "blocked_session:"

type SessionRepository interface {
	CreateSession(userID int64, sessionID, deviceInfo, ipAddress string, expiresAt time.Time) error
	GetSessionByID(sessionID string) (*domain.UserSession, error)
	DeactivateSession(sessionID string) error
	DeactivateAllUserSessions(userID int64) error
	UpdateSessionActivity(sessionID string) error
}

type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// AuthService handles login session logic: JWTs are only trusted while a
// matching active session row exists and the session is not blocklisted.
type AuthService struct {
	repo  SessionRepository
	cache CacheRepository // optional, can be nil
}

func NewAuthService(repo SessionRepository, cache CacheRepository) *AuthService {
	return &AuthService{
		repo:  repo,
		cache: cache,
	}
}

// Login creates a session row and returns a signed access token for it
func (s *AuthService) Login(userID int64, username, deviceInfo, ipAddress string) (token, sessionID string, err error) {
	sessionID, err = uid.GenerateSessionID()
	if err != nil {
		return "", "", fmt.Errorf("failed to create session: %v", err)
	}

	ttl := time.Duration(config.AppConfig.SessionTTLDays) * 24 * time.Hour
	expiresAt := time.Now().Add(ttl)
	if err := s.repo.CreateSession(userID, sessionID, deviceInfo, ipAddress, expiresAt); err != nil {
		return "", "", err
	}

	token, err = auth.GenerateJWT(userID, username, sessionID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate token: %v", err)
	}
	return token, sessionID, nil
}

// ValidateToken checks the JWT signature, the blocklist and the session
// row in the database
func (s *AuthService) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := auth.ValidateJWT(tokenString)
	if err != nil {
		return nil, err
	}

	if s.isSessionBlocked(claims.SessionID) {
		return nil, errors.New("session is blocked/revoked")
	}

	session, err := s.repo.GetSessionByID(claims.SessionID)
	if err != nil || session == nil {
		return nil, errors.New("session not found")
	}
	if !session.IsActive {
		return nil, errors.New("session logged out")
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, errors.New("session expired")
	}

	// keep last_activity fresh without blocking the request
	go s.repo.UpdateSessionActivity(claims.SessionID)

	return claims, nil
}

// Logout deactivates the session row and blocklists its ID so tokens die
// immediately even before the DB row is re-read
func (s *AuthService) Logout(sessionID string) error {
	if err := s.repo.DeactivateSession(sessionID); err != nil {
		return err
	}
	s.blocklistSession(sessionID, time.Duration(config.AppConfig.AccessTokenTTLHours)*time.Hour)
	return nil
}

// LogoutEverywhere deactivates all of a user's sessions
func (s *AuthService) LogoutEverywhere(userID int64) error {
	return s.repo.DeactivateAllUserSessions(userID)
}

func (s *AuthService) blocklistSession(sessionID string, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	ctx := context.Background()
	s.cache.Set(ctx, blockedSessionKeyPrefix+sessionID, "1", ttl)
}

func (s *AuthService) isSessionBlocked(sessionID string) bool {
	if s.cache == nil {
		return false
	}
	ctx := context.Background()
	val, err := s.cache.Get(ctx, blockedSessionKeyPrefix+sessionID)
	return err == nil && val != ""
}

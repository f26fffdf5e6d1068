package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dropfour/drop-four/backend/internal/domain"
	"github.com/dropfour/drop-four/backend/internal/repository/postgres"
)

type fakeRepo struct {
	mu    sync.Mutex
	saved []postgres.GameRecord
}

func (f *fakeRepo) SaveGame(rec postgres.GameRecord, finalBoard domain.Board, history []domain.Board) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeRepo) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case string:
		f.store[key] = v
	case []byte:
		f.store[key] = string(v)
	}
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store[key], nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.store, key)
	}
	return nil
}

func newTestService(cache CacheRepository) (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	return NewService(repo, cache, domain.DefaultRules(), time.Hour), repo
}

func TestCreateGameRegistersSession(t *testing.T) {
	svc, _ := newTestService(nil)

	session := svc.CreateGame(1, "casey", domain.Empty)
	if session.GameID == "" {
		t.Fatal("expected a game ID")
	}

	found, ok := svc.Manager.GetSessionByUserID(1)
	if !ok {
		t.Fatal("session not registered for user")
	}
	if found.GameID != session.GameID {
		t.Errorf("registered game %s, want %s", found.GameID, session.GameID)
	}
	if found.Engine.Status() != domain.StatusStart {
		t.Errorf("status = %v, want %v", found.Engine.Status(), domain.StatusStart)
	}
}

func TestCreateGameHonorsStartingPlayer(t *testing.T) {
	svc, _ := newTestService(nil)

	session := svc.CreateGame(1, "casey", domain.Player2)
	if turn := session.Engine.CurrentTurn(); turn != domain.Player2 {
		t.Errorf("current turn = %v, want Player2", turn)
	}
}

func TestPlayMoveWithoutGame(t *testing.T) {
	svc, _ := newTestService(nil)

	if _, _, err := svc.PlayMove(99, 3); err == nil {
		t.Error("expected an error when the user has no live game")
	}
}

func TestPlayMoveAppliesAndSnapshots(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newTestService(cache)
	svc.CreateGame(1, "casey", domain.Empty)

	result, session, err := svc.PlayMove(1, 3)
	if err != nil {
		t.Fatalf("PlayMove: %v", err)
	}
	if result.Code != domain.MoveSuccess {
		t.Fatalf("code = %v, want %v", result.Code, domain.MoveSuccess)
	}
	if session.Engine.MovesPlayed() != 1 {
		t.Errorf("moves played = %d, want 1", session.Engine.MovesPlayed())
	}
	if cache.store[snapshotKey(1)] == "" {
		t.Error("expected a snapshot after a successful move")
	}
}

func TestInvalidMoveDoesNotSnapshot(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newTestService(cache)
	svc.CreateGame(1, "casey", domain.Empty)

	result, _, err := svc.PlayMove(1, 99)
	if err != nil {
		t.Fatalf("PlayMove: %v", err)
	}
	if result.Code != domain.MoveInvalid {
		t.Fatalf("code = %v, want %v", result.Code, domain.MoveInvalid)
	}
	if cache.store[snapshotKey(1)] != "" {
		t.Error("snapshot written for a rejected move")
	}
}

func TestWinPersistsGameOnce(t *testing.T) {
	cache := newFakeCache()
	svc, repo := newTestService(cache)
	svc.CreateGame(1, "casey", domain.Empty)

	for _, column := range []int{0, 6, 1, 6, 2, 5} {
		if _, _, err := svc.PlayMove(1, column); err != nil {
			t.Fatalf("setup move: %v", err)
		}
	}

	result, _, err := svc.PlayMove(1, 3)
	if err != nil {
		t.Fatalf("winning move: %v", err)
	}
	if result.Code != domain.MoveWon {
		t.Fatalf("code = %v, want %v", result.Code, domain.MoveWon)
	}
	if result.Winner != domain.Player1 {
		t.Errorf("winner = %v, want Player1", result.Winner)
	}
	if repo.savedCount() != 1 {
		t.Fatalf("saved %d games, want 1", repo.savedCount())
	}
	if cache.store[snapshotKey(1)] != "" {
		t.Error("snapshot still cached after the game finished")
	}

	// a repeated call re-returns the outcome without persisting again
	again, _, err := svc.PlayMove(1, 0)
	if err != nil {
		t.Fatalf("post-game move: %v", err)
	}
	if again.Code != domain.MoveWon || again.Winner != domain.Player1 {
		t.Errorf("post-game result = %v/%v, want won/Player1", again.Code, again.Winner)
	}
	if repo.savedCount() != 1 {
		t.Errorf("saved %d games after repeat call, want 1", repo.savedCount())
	}
}

func TestResignPersistsGame(t *testing.T) {
	svc, repo := newTestService(nil)
	svc.CreateGame(1, "casey", domain.Empty)
	svc.PlayMove(1, 3)

	session, err := svc.Resign(1)
	if err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if session.Reason != "resigned" {
		t.Errorf("reason = %q, want resigned", session.Reason)
	}
	if repo.savedCount() != 1 {
		t.Errorf("saved %d games, want 1", repo.savedCount())
	}
}

func TestResumeFromSnapshot(t *testing.T) {
	cache := newFakeCache()
	svc, _ := newTestService(cache)
	created := svc.CreateGame(1, "casey", domain.Empty)
	svc.PlayMove(1, 3)
	svc.PlayMove(1, 4)

	// simulate a restart: live sessions are gone, the cache survives
	svc.Manager.Remove(created.GameID)
	if _, ok := svc.Manager.GetSessionByUserID(1); ok {
		t.Fatal("session not removed")
	}

	state, gameID, err := svc.GetState(1)
	if err != nil {
		t.Fatalf("GetState after restart: %v", err)
	}
	if gameID != created.GameID {
		t.Errorf("resumed game %s, want %s", gameID, created.GameID)
	}
	if len(state.History) != 3 {
		t.Errorf("resumed history length = %d, want 3", len(state.History))
	}
	if state.CurrentTurn != domain.Player1 {
		t.Errorf("resumed turn = %v, want Player1", state.CurrentTurn)
	}
	if state.Board[5][3] != domain.Player1 || state.Board[5][4] != domain.Player2 {
		t.Error("resumed board lost its tokens")
	}
}

func TestCleanupStaleSessions(t *testing.T) {
	svc, _ := newTestService(nil)
	stale := svc.CreateGame(1, "casey", domain.Empty)
	stale.LastMoveAt = time.Now().Add(-3 * time.Hour)
	svc.CreateGame(2, "robin", domain.Empty)

	removed := svc.Manager.CleanupStaleSessions(time.Hour)
	if removed != 1 {
		t.Fatalf("removed %d sessions, want 1", removed)
	}
	if _, ok := svc.Manager.GetSessionByUserID(1); ok {
		t.Error("stale session survived cleanup")
	}
	if _, ok := svc.Manager.GetSessionByUserID(2); !ok {
		t.Error("fresh session was removed")
	}
}

package cleanup

import (
	"log"
	"time"

	"github.com/dropfour/drop-four/backend/internal/service/game"
)

// SessionStore is the slice of the Postgres session repo the worker needs.
type SessionStore interface {
	CleanupOldSessions(daysToKeep int) (int64, error)
}

// Worker periodically drops stale live games and expired login sessions.
type Worker struct {
	GameService  *game.Service
	SessionStore SessionStore
	MaxGameIdle  time.Duration
	Interval     time.Duration
}

func NewWorker(gs *game.Service, store SessionStore) *Worker {
	return &Worker{
		GameService:  gs,
		SessionStore: store,
		MaxGameIdle:  2 * time.Hour,
		Interval:     time.Hour,
	}
}

// Start initiates the background ticker
func (w *Worker) Start() {
	go w.runCleanup()

	ticker := time.NewTicker(w.Interval)
	go func() {
		for range ticker.C {
			w.runCleanup()
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup() {
	log.Println("[CLEANUP] Starting scheduled cleanup task...")

	if removed := w.GameService.Manager.CleanupStaleSessions(w.MaxGameIdle); removed > 0 {
		log.Printf("[CLEANUP] Removed %d stale game sessions", removed)
	}

	daysToKeep := 30
	deleted, err := w.SessionStore.CleanupOldSessions(daysToKeep)
	if err != nil {
		log.Printf("[CLEANUP] Error cleaning up DB sessions: %v", err)
	} else if deleted > 0 {
		log.Printf("[CLEANUP] Removed %d expired sessions from database", deleted)
	}
}

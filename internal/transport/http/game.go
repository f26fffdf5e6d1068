package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dropfour/drop-four/backend/internal/domain"
	"github.com/dropfour/drop-four/backend/internal/service/game"
	"github.com/dropfour/drop-four/backend/internal/transport/http/middleware"
)

type GameHandler struct {
	GameService *game.Service
}

func NewGameHandler(gameService *game.Service) *GameHandler {
	return &GameHandler{GameService: gameService}
}

// CreateGame starts a fresh game for the caller, replacing any live one
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req struct {
		StartingPlayer int `json:"startingPlayer"`
	}
	// body is optional; an empty body means the configured default
	c.ShouldBindJSON(&req)

	session := h.GameService.CreateGame(middleware.UserID(c), middleware.Username(c), domain.PlayerID(req.StartingPlayer))

	state := session.Engine.State()
	c.JSON(http.StatusCreated, gin.H{
		"gameId":   session.GameID,
		"board":    state.Board,
		"nextTurn": state.CurrentTurn,
		"status":   state.Status,
		"rules":    session.Engine.Rules(),
	})
}

// PlayMove applies one column drop to the caller's live game
func (h *GameHandler) PlayMove(c *gin.Context) {
	var req struct {
		Column *int `json:"column"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Column == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must carry a column"})
		return
	}

	result, session, err := h.GameService.PlayMove(middleware.UserID(c), *req.Column)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live game, create one first"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId":      session.GameID,
		"code":        result.Code,
		"message":     result.Message,
		"board":       result.Board,
		"row":         result.Row,
		"column":      result.Column,
		"winner":      result.Winner,
		"winningLine": result.WinningLine,
		"nextTurn":    session.Engine.CurrentTurn(),
		"status":      session.Engine.Status(),
	})
}

// GetState returns the caller's live game, resuming from the cache
// snapshot when the in-memory session is gone
func (h *GameHandler) GetState(c *gin.Context) {
	state, gameID, err := h.GameService.GetState(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId":         gameID,
		"board":          state.Board,
		"nextTurn":       state.CurrentTurn,
		"startingPlayer": state.StartingPlayer,
		"status":         state.Status,
		"history":        state.History,
	})
}

// Resign forfeits the caller's live game
func (h *GameHandler) Resign(c *gin.Context) {
	session, err := h.GameService.Resign(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No live game to resign"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gameId": session.GameID,
		"status": session.Engine.Status(),
	})
}

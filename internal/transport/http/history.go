package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dropfour/drop-four/backend/internal/repository/postgres"
	"github.com/dropfour/drop-four/backend/internal/transport/http/middleware"
)

type HistoryHandler struct {
	GameRepo *postgres.GameRepo
}

func NewHistoryHandler(gameRepo *postgres.GameRepo) *HistoryHandler {
	return &HistoryHandler{GameRepo: gameRepo}
}

// GetHistory lists the caller's finished games, newest first
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.GameRepo.GetUserGameHistory(middleware.UserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game history"})
		return
	}
	if records == nil {
		records = []postgres.GameRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"games": records})
}

// GetGameDetails returns one finished game with its full snapshot history
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	gameID := c.Param("id")

	rec, err := h.GameRepo.GetGameByID(gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	if rec == nil || rec.UserID != middleware.UserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	history, err := h.GameRepo.GetGameHistory(gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":    rec,
		"history": history,
	})
}

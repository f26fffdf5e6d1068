package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dropfour/drop-four/backend/internal/domain"
	"github.com/dropfour/drop-four/backend/internal/service/game"
	"github.com/dropfour/drop-four/backend/internal/service/session"
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager *ConnectionManager
	GameService *game.Service
	AuthService *session.AuthService
	Upgrader    websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, gs *game.Service, as *session.AuthService) *Handler {
	return &Handler{
		ConnManager: cm,
		GameService: gs,
		AuthService: as,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	// keep-alive pinger
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			}
		}
	}()
	defer close(done)

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// the first frame must be an init carrying a valid JWT
	var init domain.ClientMessage
	if err := conn.ReadJSON(&init); err != nil {
		log.Printf("[WS] Read error during init: %v", err)
		conn.Close()
		return
	}
	if init.Type != "init" || init.JWT == "" {
		conn.WriteJSON(domain.ErrorMessage{Type: "error", Message: "First message must be init with a token"})
		conn.Close()
		return
	}

	claims, err := h.AuthService.ValidateToken(init.JWT)
	if err != nil {
		log.Printf("[WS] Invalid token during init: %v", err)
		conn.WriteJSON(domain.ErrorMessage{Type: "error", Message: "Invalid token or session expired"})
		conn.Close()
		return
	}

	userID := claims.UserID
	username := claims.Username
	h.ConnManager.AddConnection(userID, conn)
	defer h.ConnManager.RemoveConnection(userID, conn)
	defer conn.Close()

	h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "init_ok", Message: "Connected"})
	log.Printf("[WS] User %s (ID: %d) connected", username, userID)

	for {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var message domain.ClientMessage
		if err := conn.ReadJSON(&message); err != nil {
			log.Printf("[WS] User %d disconnected: %v", userID, err)
			return
		}

		switch message.Type {
		case "create_game":
			h.handleCreateGame(userID, username, message)
		case "move":
			h.handleMove(userID, message)
		case "resign":
			h.handleResign(userID)
		case "game_state":
			h.handleGameState(userID)
		default:
			h.ConnManager.SendMessage(userID, domain.ServerMessage{
				Type:    "error",
				Message: "Unknown message type: " + message.Type,
			})
		}
	}
}

func (h *Handler) handleCreateGame(userID int64, username string, message domain.ClientMessage) {
	gameSession := h.GameService.CreateGame(userID, username, domain.PlayerID(message.StartingPlayer))

	state := gameSession.Engine.State()
	h.ConnManager.SendMessage(userID, domain.ServerMessage{
		Type:     "game_created",
		GameID:   gameSession.GameID,
		Board:    state.Board,
		NextTurn: state.CurrentTurn,
		Status:   state.Status,
	})
}

func (h *Handler) handleMove(userID int64, message domain.ClientMessage) {
	result, gameSession, err := h.GameService.PlayMove(userID, message.Column)
	if err != nil {
		h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: "No live game, create one first"})
		return
	}

	h.ConnManager.SendMessage(userID, domain.ServerMessage{
		Type:        "move_result",
		GameID:      gameSession.GameID,
		Code:        result.Code,
		Message:     result.Message,
		Board:       result.Board,
		Row:         result.Row,
		Column:      result.Column,
		Winner:      result.Winner,
		WinningLine: result.WinningLine,
		NextTurn:    gameSession.Engine.CurrentTurn(),
		Status:      gameSession.Engine.Status(),
	})
}

func (h *Handler) handleResign(userID int64) {
	gameSession, err := h.GameService.Resign(userID)
	if err != nil {
		h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: "No live game to resign"})
		return
	}

	h.ConnManager.SendMessage(userID, domain.ServerMessage{
		Type:   "resigned",
		GameID: gameSession.GameID,
		Status: gameSession.Engine.Status(),
	})
}

func (h *Handler) handleGameState(userID int64) {
	state, gameID, err := h.GameService.GetState(userID)
	if err != nil {
		h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: "error", Message: "No live game"})
		return
	}

	h.ConnManager.SendMessage(userID, domain.ServerMessage{
		Type:     "game_state",
		GameID:   gameID,
		Board:    state.Board,
		NextTurn: state.CurrentTurn,
		Status:   state.Status,
		History:  state.History,
	})
}

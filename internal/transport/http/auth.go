package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dropfour/drop-four/backend/internal/repository/postgres"
	"github.com/dropfour/drop-four/backend/internal/service/session"
	"github.com/dropfour/drop-four/backend/internal/transport/http/middleware"
	"github.com/dropfour/drop-four/backend/pkg/auth"
	"github.com/dropfour/drop-four/backend/pkg/httputil"
	"github.com/dropfour/drop-four/backend/pkg/useragent"
)

type AuthHandler struct {
	UserRepo    *postgres.UserRepo
	AuthService *session.AuthService
}

func NewAuthHandler(userRepo *postgres.UserRepo, authService *session.AuthService) *AuthHandler {
	return &AuthHandler{
		UserRepo:    userRepo,
		AuthService: authService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 || len(req.Username) > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be between 3 and 50 characters"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	existing, _ := h.UserRepo.GetUserByUsername(req.Username)
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}
	existing, _ = h.UserRepo.GetUserByEmail(req.Email)
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPwd, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = req.Username
	}

	userID, err := h.UserRepo.CreateUser(req.Username, req.Name, hashedPwd, req.Email, "", "")
	if err != nil {
		log.Printf("[AUTH] Failed to create user %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, _, err := h.AuthService.Login(userID, req.Username,
		useragent.ExtractDeviceInfo(c.Request), useragent.ExtractIPAddress(c.Request))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	httputil.SetAuthCookie(c.Writer, token)
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  gin.H{"id": userID, "username": req.Username, "name": req.Name},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.UserRepo.GetUserByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, _, err := h.AuthService.Login(user.ID, user.Username,
		useragent.ExtractDeviceInfo(c.Request), useragent.ExtractIPAddress(c.Request))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	httputil.SetAuthCookie(c.Writer, token)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.UserResponse(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if err := h.AuthService.Logout(sessionID); err != nil {
		log.Printf("[AUTH] Logout error: %v", err)
	}
	httputil.ClearAuthCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.UserRepo.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user.UserResponse())
}

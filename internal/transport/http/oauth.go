package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dropfour/drop-four/backend/internal/config"
	"github.com/dropfour/drop-four/backend/internal/repository/postgres"
	"github.com/dropfour/drop-four/backend/internal/service/session"
	"github.com/dropfour/drop-four/backend/pkg/httputil"
	"github.com/dropfour/drop-four/backend/pkg/useragent"
)

const oauthStateCookie = "oauth_state"

type OAuthHandler struct {
	UserRepo    *postgres.UserRepo
	AuthService *session.AuthService
}

func NewOAuthHandler(userRepo *postgres.UserRepo, authService *session.AuthService) *OAuthHandler {
	return &OAuthHandler{
		UserRepo:    userRepo,
		AuthService: authService,
	}
}

// GoogleLogin redirects to Google's consent screen with a random state
// cookie for CSRF protection
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	state := hex.EncodeToString(buf)

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := config.AppConfig.OAuthConfig.GoogleLoginConfig.AuthCodeURL(state)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback exchanges the code, finds or creates the matching user
// and opens a login session
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	stateCookie, err := c.Cookie(oauthStateCookie)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	token, err := config.AppConfig.OAuthConfig.GoogleLoginConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("[AUTH] Google code exchange failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code exchange failed"})
		return
	}

	googleUser, err := config.GetGoogleUserInfo(token.AccessToken)
	if err != nil || googleUser.ID == "" {
		log.Printf("[AUTH] Google userinfo fetch failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to fetch Google profile"})
		return
	}

	user, err := h.UserRepo.GetUserByGoogleID(googleUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if user == nil && googleUser.Email != "" {
		// an existing password account with the same verified email is the
		// same person; link it instead of creating a duplicate
		user, err = h.UserRepo.GetUserByEmail(googleUser.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	if user == nil {
		username := h.uniqueUsername(googleUser.Email, googleUser.Name)
		userID, err := h.UserRepo.CreateUser(username, googleUser.Name, "", googleUser.Email, googleUser.ID, googleUser.Picture)
		if err != nil {
			log.Printf("[AUTH] Failed to create Google user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		user, err = h.UserRepo.GetUserByID(userID)
		if err != nil || user == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	jwtToken, _, err := h.AuthService.Login(user.ID, user.Username,
		useragent.ExtractDeviceInfo(c.Request), useragent.ExtractIPAddress(c.Request))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	httputil.SetAuthCookie(c.Writer, jwtToken)
	c.Redirect(http.StatusTemporaryRedirect, config.AppConfig.FrontendURL)
}

// uniqueUsername derives a username from the Google profile, suffixing
// until it is free
func (h *OAuthHandler) uniqueUsername(email, name string) string {
	base := strings.Split(email, "@")[0]
	if base == "" {
		base = strings.ToLower(strings.ReplaceAll(name, " ", ""))
	}
	if len(base) < 3 {
		base = base + "player"
	}

	candidate := base
	for i := 1; i < 100; i++ {
		existing, err := h.UserRepo.GetUserByUsername(candidate)
		if err == nil && existing == nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return candidate
}

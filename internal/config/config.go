package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	JWTSecret            string
	AccessTokenTTLHours  int
	SessionTTLDays       int
	GameSnapshotTTL      time.Duration
	BoardRows            int
	BoardColumns         int
	WinLength            int
	OAuthConfig          OAuthConfig
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOriginsStr := GetEnv("ALLOWED_ORIGINS", "")

	// Build allowed origins list (Frontend URL + Localhost + CSV values)
	allowedOrigins := []string{
		frontendURL,
		"http://localhost:5173", // Local development
	}
	if allowedOriginsStr != "" {
		extras := strings.Split(allowedOriginsStr, ",")
		for _, origin := range extras {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Database Config
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	dbMaxOpenConns := GetEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	dbMaxIdleConns := GetEnvAsInt("DB_MAX_IDLE_CONNS", 25)
	dbConnMaxLifetimeMin := GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	// Security
	jwtSecret := GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production")
	accessTokenTTLHours := GetEnvAsInt("JWT_EXPIRATION_HOURS", 72)
	sessionTTLDays := GetEnvAsInt("SESSION_TTL_DAYS", 30)

	// Board rules. These flow into the engine as an injected rules
	// object; out-of-range values are normalized there.
	boardRows := GetEnvAsInt("BOARD_ROWS", 6)
	boardColumns := GetEnvAsInt("BOARD_COLUMNS", 7)
	winLength := GetEnvAsInt("WIN_LENGTH", 4)

	snapshotTTLMin := GetEnvAsInt("GAME_SNAPSHOT_TTL_MINUTES", 120)

	oauthConfig := LoadOAuthConfig()

	AppConfig = &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       dbMaxOpenConns,
		DBMaxIdleConns:       dbMaxIdleConns,
		DBConnMaxLifetimeMin: dbConnMaxLifetimeMin,
		JWTSecret:            jwtSecret,
		AccessTokenTTLHours:  accessTokenTTLHours,
		SessionTTLDays:       sessionTTLDays,
		GameSnapshotTTL:      time.Duration(snapshotTTLMin) * time.Minute,
		BoardRows:            boardRows,
		BoardColumns:         boardColumns,
		WinLength:            winLength,
		OAuthConfig:          *oauthConfig,
	}

	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/dropfour/drop-four/backend/internal/config"
	"github.com/dropfour/drop-four/backend/internal/domain"
	"github.com/dropfour/drop-four/backend/internal/repository/postgres"
	"github.com/dropfour/drop-four/backend/internal/repository/redis"
	"github.com/dropfour/drop-four/backend/internal/service/cleanup"
	"github.com/dropfour/drop-four/backend/internal/service/game"
	"github.com/dropfour/drop-four/backend/internal/service/session"
	transportHttp "github.com/dropfour/drop-four/backend/internal/transport/http"
	"github.com/dropfour/drop-four/backend/internal/transport/http/middleware"
	"github.com/dropfour/drop-four/backend/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeMin) * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Database unreachable:", err)
	}

	log.Println("Running database migrations...")
	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migration completed successfully")

	gameRepo := postgres.NewGameRepo(db)
	userRepo := postgres.NewUserRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)

	if err := redis.InitRedis(); err != nil {
		log.Printf("Failed to initialize Redis: %v", err)
	}
	defer redis.CloseRedis()

	var cache *redis.RedisCache
	if redis.IsRedisEnabled() && redis.RedisClient != nil {
		cache = redis.NewRedisCache(redis.RedisClient)
	}

	// the interface-typed views keep a nil *RedisCache from becoming a
	// non-nil interface inside the services
	var gameCache game.CacheRepository
	var authCache session.CacheRepository
	if cache != nil {
		gameCache = cache
		authCache = cache
	}

	rules := domain.Rules{
		Rows:      cfg.BoardRows,
		Columns:   cfg.BoardColumns,
		WinLength: cfg.WinLength,
	}
	gameService := game.NewService(gameRepo, gameCache, rules, cfg.GameSnapshotTTL)
	authService := session.NewAuthService(sessionRepo, authCache)
	connManager := websocket.NewConnectionManager()

	cleanupWorker := cleanup.NewWorker(gameService, sessionRepo)
	cleanupWorker.Start()

	authHandler := transportHttp.NewAuthHandler(userRepo, authService)
	oauthHandler := transportHttp.NewOAuthHandler(userRepo, authService)
	gameHandler := transportHttp.NewGameHandler(gameService)
	historyHandler := transportHttp.NewHistoryHandler(gameRepo)
	wsHandler := websocket.NewHandler(connManager, gameService, authService)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware())

	authMW := middleware.AuthMiddleware(authService)

	// Public auth routes
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)

	// OAuth routes (public)
	router.GET("/api/auth/google/login", oauthHandler.GoogleLogin)
	router.GET("/api/auth/google/callback", oauthHandler.GoogleCallback)

	// Protected routes
	protected := router.Group("/")
	protected.Use(authMW)
	{
		protected.POST("/api/auth/logout", authHandler.Logout)
		protected.GET("/api/auth/me", authHandler.Me)

		protected.POST("/api/game", gameHandler.CreateGame)
		protected.POST("/api/game/move", gameHandler.PlayMove)
		protected.GET("/api/game", gameHandler.GetState)
		protected.POST("/api/game/resign", gameHandler.Resign)

		protected.GET("/api/history", historyHandler.GetHistory)
		protected.GET("/api/history/:id", historyHandler.GetGameDetails)
	}

	// WebSocket route (auth handled inside the WS handler itself)
	router.GET("/ws", func(c *gin.Context) {
		wsHandler.HandleWebSocket(c.Writer, c.Request)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

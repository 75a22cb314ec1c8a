package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/bellapacxx/bingo-caller/config"
	"github.com/bellapacxx/bingo-caller/routes"
	"github.com/bellapacxx/bingo-caller/services"
	"github.com/bellapacxx/bingo-caller/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupArchive connects the game archive, or disables it when no database is configured
func setupArchive(cfg config.Config) services.Archive {
	if cfg.DatabaseURL == "" {
		logger.Warnf("[DB] DATABASE_URL not set, game archive disabled")
		return services.NopArchive{}
	}
	db, err := config.SetupDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Errorf("[FATAL] %v", err)
		os.Exit(1)
	}
	return services.NewGormArchive(db)
}

// corsConfig allows the listed origins with credentials. A "*" entry allows
// every origin, and credentials are then turned off.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg config.Config, svc *services.LobbyService) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	routes.SetupRoutes(r, svc)
	return r
}

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("[FATAL] %v", err)
		os.Exit(1)
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		logger.Errorf("[FATAL] %v", err)
		os.Exit(1)
	}

	svc := services.NewLobbyService(services.Options{
		CelebrationDelay: cfg.CelebrationDelay,
		DrawMinInterval:  cfg.DrawMinInterval,
		Seed:             cfg.DrawSeed,
		AllowedOrigins:   cfg.AllowedOrigins,
		Archive:          setupArchive(cfg),
	})
	for _, id := range cfg.DefaultLobbies {
		if _, err := svc.Create(id); err != nil {
			logger.Errorf("[FATAL] default lobby: %v", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(cfg, svc),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("🚀 Bingo caller starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("[FATAL] Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
	svc.Shutdown()
}

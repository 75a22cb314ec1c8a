package routes

import (
	"net/http"
	"time"

	"github.com/bellapacxx/bingo-caller/controllers"
	"github.com/bellapacxx/bingo-caller/services"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, svc *services.LobbyService) {
	lobbies := controllers.NewLobbyController(svc)
	games := controllers.NewGameController(svc.Archive())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket lobby stream
	r.GET("/ws/:id", svc.HandleWebSocket)

	api := r.Group("/api")

	// ----------------------
	// Lobby routes
	// ----------------------
	api.GET("/lobbies", lobbies.ListLobbies)
	api.POST("/lobbies", lobbies.CreateLobby)
	api.GET("/lobbies/:id", lobbies.GetLobby)
	api.DELETE("/lobbies/:id", lobbies.DeleteLobby)
	api.GET("/lobbies/:id/board", lobbies.Board)
	api.GET("/lobbies/:id/history", lobbies.History)

	// ----------------------
	// Caller actions
	// ----------------------
	api.POST("/lobbies/:id/start", lobbies.Start)
	api.POST("/lobbies/:id/draw", lobbies.Draw)
	api.POST("/lobbies/:id/reset", lobbies.Reset)
	api.POST("/lobbies/:id/end", lobbies.End)

	// ----------------------
	// Archive & lookups
	// ----------------------
	api.GET("/games", games.ListGames)
	api.GET("/letters/:number", games.Letter)
}

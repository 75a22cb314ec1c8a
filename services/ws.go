package services

import (
	"net/http"

	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func (s *LobbyService) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin accepts requests without an Origin header, and any origin when
// the allow list is empty or contains "*".
func (s *LobbyService) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range s.opts.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// HandleWebSocket streams lobby events to the client and accepts commands from it.
func (s *LobbyService) HandleWebSocket(c *gin.Context) {
	lobby, err := s.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("[WS] upgrade error: %v", err)
		return
	}

	client := newClient(conn, lobby)
	if !lobby.addClient(client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

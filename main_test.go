package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/bellapacxx/bingo-caller/config"
	"github.com/bellapacxx/bingo-caller/services"
)

func TestCorsConfig(t *testing.T) {
	listed := corsConfig([]string{"http://localhost:3000"})
	assert.NoError(t, listed.Validate())
	assert.Equal(t, []string{"http://localhost:3000"}, listed.AllowOrigins)
	assert.True(t, listed.AllowCredentials)

	wildcard := corsConfig([]string{"http://localhost:3000", "*"})
	assert.NoError(t, wildcard.Validate())
	assert.True(t, wildcard.AllowAllOrigins)
	assert.Empty(t, wildcard.AllowOrigins)
	assert.False(t, wildcard.AllowCredentials)
}

func TestSetupRouter_Wildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := services.NewLobbyService(services.Options{})
	defer svc.Shutdown()

	r := setupRouter(config.Config{AllowedOrigins: []string{"*"}}, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/models"
	"github.com/bellapacxx/bingo-caller/services"
)

type fakeArchive struct {
	services.NopArchive
	games    []models.Game
	gotLobby string
	gotLimit int
}

func (f *fakeArchive) ListGames(_ context.Context, lobbyID string, limit int) ([]models.Game, error) {
	f.gotLobby = lobbyID
	f.gotLimit = limit
	return f.games, nil
}

func TestListGames_ArchiveDisabled(t *testing.T) {
	r, _ := newRouter(t, services.Options{})
	w := do(r, http.MethodGet, "/api/games", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListGames(t *testing.T) {
	archive := &fakeArchive{games: []models.Game{
		{ID: 2, LobbyID: "main", RoundNumber: 2, Status: models.GameStatusFinished, CallCount: 40},
		{ID: 1, LobbyID: "main", RoundNumber: 1, Status: models.GameStatusFinished, CallCount: 12},
	}}
	r, _ := newRouter(t, services.Options{Archive: archive})

	w := do(r, http.MethodGet, "/api/games?lobby=main&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var games []models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	require.Len(t, games, 2)
	assert.Equal(t, 40, games[0].CallCount)
	assert.Equal(t, "main", archive.gotLobby)
	assert.Equal(t, 5, archive.gotLimit)

	do(r, http.MethodGet, "/api/games", "")
	assert.Equal(t, 20, archive.gotLimit)

	for _, bad := range []string{"0", "101", "ten"} {
		w = do(r, http.MethodGet, "/api/games?limit="+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", bad)
	}
}

func TestLetter(t *testing.T) {
	r, _ := newRouter(t, services.Options{})

	w := do(r, http.MethodGet, "/api/letters/42", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ball game.Ball
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ball))
	assert.Equal(t, game.Ball{Number: 42, Letter: game.LetterN}, ball)

	for _, bad := range []string{"0", "76", "x"} {
		w = do(r, http.MethodGet, "/api/letters/"+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "number=%s", bad)
	}
}

package services

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-caller/game"
)

func TestLobbyService_CreateGetRemove(t *testing.T) {
	svc := NewLobbyService(Options{})
	defer svc.Shutdown()

	l, err := svc.Create("main")
	require.NoError(t, err)
	assert.Equal(t, "main", l.ID)

	got, err := svc.Get("main")
	require.NoError(t, err)
	assert.Same(t, l, got)

	_, err = svc.Create("main")
	assert.ErrorIs(t, err, ErrLobbyExists)

	require.NoError(t, svc.Remove("main"))
	_, err = svc.Get("main")
	assert.ErrorIs(t, err, ErrLobbyNotFound)
	assert.ErrorIs(t, svc.Remove("main"), ErrLobbyNotFound)
}

func TestLobbyService_CreateGeneratesID(t *testing.T) {
	svc := NewLobbyService(Options{})
	defer svc.Shutdown()

	a, err := svc.Create("")
	require.NoError(t, err)
	b, err := svc.Create("")
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLobbyService_CreateRejectsBadID(t *testing.T) {
	svc := NewLobbyService(Options{})
	for _, id := range []string{"has space", "slash/id", "ümlaut", string(make([]byte, 65))} {
		_, err := svc.Create(id)
		assert.ErrorIs(t, err, ErrInvalidLobbyID, "id %q", id)
	}
}

func TestLobbyService_LobbiesAreIndependent(t *testing.T) {
	svc := NewLobbyService(Options{Seed: seed(9)})
	defer svc.Shutdown()

	a, _ := svc.Create("a")
	b, _ := svc.Create("b")
	a.Start()
	a.Draw()
	a.Draw()

	assert.Equal(t, 2, a.Snapshot().DrawnCount)
	assert.Equal(t, game.StateIdle, b.Snapshot().State)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, game.StateActive, list[0].State)
	assert.Equal(t, 2, list[0].DrawnCount)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, game.StatusReady, list[1].Status)
}

func TestLobbyService_SeedReproducesDrawOrder(t *testing.T) {
	draws := func() []int {
		svc := NewLobbyService(Options{Seed: seed(2024)})
		defer svc.Shutdown()
		l, _ := svc.Create("x")
		l.Start()
		var out []int
		for i := 0; i < 10; i++ {
			out = append(out, l.Draw().Ball.Number)
		}
		return out
	}
	assert.Equal(t, draws(), draws())
}

func TestLobbyService_Archive(t *testing.T) {
	svc := NewLobbyService(Options{})
	_, ok := svc.Archive().(NopArchive)
	assert.True(t, ok)

	_, err := svc.Archive().ListGames(context.Background(), "", 10)
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

func TestCheckOrigin(t *testing.T) {
	svc := NewLobbyService(Options{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest("GET", "/ws/main", nil)
	assert.True(t, svc.checkOrigin(req), "no origin header")

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, svc.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.test")
	assert.False(t, svc.checkOrigin(req))

	open := NewLobbyService(Options{AllowedOrigins: []string{"*"}})
	assert.True(t, open.checkOrigin(req))
}

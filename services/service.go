package services

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/google/uuid"
)

var lobbyIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Options configure every lobby created by a LobbyService.
type Options struct {
	CelebrationDelay time.Duration
	DrawMinInterval  time.Duration

	// Seed makes draw order reproducible. Nil means auto-seeded.
	Seed           *uint64
	AllowedOrigins []string
	Archive        Archive
}

// LobbySummary is the listing view of a lobby.
type LobbySummary struct {
	ID         string      `json:"id"`
	State      game.State  `json:"state"`
	Status     game.Status `json:"status"`
	DrawnCount int         `json:"drawnCount"`
	Clients    int         `json:"clients"`
}

// LobbyService owns the set of lobbies.
type LobbyService struct {
	mu      sync.RWMutex
	lobbies map[string]*Lobby
	opts    Options
}

func NewLobbyService(opts Options) *LobbyService {
	if opts.Archive == nil {
		opts.Archive = NopArchive{}
	}
	return &LobbyService{
		lobbies: make(map[string]*Lobby),
		opts:    opts,
	}
}

// Create adds a lobby. An empty id gets a generated one.
func (s *LobbyService) Create(id string) (*Lobby, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if !lobbyIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLobbyID, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lobbies[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrLobbyExists, id)
	}
	l := newLobby(id, s.newRNG(), s.opts)
	s.lobbies[id] = l

	logger.Infof("[Lobbies] created %s (total=%d)", id, len(s.lobbies))
	return l, nil
}

func (s *LobbyService) newRNG() game.RNG {
	if s.opts.Seed != nil {
		return game.NewSeededRNG(*s.opts.Seed)
	}
	return game.NewRNG()
}

func (s *LobbyService) Get(id string) (*Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lobbies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLobbyNotFound, id)
	}
	return l, nil
}

// List returns every lobby sorted by id.
func (s *LobbyService) List() []LobbySummary {
	s.mu.RLock()
	lobbies := make([]*Lobby, 0, len(s.lobbies))
	for _, l := range s.lobbies {
		lobbies = append(lobbies, l)
	}
	s.mu.RUnlock()

	out := make([]LobbySummary, 0, len(lobbies))
	for _, l := range lobbies {
		snap := l.Snapshot()
		out = append(out, LobbySummary{
			ID:         l.ID,
			State:      snap.State,
			Status:     snap.Status,
			DrawnCount: snap.DrawnCount,
			Clients:    l.clientCount(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remove closes and forgets a lobby.
func (s *LobbyService) Remove(id string) error {
	s.mu.Lock()
	l, ok := s.lobbies[id]
	delete(s.lobbies, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrLobbyNotFound, id)
	}
	l.Close()
	return nil
}

// Archive exposes the game archive for read endpoints.
func (s *LobbyService) Archive() Archive {
	return s.opts.Archive
}

// Shutdown closes every lobby.
func (s *LobbyService) Shutdown() {
	s.mu.Lock()
	lobbies := s.lobbies
	s.lobbies = make(map[string]*Lobby)
	s.mu.Unlock()

	for _, l := range lobbies {
		l.Close()
	}
	logger.Infof("[Lobbies] shut down %d lobbies", len(lobbies))
}

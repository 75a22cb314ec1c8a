package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/models"
	"github.com/bellapacxx/bingo-caller/utils/logger"
	"golang.org/x/time/rate"
)

const (
	// ReasonThrottled marks a draw refused because it came too soon after the last one.
	ReasonThrottled = "throttled"
	// ReasonClosed marks an operation on a lobby that has been removed or shut down.
	ReasonClosed = "lobby_closed"
)

// EventState is sent to a websocket client right after it connects.
const EventState = "state"

// Event is the JSON message fanned out to websocket clients.
type Event struct {
	Type   string        `json:"type"`
	Lobby  string        `json:"lobby"`
	Ball   *game.Ball    `json:"ball,omitempty"`
	Reason string        `json:"reason,omitempty"`
	State  game.Snapshot `json:"state"`
}

// Lobby is one calling screen: a DrawEngine shared by every client watching it.
// All engine access goes through mu.
type Lobby struct {
	ID string

	mu          sync.Mutex
	engine      *game.DrawEngine
	limiter     *rate.Limiter
	celebration time.Duration
	endTimer    *time.Timer
	endGen      uint64
	recorder    *recorder
	clients     map[*Client]bool
	closed      bool
}

func newLobby(id string, rng game.RNG, opts Options) *Lobby {
	limit := rate.Inf
	if opts.DrawMinInterval > 0 {
		limit = rate.Every(opts.DrawMinInterval)
	}
	archive := opts.Archive
	if archive == nil {
		archive = NopArchive{}
	}
	return &Lobby{
		ID:          id,
		engine:      game.NewDrawEngine(rng),
		limiter:     rate.NewLimiter(limit, 1),
		celebration: opts.CelebrationDelay,
		recorder:    newRecorder(id, archive),
		clients:     make(map[*Client]bool),
	}
}

// -------------------- Operations --------------------

// Start begins a new game, closing any game already in progress.
func (l *Lobby) Start() game.Change {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return l.ignored(ReasonClosed)
	}

	called := l.engine.Snapshot().Called
	ch := l.engine.Start()
	if !ch.Applied() {
		return ch
	}
	l.recorder.closeGame(models.EndRestarted, called)
	l.recorder.openGame()

	logger.Infof("[Lobby %s] game started", l.ID)
	l.broadcast(ch)
	return ch
}

// Draw calls the next number. Draws arriving faster than the configured
// interval are ignored.
func (l *Lobby) Draw() game.Change {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return l.ignored(ReasonClosed)
	}
	if l.engine.State() == game.StateActive && l.engine.Remaining() > 0 && !l.limiter.Allow() {
		return l.ignored(ReasonThrottled)
	}

	ch := l.engine.DrawNext()
	switch ch.Signal {
	case game.SignalDrawn:
		logger.Debugf("[Lobby %s] called %s (%d left)", l.ID, ch.Ball, ch.Snapshot.Remaining)
		l.recorder.recordCall(ch.Snapshot.DrawnCount, *ch.Ball)
		l.broadcast(ch)
	case game.SignalExhausted:
		logger.Infof("[Lobby %s] all numbers called", l.ID)
		l.broadcast(ch)
	}
	return ch
}

// Reset clears the board. confirmed must be true.
func (l *Lobby) Reset(confirmed bool) game.Change {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return l.ignored(ReasonClosed)
	}

	called := l.engine.Snapshot().Called
	ch := l.engine.Reset(confirmed)
	if !ch.Applied() {
		return ch
	}
	l.recorder.closeGame(models.EndReset, called)

	logger.Infof("[Lobby %s] board reset after %d calls", l.ID, len(called))
	l.broadcast(ch)
	return ch
}

// RequestEnd starts the closing celebration. The lobby returns to idle on its
// own once the celebration delay has passed.
func (l *Lobby) RequestEnd() game.Change {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return l.ignored(ReasonClosed)
	}

	ch := l.engine.RequestEnd()
	if !ch.Applied() {
		return ch
	}

	l.endGen++
	gen := l.endGen
	l.endTimer = time.AfterFunc(l.celebration, func() { l.finishCelebration(gen) })

	logger.Infof("[Lobby %s] ending, celebration for %s", l.ID, l.celebration)
	l.broadcast(ch)
	return ch
}

// CompleteEnd cuts the celebration short. Normally the timer armed by RequestEnd calls it.
func (l *Lobby) CompleteEnd() game.Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.completeEnd()
}

// finishCelebration runs on the timer goroutine. A timer left over from an
// earlier celebration is a no-op.
func (l *Lobby) finishCelebration(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.endGen {
		return
	}
	l.completeEnd()
}

func (l *Lobby) completeEnd() game.Change {
	if l.closed {
		return l.ignored(ReasonClosed)
	}
	called := l.engine.Snapshot().Called
	ch := l.engine.CompleteEnd()
	if !ch.Applied() {
		return ch
	}
	l.stopTimer()
	l.recorder.closeGame(models.EndCelebrated, called)

	logger.Infof("[Lobby %s] game ended after %d calls", l.ID, len(called))
	l.broadcast(ch)
	return ch
}

// -------------------- Queries --------------------

func (l *Lobby) Snapshot() game.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Snapshot()
}

func (l *Lobby) Board() []game.Cell {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Board()
}

func (l *Lobby) clientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// -------------------- Lifecycle --------------------

// Close stops the celebration timer, disconnects clients and archives an open
// game. It returns once pending archive writes are done. Later operations on
// the lobby are ignored.
func (l *Lobby) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.endGen++
	l.stopTimer()
	l.recorder.closeGame(models.EndShutdown, l.engine.Snapshot().Called)

	for c := range l.clients {
		delete(l.clients, c)
		c.Close()
	}
	l.mu.Unlock()

	l.recorder.stop()
	logger.Infof("[Lobby %s] closed", l.ID)
}

func (l *Lobby) ignored(reason string) game.Change {
	return game.Change{Signal: game.SignalIgnored, Reason: reason, Snapshot: l.engine.Snapshot()}
}

func (l *Lobby) stopTimer() {
	if l.endTimer != nil {
		l.endTimer.Stop()
		l.endTimer = nil
	}
}

// -------------------- Broadcast --------------------

func (l *Lobby) broadcast(ch game.Change) {
	l.send(Event{
		Type:   string(ch.Signal),
		Lobby:  l.ID,
		Ball:   ch.Ball,
		Reason: ch.Reason,
		State:  ch.Snapshot,
	}, nil)
}

// send delivers ev to one client, or to all clients when to is nil. Callers hold mu.
func (l *Lobby) send(ev Event, to *Client) {
	b, err := json.Marshal(ev)
	if err != nil {
		logger.Errorf("[Lobby %s] marshal event: %v", l.ID, err)
		return
	}

	targets := l.clients
	if to != nil {
		targets = map[*Client]bool{to: true}
	}
	for c := range targets {
		select {
		case c.send <- b:
		default:
			logger.Warnf("[Lobby %s] dropping %s to slow client", l.ID, ev.Type)
		}
	}
}

func (l *Lobby) addClient(c *Client) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	l.clients[c] = true
	l.send(Event{Type: EventState, Lobby: l.ID, State: l.engine.Snapshot()}, c)

	logger.Infof("[Lobby %s] client joined (total=%d)", l.ID, len(l.clients))
	return true
}

func (l *Lobby) removeClient(c *Client) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.clients[c]; !ok {
		return
	}
	delete(l.clients, c)
	c.Close()
	logger.Infof("[Lobby %s] client left (total=%d)", l.ID, len(l.clients))
}

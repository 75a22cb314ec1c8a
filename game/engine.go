package game

// State is the lifecycle phase of a calling session.
type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
	StateEnding State = "ending"
)

// Status is the derived progress label shown next to the board.
type Status string

const (
	StatusReady        Status = "ready"
	StatusInProgress   Status = "in_progress"
	StatusFinalStretch Status = "final_stretch"
	StatusComplete     Status = "complete"
)

// Signal tells the renderer what an operation did.
type Signal string

const (
	SignalStarted   Signal = "started"
	SignalDrawn     Signal = "drawn"
	SignalExhausted Signal = "exhausted"
	SignalReset     Signal = "reset"
	SignalEnding    Signal = "ending"
	SignalEnded     Signal = "ended"
	SignalIgnored   Signal = "ignored"
)

const (
	HistorySize = 5
	// FinalStretchAt is the remaining count at which the status flips to final stretch.
	FinalStretchAt = 10
)

// Reasons attached to ignored changes.
const (
	ReasonNotActive   = "not_active"
	ReasonNotEnding   = "not_ending"
	ReasonEnding      = "celebration_in_progress"
	ReasonUnconfirmed = "confirmation_required"
)

// Snapshot is the renderable view of the engine after an operation.
type Snapshot struct {
	Current    *Ball  `json:"current"`
	Previous   *Ball  `json:"previous"`
	DrawnCount int    `json:"drawnCount"`
	Remaining  int    `json:"remaining"`
	History    []Ball `json:"history"`
	Called     []int  `json:"called"`
	Status     Status `json:"status"`
	State      State  `json:"state"`
}

// Change is returned by every engine operation.
type Change struct {
	Signal   Signal   `json:"signal"`
	Ball     *Ball    `json:"ball,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Snapshot Snapshot `json:"snapshot"`
}

// Applied reports whether the operation mutated the engine.
func (c Change) Applied() bool {
	return c.Signal != SignalIgnored && c.Signal != SignalExhausted
}

// Cell is one square of the 75-number master board.
type Cell struct {
	Number int    `json:"number"`
	Letter Letter `json:"letter"`
	Called bool   `json:"called"`
}

// DrawEngine owns the number pool, the call history and the session lifecycle.
// It is not safe for concurrent use; callers sharing an engine must serialize access.
type DrawEngine struct {
	rng      RNG
	drawn    map[int]bool
	order    []int
	history  []int
	current  int
	previous int
	state    State
}

// NewDrawEngine returns an idle engine. A nil rng falls back to NewRNG().
func NewDrawEngine(rng RNG) *DrawEngine {
	if rng == nil {
		rng = NewRNG()
	}
	e := &DrawEngine{rng: rng}
	e.clear(StateIdle)
	return e
}

func (e *DrawEngine) clear(state State) {
	e.drawn = make(map[int]bool, MaxNumber)
	e.order = make([]int, 0, MaxNumber)
	e.history = make([]int, 0, HistorySize)
	e.current = 0
	e.previous = 0
	e.state = state
}

// Start begins a fresh session. Restarting an active session discards its calls.
func (e *DrawEngine) Start() Change {
	if e.state == StateEnding {
		return e.ignored(ReasonEnding)
	}
	e.clear(StateActive)
	return e.change(SignalStarted, nil)
}

// DrawNext calls one uncalled number chosen uniformly at random.
func (e *DrawEngine) DrawNext() Change {
	switch e.state {
	case StateEnding:
		return e.ignored(ReasonEnding)
	case StateIdle:
		return e.ignored(ReasonNotActive)
	}

	uncalled := e.uncalled()
	if len(uncalled) == 0 {
		return e.change(SignalExhausted, nil)
	}

	n := uncalled[e.rng.Intn(len(uncalled))]

	e.previous = e.current
	e.current = n
	e.drawn[n] = true
	e.order = append(e.order, n)

	e.history = append(e.history, 0)
	copy(e.history[1:], e.history)
	e.history[0] = n
	if len(e.history) > HistorySize {
		e.history = e.history[:HistorySize]
	}

	ball := NewBall(n)
	return e.change(SignalDrawn, &ball)
}

// Reset clears the session back to idle. It is destructive, so callers must pass
// confirmed=true, and it is refused outside an active session.
func (e *DrawEngine) Reset(confirmed bool) Change {
	switch {
	case e.state == StateEnding:
		return e.ignored(ReasonEnding)
	case e.state != StateActive:
		return e.ignored(ReasonNotActive)
	case !confirmed:
		return e.ignored(ReasonUnconfirmed)
	}
	e.clear(StateIdle)
	return e.change(SignalReset, nil)
}

// RequestEnd locks the session for the closing celebration. Draws are refused
// until CompleteEnd is called.
func (e *DrawEngine) RequestEnd() Change {
	if e.state != StateActive {
		return e.ignored(ReasonNotActive)
	}
	e.state = StateEnding
	return e.change(SignalEnding, nil)
}

// CompleteEnd finishes the celebration and returns the engine to idle.
func (e *DrawEngine) CompleteEnd() Change {
	if e.state != StateEnding {
		return e.ignored(ReasonNotEnding)
	}
	e.clear(StateIdle)
	return e.change(SignalEnded, nil)
}

// State is the current lifecycle phase.
func (e *DrawEngine) State() State { return e.state }

// Remaining is the number of uncalled values in the pool.
func (e *DrawEngine) Remaining() int { return MaxNumber - len(e.drawn) }

// Status derives the progress label from the state and the remaining count.
func (e *DrawEngine) Status() Status {
	remaining := e.Remaining()
	switch {
	case e.state == StateIdle:
		return StatusReady
	case remaining == 0:
		return StatusComplete
	case remaining <= FinalStretchAt:
		return StatusFinalStretch
	default:
		return StatusInProgress
	}
}

// Snapshot copies the current view. The returned slices are owned by the caller.
func (e *DrawEngine) Snapshot() Snapshot {
	s := Snapshot{
		DrawnCount: len(e.drawn),
		Remaining:  e.Remaining(),
		History:    make([]Ball, len(e.history)),
		Called:     append([]int(nil), e.order...),
		Status:     e.Status(),
		State:      e.state,
	}
	if e.current != 0 {
		b := NewBall(e.current)
		s.Current = &b
	}
	if e.previous != 0 {
		b := NewBall(e.previous)
		s.Previous = &b
	}
	for i, n := range e.history {
		s.History[i] = NewBall(n)
	}
	return s
}

// Board returns the 75-cell master board with called numbers marked.
func (e *DrawEngine) Board() []Cell {
	cells := make([]Cell, 0, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		cells = append(cells, Cell{Number: n, Letter: LetterFor(n), Called: e.drawn[n]})
	}
	return cells
}

func (e *DrawEngine) uncalled() []int {
	out := make([]int, 0, e.Remaining())
	for n := MinNumber; n <= MaxNumber; n++ {
		if !e.drawn[n] {
			out = append(out, n)
		}
	}
	return out
}

func (e *DrawEngine) change(sig Signal, ball *Ball) Change {
	return Change{Signal: sig, Ball: ball, Snapshot: e.Snapshot()}
}

func (e *DrawEngine) ignored(reason string) Change {
	return Change{Signal: SignalIgnored, Reason: reason, Snapshot: e.Snapshot()}
}

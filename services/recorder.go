package services

import (
	"context"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-caller/game"
	"github.com/bellapacxx/bingo-caller/utils/logger"
)

const archiveTimeout = 5 * time.Second

type jobKind int

const (
	jobOpen jobKind = iota
	jobCall
	jobClose
)

type archiveJob struct {
	kind     jobKind
	sequence int
	ball     game.Ball
	reason   string
	called   []int
}

// recorder writes a lobby's archive records on its own goroutine, in the
// order the lobby queued them. The queue is unbounded so enqueue never waits
// on the database.
type recorder struct {
	lobbyID string
	archive Archive

	mu      sync.Mutex
	cond    *sync.Cond
	jobs    []archiveJob
	stopped bool
	done    chan struct{}

	// gameID is only touched by the run goroutine.
	gameID uint
}

func newRecorder(lobbyID string, archive Archive) *recorder {
	r := &recorder{
		lobbyID: lobbyID,
		archive: archive,
		done:    make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.mu)
	go r.run()
	return r
}

func (r *recorder) openGame() {
	r.enqueue(archiveJob{kind: jobOpen})
}

func (r *recorder) recordCall(sequence int, ball game.Ball) {
	r.enqueue(archiveJob{kind: jobCall, sequence: sequence, ball: ball})
}

func (r *recorder) closeGame(reason string, called []int) {
	r.enqueue(archiveJob{kind: jobClose, reason: reason, called: called})
}

func (r *recorder) enqueue(job archiveJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.jobs = append(r.jobs, job)
	r.cond.Signal()
}

// stop waits for queued jobs to be written, then ends the goroutine.
func (r *recorder) stop() {
	r.mu.Lock()
	r.stopped = true
	r.cond.Signal()
	r.mu.Unlock()
	<-r.done
}

func (r *recorder) run() {
	defer close(r.done)
	for {
		r.mu.Lock()
		for len(r.jobs) == 0 && !r.stopped {
			r.cond.Wait()
		}
		if len(r.jobs) == 0 {
			r.mu.Unlock()
			return
		}
		job := r.jobs[0]
		r.jobs = r.jobs[1:]
		r.mu.Unlock()

		r.apply(job)
	}
}

// Archive errors are logged and swallowed: a failing database must not stop the game.
func (r *recorder) apply(job archiveJob) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	switch job.kind {
	case jobOpen:
		id, err := r.archive.OpenGame(ctx, r.lobbyID)
		if err != nil {
			logger.Errorf("[Lobby %s] failed to open game record: %v", r.lobbyID, err)
			id = 0
		}
		r.gameID = id

	case jobCall:
		if r.gameID == 0 {
			return
		}
		if err := r.archive.RecordCall(ctx, r.gameID, job.sequence, job.ball); err != nil {
			logger.Errorf("[Lobby %s] failed to record call %s: %v", r.lobbyID, job.ball, err)
		}

	case jobClose:
		if r.gameID == 0 {
			return
		}
		if err := r.archive.CloseGame(ctx, r.gameID, job.reason, job.called); err != nil {
			logger.Errorf("[Lobby %s] failed to close game %d: %v", r.lobbyID, r.gameID, err)
		}
		r.gameID = 0
	}
}

// Package matchmaking queues players by stake level and periodically groups
// them onto tables once enough have queued, re-queueing anyone a seating
// attempt failed for.
package matchmaking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// BlindLevel identifies one stake tier's queue.
type BlindLevel struct {
	SmallBlind int
	BigBlind   int
}

// Request is one player waiting to be seated.
type Request struct {
	UserID      string
	DisplayName string
	IsBot       bool
	BuyIn       int
}

// Seater seats a batch of requests at the given blind level, returning the
// subset that could not be seated so the pool can re-queue them. A non-nil
// error means the whole batch should be re-queued (e.g. no table could be
// created).
type Seater func(level BlindLevel, batch []Request) (unseated []Request, err error)

// Pool holds one FIFO queue per blind level and drains them either when a
// player enqueues or on a fixed interval, whichever comes first.
type Pool struct {
	mu     sync.Mutex
	queues map[BlindLevel][]Request

	minPlayers int
	maxPlayers int
	seat       Seater
	trigger    chan struct{}
}

// New returns an empty pool. seat is invoked from the pool's own goroutine
// (via Run), never concurrently with itself.
func New(minPlayers, maxPlayers int, seat Seater) *Pool {
	return &Pool{
		queues:     make(map[BlindLevel][]Request),
		minPlayers: minPlayers,
		maxPlayers: maxPlayers,
		seat:       seat,
		trigger:    make(chan struct{}, 1),
	}
}

// Enqueue adds req to the back of level's queue and wakes the drain loop.
func (p *Pool) Enqueue(level BlindLevel, req Request) {
	p.mu.Lock()
	p.queues[level] = append(p.queues[level], req)
	p.mu.Unlock()
	p.wake()
}

// Dequeue removes userID from every queue, used when a player cancels
// matchmaking before being seated.
func (p *Pool) Dequeue(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for level, q := range p.queues {
		filtered := q[:0]
		for _, r := range q {
			if r.UserID != userID {
				filtered = append(filtered, r)
			}
		}
		p.queues[level] = filtered
	}
}

// QueueLength reports how many players are waiting at a blind level.
func (p *Pool) QueueLength(level BlindLevel) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queues[level])
}

func (p *Pool) wake() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run drains every queue whenever woken by Enqueue or every interval,
// whichever happens first, until ctx is cancelled.
func (p *Pool) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.trigger:
			p.drainAll()
		case <-ticker.C:
			p.drainAll()
		}
	}
}

func (p *Pool) drainAll() {
	p.mu.Lock()
	levels := make([]BlindLevel, 0, len(p.queues))
	for level := range p.queues {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].SmallBlind != levels[j].SmallBlind {
			return levels[i].SmallBlind < levels[j].SmallBlind
		}
		return levels[i].BigBlind < levels[j].BigBlind
	})
	p.mu.Unlock()

	for _, level := range levels {
		p.drain(level)
	}
}

func (p *Pool) drain(level BlindLevel) {
	for {
		p.mu.Lock()
		q := p.queues[level]
		if len(q) < p.minPlayers {
			p.mu.Unlock()
			return
		}
		n := len(q)
		if n > p.maxPlayers {
			n = p.maxPlayers
		}
		batch := append([]Request{}, q[:n]...)
		p.queues[level] = q[n:]
		p.mu.Unlock()

		unseated, err := p.seat(level, batch)
		if err != nil {
			p.mu.Lock()
			p.queues[level] = append(batch, p.queues[level]...)
			p.mu.Unlock()
			return
		}
		if len(unseated) > 0 {
			p.mu.Lock()
			p.queues[level] = append(unseated, p.queues[level]...)
			p.mu.Unlock()
		}
		if len(unseated) == len(batch) {
			return
		}
	}
}

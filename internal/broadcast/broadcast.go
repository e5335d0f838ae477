// Package broadcast fans a table's events out to every subscribed seat and
// keeps a bounded rolling log so a reconnecting session can catch up.
package broadcast

import (
	"sync"
	"time"

	"github.com/okihara/plo-game-sub002/internal/pokererr"
)

// historyLimit bounds the rolling per-table log, mirroring the teacher's
// list_monitor.go ring-buffer approach to recent-activity views.
const historyLimit = 200

// Sink is anything that can deliver one message to one subscriber. Session
// connections implement it; tests use a channel-backed fake.
type Sink interface {
	Send(msg any) error
}

// LoggedMessage is one entry in a room's rolling history.
type LoggedMessage struct {
	At      time.Time
	Seat    int // -1 for a room-wide broadcast
	Message any
}

// Room fans messages out to a table's subscribed seats. It holds no
// knowledge of the wire format; msg is whatever the caller's protocol layer
// already encoded.
type Room struct {
	mu          sync.Mutex
	subscribers map[int]Sink
	log         []LoggedMessage
	now         func() time.Time
}

// NewRoom returns an empty room with no subscribers.
func NewRoom() *Room {
	return &Room{
		subscribers: make(map[int]Sink),
		now:         time.Now,
	}
}

// Subscribe binds sink as the delivery target for seat, replacing whatever
// was subscribed there before.
func (r *Room) Subscribe(seat int, sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[seat] = sink
}

// Unsubscribe removes a seat's delivery target, e.g. on disconnect or
// unseat.
func (r *Room) Unsubscribe(seat int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscribers, seat)
}

// Broadcast delivers msg to every subscribed seat and records it in the
// rolling log. Per-seat send failures are collected but do not stop
// delivery to the rest of the room — a single stuck connection must never
// block the table.
func (r *Room) Broadcast(msg any) []error {
	r.mu.Lock()
	sinks := make(map[int]Sink, len(r.subscribers))
	for seat, sink := range r.subscribers {
		sinks[seat] = sink
	}
	r.appendLog(-1, msg)
	r.mu.Unlock()

	var errs []error
	for seat, sink := range sinks {
		if err := sink.Send(msg); err != nil {
			errs = append(errs, pokererr.Wrap(pokererr.KindConnectionLost, "broadcast.Broadcast", err))
			_ = seat
		}
	}
	return errs
}

// Unicast delivers msg to a single seat only.
func (r *Room) Unicast(seat int, msg any) error {
	r.mu.Lock()
	sink, ok := r.subscribers[seat]
	r.appendLog(seat, msg)
	r.mu.Unlock()
	if !ok {
		return pokererr.New(pokererr.KindConnectionLost, "broadcast.Unicast", "seat has no active subscriber")
	}
	return sink.Send(msg)
}

// appendLog must be called with mu held.
func (r *Room) appendLog(seat int, msg any) {
	r.log = append(r.log, LoggedMessage{At: r.now(), Seat: seat, Message: msg})
	if len(r.log) > historyLimit {
		r.log = r.log[len(r.log)-historyLimit:]
	}
}

// History returns a copy of the room's rolling log, oldest first.
func (r *Room) History() []LoggedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LoggedMessage, len(r.log))
	copy(out, r.log)
	return out
}

// SubscriberCount reports how many seats currently have an active sink.
func (r *Room) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

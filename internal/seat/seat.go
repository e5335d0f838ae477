// Package seat manages a table's six fixed slots: who occupies them, how
// they get seated and unseated, and how a seat is carried across hands when
// its player leaves mid-hand (fast-fold reassignment).
package seat

import (
	"sync"

	"github.com/okihara/plo-game-sub002/internal/pokererr"
)

const Count = 6

// Occupant is the persistent identity bound to a seat, independent of any
// single hand's cards or chip movement.
type Occupant struct {
	UserID      string
	DisplayName string
	IsBot       bool
	Connected   bool
	Chips       int
}

// Manager owns the seat assignment for one table. It is safe for concurrent
// use; callers outside the table's serial command loop (session lookups,
// stats reporting) read through it without racing the hand engine.
type Manager struct {
	mu    sync.RWMutex
	seats [Count]*Occupant
	// waitingForNextHand marks a seat that asked to leave mid-hand: it plays
	// out the current hand undisturbed and is cleared out by ClearLeavers
	// once that hand completes.
	waitingForNextHand [Count]bool
}

// NewManager returns an empty six-seat table.
func NewManager() *Manager {
	return &Manager{}
}

// Seat places occupant into the lowest-numbered empty slot and returns its
// index, or an error if the table is full.
func (m *Manager) Seat(occupant Occupant) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < Count; i++ {
		if m.seats[i] == nil {
			o := occupant
			m.seats[i] = &o
			return i, nil
		}
	}
	return -1, pokererr.New(pokererr.KindInputInvalid, "seat.Seat", "table is full")
}

// Unseat immediately clears a seat. Callers running a hand in progress
// should prefer MarkLeaving so the seat's chips stay live through showdown.
func (m *Manager) Unseat(idx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx < 0 || idx >= Count || m.seats[idx] == nil {
		return pokererr.New(pokererr.KindInputInvalid, "seat.Unseat", "seat is not occupied")
	}
	m.seats[idx] = nil
	m.waitingForNextHand[idx] = false
	return nil
}

// MarkLeftForFastFold immediately clears a seat whose occupant fast-folded.
// Unlike Unseat's documented mid-hand caveat, this is always safe to call
// mid-hand: the occupant's cards are already dead for the rest of the
// current hand by the time a fast-fold command reaches here. It returns the
// vacated occupant so the caller can re-seat them at another table with
// their chip count intact.
func (m *Manager) MarkLeftForFastFold(idx int) (Occupant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx < 0 || idx >= Count || m.seats[idx] == nil {
		return Occupant{}, pokererr.New(pokererr.KindInputInvalid, "seat.MarkLeftForFastFold", "seat is not occupied")
	}
	occ := *m.seats[idx]
	m.seats[idx] = nil
	m.waitingForNextHand[idx] = false
	return occ, nil
}

// MarkLeaving flags a seat to be vacated once the current hand ends, without
// disturbing it mid-hand.
func (m *Manager) MarkLeaving(idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waitingForNextHand[idx] = true
}

// IsLeaving reports whether a seat asked to leave and is waiting for the
// current hand to end.
func (m *Manager) IsLeaving(idx int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.waitingForNextHand[idx]
}

// ClearLeavers unseats every seat marked as leaving. Called once a hand
// completes, before the next StartNewHand.
func (m *Manager) ClearLeavers() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cleared []int
	for i := 0; i < Count; i++ {
		if m.waitingForNextHand[i] {
			m.seats[i] = nil
			m.waitingForNextHand[i] = false
			cleared = append(cleared, i)
		}
	}
	return cleared
}

// SetConnected updates a seat's transport connectivity, used by the action
// controller's disconnect-fold logic and by the broadcast service to decide
// who needs a reconnection snapshot.
func (m *Manager) SetConnected(idx int, connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seats[idx] != nil {
		m.seats[idx].Connected = connected
	}
}

// Get returns a copy of the occupant at idx, or false if the seat is empty.
func (m *Manager) Get(idx int) (Occupant, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if idx < 0 || idx >= Count || m.seats[idx] == nil {
		return Occupant{}, false
	}
	return *m.seats[idx], true
}

// Occupied returns the indices of every filled seat, ascending.
func (m *Manager) Occupied() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []int
	for i := 0; i < Count; i++ {
		if m.seats[i] != nil {
			out = append(out, i)
		}
	}
	return out
}

// SeatOf returns the seat index a user currently occupies, or -1.
func (m *Manager) SeatOf(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := 0; i < Count; i++ {
		if m.seats[i] != nil && m.seats[i].UserID == userID {
			return i
		}
	}
	return -1
}

// OccupantCount returns how many seats are currently filled.
func (m *Manager) OccupantCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for i := 0; i < Count; i++ {
		if m.seats[i] != nil {
			n++
		}
	}
	return n
}

// AdjustChips applies a delta (positive or negative) to a seated occupant's
// chip count, used after a hand settles or a player rebuys.
func (m *Manager) AdjustChips(idx, delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seats[idx] != nil {
		m.seats[idx].Chips += delta
	}
}

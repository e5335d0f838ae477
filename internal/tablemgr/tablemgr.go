// Package tablemgr owns the registry of live table instances and the index
// from a player to whichever table currently seats them.
package tablemgr

import (
	"context"
	mrand "math/rand"
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/gameid"
	"github.com/okihara/plo-game-sub002/internal/pokererr"
	"github.com/okihara/plo-game-sub002/internal/randutil"
	"github.com/okihara/plo-game-sub002/internal/seat"
	"github.com/okihara/plo-game-sub002/internal/table"
)

// Manager creates, tracks, and tears down table instances.
type Manager struct {
	mu            sync.RWMutex
	tables        map[string]*table.Instance
	playerToTable map[string]string
	cancels       map[string]context.CancelFunc

	logger   zerolog.Logger
	clock    quartz.Clock
	rngSeed  int64
	observer table.HandObserver
}

// New returns an empty table registry.
func New(logger zerolog.Logger, clock quartz.Clock, rngSeed int64, observer table.HandObserver) *Manager {
	return &Manager{
		tables:        make(map[string]*table.Instance),
		playerToTable: make(map[string]string),
		cancels:       make(map[string]context.CancelFunc),
		logger:        logger,
		clock:         clock,
		rngSeed:       rngSeed,
		observer:      observer,
	}
}

// CreateTable starts a new table instance with a fresh id and returns it.
func (m *Manager) CreateTable(cfg table.Config) *table.Instance {
	return m.createWithID("tbl_"+gameid.Generate(), cfg)
}

// CreatePrivateTable behaves like CreateTable but uses a caller-supplied,
// presumably unguessable id, so invitees can join by id alone without it
// showing up in public listings.
func (m *Manager) CreatePrivateTable(id string, cfg table.Config) *table.Instance {
	return m.createWithID(id, cfg)
}

func (m *Manager) createWithID(id string, cfg table.Config) *table.Instance {
	// XOR the manager's seed with the table id's hash, then pass that through
	// randutil's SplitMix64 mixing rather than seeding with the XOR directly,
	// so ids whose hashes differ in only a few bits still land on
	// well-separated streams.
	derivedSeed := randutil.New(m.rngSeed ^ int64(hashID(id))).Int64()
	rng := mrand.New(mrand.NewSource(derivedSeed))
	t := table.New(id, cfg, rng, m.clock, m.logger, m.observer)

	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.tables[id] = t
	m.cancels[id] = cancel
	m.mu.Unlock()

	go t.Run(ctx)
	return t
}

// GetOrCreateFastFoldTable returns an open fast-fold table matching cfg's
// blinds other than excludeID, or creates a new one if none has a free
// seat. excludeID keeps a fast-fold reassignment from handing a player
// straight back to the table they just left.
func (m *Manager) GetOrCreateFastFoldTable(cfg table.Config, excludeID string) *table.Instance {
	m.mu.RLock()
	for id, t := range m.tables {
		if id == excludeID || !t.Config.IsFastFold {
			continue
		}
		if t.Config.SmallBlind != cfg.SmallBlind || t.Config.BigBlind != cfg.BigBlind {
			continue
		}
		if t.Seats.OccupantCount() < seat.Count {
			m.mu.RUnlock()
			return t
		}
	}
	m.mu.RUnlock()

	fastCfg := cfg
	fastCfg.IsFastFold = true
	return m.CreateTable(fastCfg)
}

// Get returns the table registered under id.
func (m *Manager) Get(id string) (*table.Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	return t, ok
}

// List returns every currently registered table id.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.tables))
	for id := range m.tables {
		out = append(out, id)
	}
	return out
}

// RemoveTable stops a table's command loop and drops it from the registry.
// It refuses to remove a table with a hand still in progress.
func (m *Manager) RemoveTable(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return pokererr.New(pokererr.KindInputInvalid, "tablemgr.RemoveTable", "unknown table")
	}
	if st := t.State(); st.IsHandActive && !st.IsComplete {
		return pokererr.New(pokererr.KindInputInvalid, "tablemgr.RemoveTable", "a hand is still in progress")
	}
	if cancel, ok := m.cancels[id]; ok {
		cancel()
	}
	delete(m.tables, id)
	delete(m.cancels, id)
	for user, tid := range m.playerToTable {
		if tid == id {
			delete(m.playerToTable, user)
		}
	}
	return nil
}

// BindPlayer records that userID is now seated at tableID.
func (m *Manager) BindPlayer(userID, tableID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playerToTable[userID] = tableID
}

// UnbindPlayer removes a player's table binding.
func (m *Manager) UnbindPlayer(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.playerToTable, userID)
}

// TableOf returns the table a player currently occupies, if any.
func (m *Manager) TableOf(userID string) (*table.Instance, bool) {
	m.mu.RLock()
	tid, ok := m.playerToTable[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return m.Get(tid)
}

func hashID(id string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(id); i++ {
		h ^= uint32(id[i])
		h *= 16777619
	}
	return h
}
